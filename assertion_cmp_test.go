package saml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"gotest.tools/assert"
)

// ParseAssertion has no internal caching or randomness, so parsing the
// same bytes twice must yield field-for-field identical Assertions. A
// cmp.Diff catches a regression (e.g. a field only populated on one of
// two code paths) that a handful of targeted field assertions could miss.
func TestParseAssertionIsDeterministic(t *testing.T) {
	xmlBytes := []byte(sampleAssertionXML(
		"2020-01-01T00:00:00Z", "2099-01-01T00:00:00Z", "sp-id", "req-42"))

	first, err := ParseAssertion(xmlBytes)
	assert.NilError(t, err)
	second, err := ParseAssertion(xmlBytes)
	assert.NilError(t, err)

	if diff := cmp.Diff(first, second, cmpopts.IgnoreUnexported(Assertion{})); diff != "" {
		t.Errorf("parsing the same assertion twice produced different results (-first +second):\n%s", diff)
	}
}
