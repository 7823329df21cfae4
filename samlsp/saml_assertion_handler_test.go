package samlsp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corelayer/saml"
)

var errHandlerFailed = errors.New("handler refused assertion")

type recordingHandler struct {
	calls []*saml.Assertion
	err   error
}

func (h *recordingHandler) HandleAssertion(a *saml.Assertion) error {
	h.calls = append(h.calls, a)
	return h.err
}

func sampleAssertionXML(notBefore, notAfter, audience, inResponseTo string) string {
	return `<saml:Assertion xmlns:saml="urn:oasis:names:tc:SAML:2.0:assertion">
  <saml:Issuer>https://idp.example/</saml:Issuer>
  <saml:Subject>
    <saml:NameID Format="urn:oasis:names:tc:SAML:2.0:nameid-format:transient">user@example.com</saml:NameID>
    <saml:SubjectConfirmation Method="urn:oasis:names:tc:SAML:2.0:cm:bearer">
      <saml:SubjectConfirmationData InResponseTo="` + inResponseTo + `"/>
    </saml:SubjectConfirmation>
  </saml:Subject>
  <saml:Conditions NotBefore="` + notBefore + `" NotOnOrAfter="` + notAfter + `">
    <saml:AudienceRestriction>
      <saml:Audience>` + audience + `</saml:Audience>
    </saml:AudienceRestriction>
  </saml:Conditions>
</saml:Assertion>`
}

func TestProcessAssertionInvokesHandlerOnValidAssertion(t *testing.T) {
	xmlBytes := []byte(sampleAssertionXML(
		"2020-01-01T00:00:00Z", "2099-01-01T00:00:00Z", "sp-id", "req-42"))

	handler := &recordingHandler{}
	assertion, err := ProcessAssertion(xmlBytes, "sp-id", "req-42", handler)
	require.NoError(t, err)
	require.Len(t, handler.calls, 1)
	require.Same(t, assertion, handler.calls[0])
}

func TestProcessAssertionSkipsHandlerWhenInvalid(t *testing.T) {
	xmlBytes := []byte(sampleAssertionXML(
		"2000-01-01T00:00:00Z", "2000-01-01T00:00:00Z", "sp-id", "req-42"))

	handler := &recordingHandler{}
	_, err := ProcessAssertion(xmlBytes, "sp-id", "req-42", handler)
	require.Error(t, err)
	require.Empty(t, handler.calls)

	var invalid *saml.InvalidAssertion
	require.ErrorAs(t, err, &invalid)
}

func TestProcessAssertionPropagatesHandlerError(t *testing.T) {
	xmlBytes := []byte(sampleAssertionXML(
		"2020-01-01T00:00:00Z", "2099-01-01T00:00:00Z", "sp-id", "req-42"))

	assertions := require.New(t)
	handler := &recordingHandler{err: errHandlerFailed}
	assertion, err := ProcessAssertion(xmlBytes, "sp-id", "req-42", handler)
	assertions.ErrorIs(err, errHandlerFailed)
	assertions.NotNil(assertion)
}

func TestProcessAssertionWithNoHandler(t *testing.T) {
	xmlBytes := []byte(sampleAssertionXML(
		"2020-01-01T00:00:00Z", "2099-01-01T00:00:00Z", "sp-id", "req-42"))

	assertion, err := ProcessAssertion(xmlBytes, "sp-id", "req-42", nil)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", assertion.NameID)
}
