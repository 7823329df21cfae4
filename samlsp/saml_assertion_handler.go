package samlsp

import "github.com/corelayer/saml"

// AssertionHandler is implemented by types that want a post-validation
// hook over every assertion ProcessAssertion accepts — for example to
// provision a local user record or emit an audit log entry keyed by the
// assertion's NameID.
type AssertionHandler interface {
	HandleAssertion(assertion *saml.Assertion) error
}

// ProcessAssertion parses xmlBytes as a SAML assertion (or an enclosing
// Response, see saml.ParseAssertion), checks it against the expected
// audience and originating request ID, and — only once it passes that
// check — invokes handler. The parsed assertion is always returned, even
// when validation or the handler itself fails, so a caller can still log
// or inspect it.
func ProcessAssertion(xmlBytes []byte, audience, inResponseTo string, handler AssertionHandler) (*saml.Assertion, error) {
	assertion, err := saml.ParseAssertion(xmlBytes)
	if err != nil {
		return nil, err
	}
	if !assertion.Valid(audience, inResponseTo) {
		return assertion, &saml.InvalidAssertion{Reason: "assertion failed audience/time/request validation"}
	}
	if handler == nil {
		return assertion, nil
	}
	if err := handler.HandleAssertion(assertion); err != nil {
		return assertion, err
	}
	return assertion, nil
}
