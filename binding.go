package saml

import (
	"context"
	"net/url"
)

// RedirectBinding is the contract the HTTP-Redirect wire binding is
// expected to satisfy: sign a deflate-compressed, base64-encoded message
// for the query string with the SP key, and verify an inbound signed
// query against the IdP's signing certificate. Quirks: when
// SLSForceLcaseURLEncoding is set, all percent-escape hex digits in the
// signed string must be lowercase; when SLSDoubleEncodedResponse is set,
// the received parameter must be URL-decoded twice before inspection.
//
// The binding itself is an external collaborator — HTTP transport and
// wire-level signing/encoding are outside this package. This interface is
// the seam a caller's own Redirect binding implementation plugs into.
type RedirectBinding interface {
	SignQuery(paramName string, messageXML []byte, relayState string) (url.Values, error)
	VerifyQuery(paramName string, query url.Values) (bool, error)
}

// POSTBinding is the contract the HTTP-POST wire binding is expected to
// satisfy: base64-decode a POSTed form field and, if a verifier was
// configured, check its enveloped XML-DSig signature. HandleResponse
// reports validity as a bool rather than an error: binding signature
// failures never raise.
type POSTBinding interface {
	HandleResponse(raw []byte) bool
}

// SOAPClient is the contract the SOAP wire binding is expected to satisfy:
// wrap a request in a SOAP envelope, sign it with the SP key, post it to
// the IdP's URL, and verify the response against the IdP's certificate.
type SOAPClient interface {
	Call(ctx context.Context, messageXML []byte) ([]byte, error)
}
