package saml

import (
	"fmt"

	"github.com/crewjam/httperr"
)

// MetadataFetchFailed is returned by FromURL when the
// metadata URL does not respond with success. It wraps httperr.Error so
// callers threading this straight into an HTTP handler get a sane status
// code for free.
type MetadataFetchFailed struct {
	HTTPError httperr.Error
}

func newMetadataFetchFailed(status int, message string) *MetadataFetchFailed {
	return &MetadataFetchFailed{
		HTTPError: httperr.Error{
			Status: status,
			Err:    fmt.Errorf("fetch metadata: %s", message),
		},
	}
}

func (e *MetadataFetchFailed) Error() string {
	return fmt.Sprintf("saml: metadata fetch failed: %s", e.HTTPError.Error())
}

func (e *MetadataFetchFailed) Unwrap() error {
	return e.HTTPError.Err
}

// MetadataParseFailed is returned when IdP metadata XML is malformed or
// missing a required element (no entityID, no IDPSSODescriptor, ...).
type MetadataParseFailed struct {
	Reason string
}

func (e *MetadataParseFailed) Error() string {
	return fmt.Sprintf("saml: metadata parse failed: %s", e.Reason)
}

// InvalidCertificate is returned when certificate bytes could not be
// parsed as PEM/DER X.509 or PKCS#12.
type InvalidCertificate struct {
	Reason string
}

func (e *InvalidCertificate) Error() string {
	return fmt.Sprintf("saml: invalid certificate: %s", e.Reason)
}

// CertificateVerificationWarning describes a non-fatal certificate chain
// verification failure. The certificate is retained; operators decide
// whether to trust it: real IdPs ship expired-but-pinned certificates, so
// this is a warning, never an error.
type CertificateVerificationWarning struct {
	Use    string
	Reason string
}

func (w CertificateVerificationWarning) String() string {
	return fmt.Sprintf("certificate verification warning (use=%s): %s", w.Use, w.Reason)
}

// WarnFunc receives non-fatal certificate verification warnings. The
// zero value (nil) is a safe default: warnings are dropped.
type WarnFunc func(CertificateVerificationWarning)

// InvalidAssertion is returned by ParseAssertion when the input cannot be
// read as a SAML assertion, and by samlsp.ProcessAssertion when a parsed
// assertion fails (*Assertion).Valid. Valid itself returns a bool, never
// this type, and does not report which check failed.
type InvalidAssertion struct {
	Reason string
}

func (e *InvalidAssertion) Error() string {
	return fmt.Sprintf("saml: invalid assertion: %s", e.Reason)
}

// ErrEntityNotFound is returned by MultiServiceProvider lookups for an
// unknown entity ID.
type ErrEntityNotFound struct {
	EntityID string
}

func (e *ErrEntityNotFound) Error() string {
	return fmt.Sprintf("saml: no service provider registered for entity id %q", e.EntityID)
}
