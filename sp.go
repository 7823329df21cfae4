package saml

import (
	"crypto"
	"crypto/x509"
)

// SPDescriptor holds a Service Provider's own identity and endpoint
// configuration. It is also a factory for outbound protocol messages and
// binding objects. Its fields are exported: the endpoint paths and
// organization fields are set directly on the value after NewSPDescriptor
// returns, and nothing prevents later changes to any field.
type SPDescriptor struct {
	ID  string
	URL string

	Cert *x509.Certificate
	Key  crypto.Signer

	CACertPool *x509.CertPool

	SLOURLSOAP     string
	SLOURLRedirect string
	SLOURLPOST     string
	ACSURLPOST     string
	ACSURLArtifact string
	ErrorURL       string

	OrgName        string
	OrgDisplayName string
	OrgContact     string
	OrgURL         string

	AuthnRequestsSigned bool
	WantAssertionsSigned bool

	// certText is the base64 body of Cert with PEM armor stripped, used
	// verbatim in emitted metadata.
	certText string
}

// SPOption customizes NewSPDescriptor construction.
type SPOption func(*SPDescriptor)

// WithOrgURL overrides the Organization URL. When unset, it falls back to
// the SP's base URL.
func WithOrgURL(u string) SPOption {
	return func(sp *SPDescriptor) { sp.OrgURL = u }
}

// WithSPCACertPool supplies a CA trust bundle for verifying IdP responses.
func WithSPCACertPool(pool *x509.CertPool) SPOption {
	return func(sp *SPDescriptor) { sp.CACertPool = pool }
}

// WithAuthnRequestsSigned overrides the default (true) AuthnRequestsSigned
// flag.
func WithAuthnRequestsSigned(v bool) SPOption {
	return func(sp *SPDescriptor) { sp.AuthnRequestsSigned = v }
}

// WithWantAssertionsSigned overrides the default (true)
// WantAssertionsSigned flag.
func WithWantAssertionsSigned(v bool) SPOption {
	return func(sp *SPDescriptor) { sp.WantAssertionsSigned = v }
}

// NewSPDescriptor constructs an SPDescriptor. id and url are the SP's
// entity identity and base URL; cert/key are the SP's signing
// certificate/private key. Missing AuthnRequestsSigned/
// WantAssertionsSigned default to true.
func NewSPDescriptor(id, baseURL string, cert *x509.Certificate, key crypto.Signer, opts ...SPOption) (*SPDescriptor, error) {
	if id == "" {
		return nil, &MetadataParseFailed{Reason: "SP id is required"}
	}
	if baseURL == "" {
		return nil, &MetadataParseFailed{Reason: "SP url is required"}
	}
	if cert == nil {
		return nil, &InvalidCertificate{Reason: "SP certificate is required"}
	}

	sp := &SPDescriptor{
		ID:                   id,
		URL:                  baseURL,
		Cert:                 cert,
		Key:                  key,
		AuthnRequestsSigned:  true,
		WantAssertionsSigned: true,
	}
	for _, opt := range opts {
		opt(sp)
	}
	if sp.OrgURL == "" {
		sp.OrgURL = sp.URL
	}

	sp.certText = certBase64(cert)
	return sp, nil
}

func certBase64(cert *x509.Certificate) string {
	return base64StdEncode(cert.Raw)
}

// CertText returns the base64 body of the SP's signing certificate with
// PEM armor stripped, as embedded verbatim in emitted metadata.
func (sp *SPDescriptor) CertText() string { return sp.certText }

// boolPtr is a small helper for the many *bool-typed XML attributes in
// metadata.go.
func boolPtr(v bool) *bool { return &v }

// Metadata emits the SP's own md:EntityDescriptor.
func (sp *SPDescriptor) Metadata() *EntityDescriptor {
	return &EntityDescriptor{
		EntityID: sp.ID,
		SPSSODescriptors: []SPSSODescriptor{
			{
				SSODescriptor: SSODescriptor{
					RoleDescriptor: RoleDescriptor{
						ProtocolSupportEnumeration: NamespaceProtocol,
						ErrorURL:                   sp.URL + sp.ErrorURL,
						KeyDescriptors: []KeyDescriptor{
							{
								Use: "signing",
								KeyInfo: KeyInfo{
									X509Data: X509Data{
										X509Certificates: []X509Certificate{{Data: sp.certText}},
									},
								},
							},
						},
					},
					SingleLogoutServices: []Endpoint{
						{Binding: SOAPBinding, Location: sp.URL + sp.SLOURLSOAP},
						{Binding: HTTPRedirectBinding, Location: sp.URL + sp.SLOURLRedirect},
						{Binding: HTTPPostBinding, Location: sp.URL + sp.SLOURLPOST},
					},
				},
				AuthnRequestsSigned:  boolPtr(sp.AuthnRequestsSigned),
				WantAssertionsSigned: boolPtr(sp.WantAssertionsSigned),
				AssertionConsumerServices: []IndexedEndpoint{
					{Binding: HTTPPostBinding, Location: sp.URL + sp.ACSURLPOST, Index: 1, IsDefault: boolPtr(true)},
					{Binding: HTTPArtifactBinding, Location: sp.URL + sp.ACSURLArtifact, Index: 2, IsDefault: boolPtr(false)},
				},
				Organization: &Organization{
					OrganizationNames:        []LocalizedName{{Lang: "en", Value: sp.OrgName}},
					OrganizationDisplayNames: []LocalizedName{{Lang: "en", Value: sp.OrgDisplayName}},
					OrganizationURLs:         []LocalizedURI{{Lang: "en", Value: sp.OrgURL}},
				},
				ContactPerson: &ContactPerson{
					ContactType:  "other",
					Company:      sp.OrgDisplayName,
					EmailAddress: sp.OrgContact,
				},
			},
		},
	}
}
