package saml

import (
	"crypto"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

// Signer signs an etree.Element in place (enveloped signature) and returns
// the signed element. It is the narrow seam the core uses to reach XML-DSig
// computation, which is a trusted external library, never reimplemented
// here.
type Signer interface {
	SignElement(el *etree.Element) (*etree.Element, error)
}

// Verifier validates a signed etree.Element against a trusted certificate
// and returns the verified element (with the Signature stripped), or an
// error if the signature does not check out.
type Verifier interface {
	VerifyElement(el *etree.Element) (*etree.Element, error)
}

// goxmldsigSigner adapts goxmldsig's SigningContext to the Signer seam.
type goxmldsigSigner struct {
	ctx *dsig.SigningContext
}

// NewSigner builds a Signer that signs with key/cert using the default
// goxmldsig signing context (RSA-SHA256, enveloped signature transform).
func NewSigner(key crypto.Signer, cert *x509.Certificate) (Signer, error) {
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		// goxmldsig's RSAKeyStore expects an *rsa.PrivateKey; non-RSA
		// signers are out of scope for this adapter.
		return nil, &InvalidCertificate{Reason: "signing key is not an RSA private key"}
	}
	ks := dsig.TLSCertKeyStore(tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  rsaKey,
		Leaf:        cert,
	})
	ctx := dsig.NewDefaultSigningContext(ks)
	if err := ctx.SetSignatureMethod(dsig.RSASHA256SignatureMethod); err != nil {
		return nil, err
	}
	return &goxmldsigSigner{ctx: ctx}, nil
}

func (s *goxmldsigSigner) SignElement(el *etree.Element) (*etree.Element, error) {
	return s.ctx.SignEnveloped(el)
}

// goxmldsigVerifier adapts goxmldsig's ValidationContext to the Verifier
// seam.
type goxmldsigVerifier struct {
	ctx *dsig.ValidationContext
}

// NewVerifier builds a Verifier that trusts exactly the given certificates
// (typically an IdP's signing certificate(s) from its metadata).
func NewVerifier(trusted ...*x509.Certificate) Verifier {
	store := dsig.MemoryX509CertificateStore{Roots: trusted}
	ctx := dsig.NewDefaultValidationContext(&store)
	return &goxmldsigVerifier{ctx: ctx}
}

func (v *goxmldsigVerifier) VerifyElement(el *etree.Element) (*etree.Element, error) {
	return v.ctx.Validate(el)
}
