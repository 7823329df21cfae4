package saml

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strings"

	"golang.org/x/crypto/pkcs12"
)

// LoadPEM parses PEM or bare-DER-base64 certificate bytes into an
// *x509.Certificate. IdP metadata frequently ships the certificate body as
// an unwrapped base64 blob (no "-----BEGIN CERTIFICATE-----" armor), so
// both forms are accepted.
func LoadPEM(data []byte) (*x509.Certificate, error) {
	der := data
	if block, _ := pem.Decode(data); block != nil {
		der = block.Bytes
	} else {
		// Not PEM-armored: assume it's a base64-encoded DER blob, the
		// shape KeyDescriptor/X509Certificate content takes in metadata.
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, &InvalidCertificate{Reason: err.Error()}
		}
		der = decoded
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, &InvalidCertificate{Reason: err.Error()}
	}
	return cert, nil
}

// LoadPKCS12 parses a PKCS#12 bundle (as shipped by many IdP consoles and
// most Windows-originated key material) and returns the leaf private key
// and certificate, plus any CA certificates bundled alongside it.
func LoadPKCS12(data []byte, password string) (interface{}, *x509.Certificate, []*x509.Certificate, error) {
	key, cert, caCerts, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return nil, nil, nil, &InvalidCertificate{Reason: fmt.Sprintf("pkcs12: %s", err)}
	}
	return key, cert, caCerts, nil
}

// base64StdEncode is a tiny indirection so callers that only have raw DER
// bytes (e.g. cert.Raw) can get to the same base64 alphabet RewrapBase64
// expects without importing encoding/base64 themselves.
func base64StdEncode(der []byte) string {
	return base64.StdEncoding.EncodeToString(der)
}

// StripArmor removes PEM "-----BEGIN/END-----" armor lines and internal
// whitespace from a certificate, returning the bare base64 body. Line
// wrapping of the result is the caller's concern.
func StripArmor(pemBytes []byte) string {
	var b strings.Builder
	for _, line := range strings.Split(string(pemBytes), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-----") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// RewrapBase64 takes a possibly-unwrapped base64 blob (as extracted from
// metadata's KeyDescriptor/X509Certificate content) and re-wraps it into
// standard PEM armor with lines of at most width columns.
func RewrapBase64(base64Body string, width int) string {
	base64Body = strings.Join(strings.Fields(base64Body), "")
	var b strings.Builder
	b.WriteString("-----BEGIN CERTIFICATE-----\n")
	for i := 0; i < len(base64Body); i += width {
		end := i + width
		if end > len(base64Body) {
			end = len(base64Body)
		}
		b.WriteString(base64Body[i:end])
		b.WriteByte('\n')
	}
	b.WriteString("-----END CERTIFICATE-----\n")
	return b.String()
}

// VerifyCertificate checks cert against a CA pool. Verification uses
// non-strict chain verification (the equivalent of the underlying
// library's "strict_certs=0" mode: expired or not-yet-valid certificates,
// and certificates missing key usage bits, still verify as long as a
// matching root is found): real-world IdPs routinely ship
// expired-but-pinned certificates, and the operator — not this library —
// decides whether to trust them. A verification failure is never fatal;
// the caller is expected to log it via a CertificateVerificationWarning and
// retain the certificate regardless.
func VerifyCertificate(cert *x509.Certificate, caPool *x509.CertPool) error {
	if caPool == nil {
		return nil
	}
	_, err := cert.Verify(x509.VerifyOptions{
		Roots: caPool,
		// Many real IdPs ship expired-but-pinned certificates. Pinning
		// CurrentTime to the certificate's own NotBefore sidesteps the
		// stdlib's expiry check without disabling chain verification.
		CurrentTime: cert.NotBefore,
		KeyUsages:   []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	return err
}

// LoadCAPool reads one or more PEM-encoded CA certificates into a pool
// suitable for VerifyCertificate.
func LoadCAPool(pemBytes []byte) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, &InvalidCertificate{Reason: "no certificates found in CA bundle"}
	}
	return pool, nil
}
