package saml

import (
	"context"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/corelayer/saml/logger"
)

// nameIDFormatPattern matches urn:oasis:names:tc:SAML:(2.0|1.1):nameid-format:<short>
// and captures <short>. NameIDFormat values that don't match are skipped.
var nameIDFormatPattern = regexp.MustCompile(`^urn:oasis:names:tc:SAML:(?:2\.0|1\.1):nameid-format:(.+)$`)

// IdPDescriptor is an immutable, parsed view of an Identity Provider's
// SAML metadata. Once constructed it is safe to share across goroutines
// without locking.
type IdPDescriptor struct {
	entityID     string
	ssoURLs      map[string]string
	sloURLs      map[string]string
	artifactURLs map[string]string
	certs        map[string]*x509.Certificate
	certsPEM     map[string]string
	formats      map[string]NameIDFormat
	defaultFormat string

	caPool *x509.CertPool

	slsForceLcaseURLEncoding bool
	slsDoubleEncodedResponse bool
}

// QuirkFlags carries the per-IdP interoperability quirks that some IdPs
// require around redirect-binding URL encoding.
type QuirkFlags struct {
	SLSForceLcaseURLEncoding bool
	SLSDoubleEncodedResponse bool
}

// idpOptions configures construction beyond the bare XML bytes.
type idpOptions struct {
	caPool  *x509.CertPool
	quirks  QuirkFlags
	warn    WarnFunc
	log     logger.Interface
}

// IdPOption customizes FromXML/FromURL construction.
type IdPOption func(*idpOptions)

// WithCACertPool supplies a CA trust bundle used to verify the IdP's
// certificates. Verification failures are reported as warnings, never
// fatal.
func WithCACertPool(pool *x509.CertPool) IdPOption {
	return func(o *idpOptions) { o.caPool = pool }
}

// WithQuirks sets the per-IdP interoperability quirk flags.
func WithQuirks(q QuirkFlags) IdPOption {
	return func(o *idpOptions) { o.quirks = q }
}

// WithWarnFunc registers a callback invoked for every non-fatal
// CertificateVerificationWarning encountered during construction.
func WithWarnFunc(f WarnFunc) IdPOption {
	return func(o *idpOptions) { o.warn = f }
}

// WithLogger overrides the logger used for diagnostic messages (defaults
// to logger.DefaultLogger).
func WithLogger(l logger.Interface) IdPOption {
	return func(o *idpOptions) { o.log = l }
}

func newIdPOptions(opts []IdPOption) *idpOptions {
	o := &idpOptions{log: logger.DefaultLogger}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FromXML parses IdP metadata XML into an IdPDescriptor.
func FromXML(xmlBytes []byte, opts ...IdPOption) (*IdPDescriptor, error) {
	o := newIdPOptions(opts)

	doc, err := readDocument(xmlBytes)
	if err != nil {
		return nil, &MetadataParseFailed{Reason: err.Error()}
	}

	root := doc.Root()
	if root == nil {
		return nil, &MetadataParseFailed{Reason: "empty document"}
	}

	entityDescriptorEl := root
	if root.Tag == "EntitiesDescriptor" {
		entityDescriptorEl = firstChildByLocalName(root, "EntityDescriptor")
		if entityDescriptorEl == nil {
			return nil, &MetadataParseFailed{Reason: "EntitiesDescriptor contains no EntityDescriptor"}
		}
	}
	if entityDescriptorEl.Tag != "EntityDescriptor" {
		return nil, &MetadataParseFailed{Reason: fmt.Sprintf("unexpected root element %q", entityDescriptorEl.Tag)}
	}

	entityID := entityDescriptorEl.SelectAttrValue("entityID", "")
	if entityID == "" {
		return nil, &MetadataParseFailed{Reason: "missing entityID"}
	}

	idpSSO := firstChildByLocalName(entityDescriptorEl, "IDPSSODescriptor")
	if idpSSO == nil {
		return nil, &MetadataParseFailed{Reason: "missing IDPSSODescriptor"}
	}

	idp := &IdPDescriptor{
		entityID:                 entityID,
		ssoURLs:                  map[string]string{},
		sloURLs:                  map[string]string{},
		artifactURLs:             map[string]string{},
		certs:                    map[string]*x509.Certificate{},
		certsPEM:                 map[string]string{},
		formats:                  map[string]NameIDFormat{},
		caPool:                   o.caPool,
		slsForceLcaseURLEncoding: o.quirks.SLSForceLcaseURLEncoding,
		slsDoubleEncodedResponse: o.quirks.SLSDoubleEncodedResponse,
	}

	for _, el := range childrenByLocalName(idpSSO, "SingleSignOnService") {
		idp.ssoURLs[el.SelectAttrValue("Binding", "")] = el.SelectAttrValue("Location", "")
	}
	for _, el := range childrenByLocalName(idpSSO, "SingleLogoutService") {
		idp.sloURLs[el.SelectAttrValue("Binding", "")] = el.SelectAttrValue("Location", "")
	}
	for _, el := range childrenByLocalName(idpSSO, "ArtifactResolutionService") {
		idp.artifactURLs[el.SelectAttrValue("Binding", "")] = el.SelectAttrValue("Location", "")
	}

	first := true
	for _, el := range childrenByLocalName(idpSSO, "NameIDFormat") {
		raw := strings.TrimSpace(el.Text())
		m := nameIDFormatPattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		short := m[1]
		idp.formats[short] = NameIDFormat(raw)
		if first {
			idp.defaultFormat = short
			first = false
		}
	}
	if len(idp.formats) == 0 {
		idp.formats["unspecified"] = UnspecifiedNameIDFormat
		idp.defaultFormat = "unspecified"
	}

	for _, kd := range childrenByLocalName(idpSSO, "KeyDescriptor") {
		use := kd.SelectAttrValue("use", "signing")
		x509CertEl := firstCertificateElement(kd)
		if x509CertEl == nil {
			continue
		}
		body := strings.Join(strings.Fields(x509CertEl.Text()), "")
		cert, err := LoadPEM([]byte(body))
		if err != nil {
			o.log.Printf("saml: skipping unparsable certificate for use=%s on %s: %v", use, entityID, err)
			continue
		}
		idp.certs[use] = cert
		idp.certsPEM[use] = RewrapBase64(body, 64)
	}

	if idp.caPool != nil {
		for use, cert := range idp.certs {
			if err := VerifyCertificate(cert, idp.caPool); err != nil {
				w := CertificateVerificationWarning{Use: use, Reason: err.Error()}
				o.log.Printf("saml: %s", w.String())
				if o.warn != nil {
					o.warn(w)
				}
			}
		}
	}

	return idp, nil
}

// firstCertificateElement finds the first X509Certificate descendant of a
// KeyDescriptor, matching by local-name since some IdPs declare the
// xmldsig namespace with a non-standard prefix.
func firstCertificateElement(kd *etree.Element) *etree.Element {
	found := descendantsByLocalName(kd, "X509Certificate")
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// HTTPDoer is the narrow interface FromURL needs to fetch metadata. It is
// satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FromURL fetches IdP metadata over HTTPS and parses it with FromXML.
// It only knows how to turn a non-success response into
// MetadataFetchFailed, and otherwise delegates entirely to FromXML.
func FromURL(ctx context.Context, client HTTPDoer, metadataURL string, opts ...IdPOption) (*IdPDescriptor, error) {
	o := newIdPOptions(opts)
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, newMetadataFetchFailed(0, err.Error())
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			o.log.Printf("saml: error closing metadata response body: %v", cerr)
		}
	}()

	if resp.StatusCode >= 300 {
		return nil, newMetadataFetchFailed(resp.StatusCode, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newMetadataFetchFailed(resp.StatusCode, err.Error())
	}

	return FromXML(data, opts...)
}

// EntityID returns the IdP's entity identifier URI.
func (idp *IdPDescriptor) EntityID() string { return idp.entityID }

// notPresent is returned by accessors when the requested binding/format/
// certificate usage was not present in the parsed metadata.
const notPresent = ""

// SSOURL returns the SingleSignOnService Location for the given binding
// URI, or notPresent ("") if absent.
func (idp *IdPDescriptor) SSOURL(binding string) string { return idp.ssoURLs[binding] }

// SLOURL returns the SingleLogoutService Location for the given binding
// URI, or notPresent ("") if absent.
func (idp *IdPDescriptor) SLOURL(binding string) string { return idp.sloURLs[binding] }

// ArtifactURL returns the ArtifactResolutionService Location for the given
// binding URI, or notPresent ("") if absent.
func (idp *IdPDescriptor) ArtifactURL(binding string) string { return idp.artifactURLs[binding] }

// Cert returns the PEM-armored certificate for the given usage ("signing"
// or "encryption"), or notPresent ("") if absent.
func (idp *IdPDescriptor) Cert(use string) string { return idp.certsPEM[use] }

// X509Cert returns the parsed certificate for the given usage, or nil.
func (idp *IdPDescriptor) X509Cert(use string) *x509.Certificate { return idp.certs[use] }

// symbolicBindings maps the short names recognized by Binding to their
// full binding URI.
var symbolicBindings = map[string]string{
	"redirect": HTTPRedirectBinding,
	"soap":     SOAPBinding,
}

// Binding resolves a symbolic binding short name ("redirect", "soap") to
// its full URI. Any other short name returns notPresent ("").
func (idp *IdPDescriptor) Binding(shortName string) string {
	return symbolicBindings[shortName]
}

// Format returns the full NameID-format URI for the given short name. With
// no argument it returns the default format; if no formats are known at
// all it returns notPresent ("").
func (idp *IdPDescriptor) Format(shortName ...string) string {
	if len(shortName) == 0 {
		if idp.defaultFormat == "" {
			return notPresent
		}
		return string(idp.formats[idp.defaultFormat])
	}
	return string(idp.formats[shortName[0]])
}

// DefaultFormat returns the short name of the default NameID format.
func (idp *IdPDescriptor) DefaultFormat() string { return idp.defaultFormat }

// Quirks returns the per-IdP interoperability quirk flags this descriptor
// was constructed with.
func (idp *IdPDescriptor) Quirks() QuirkFlags {
	return QuirkFlags{
		SLSForceLcaseURLEncoding: idp.slsForceLcaseURLEncoding,
		SLSDoubleEncodedResponse: idp.slsDoubleEncodedResponse,
	}
}
