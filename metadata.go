package saml

import (
	"encoding/xml"
	"time"
)

// Binding URIs recognized throughout this package.
const (
	HTTPRedirectBinding = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect"
	HTTPPostBinding     = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-POST"
	HTTPArtifactBinding = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Artifact"
	SOAPBinding         = "urn:oasis:names:tc:SAML:2.0:bindings:SOAP"
)

// StatusSuccess is the samlp:StatusCode value of a successful response or
// logout response.
const StatusSuccess = "urn:oasis:names:tc:SAML:2.0:status:Success"

// DefaultValidDuration is a 48-hour metadata validity period.
// (*SPDescriptor).Metadata does not set ValidUntil from it.
const DefaultValidDuration = 48 * time.Hour

// TimeNow returns the current instant. It is a variable, not a direct call
// to time.Now, so tests can stub it for deterministic IssueInstant values
// and assertion validity checks.
var TimeNow = time.Now

// firstSet returns the first non-empty string among its arguments.
func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// NameIDFormat is a NameID-format URI, e.g.
// "urn:oasis:names:tc:SAML:2.0:nameid-format:transient".
type NameIDFormat string

// Well-known NameID formats.
const (
	UnspecifiedNameIDFormat NameIDFormat = "urn:oasis:names:tc:SAML:1.1:nameid-format:unspecified"
	TransientNameIDFormat   NameIDFormat = "urn:oasis:names:tc:SAML:2.0:nameid-format:transient"
	PersistentNameIDFormat  NameIDFormat = "urn:oasis:names:tc:SAML:2.0:nameid-format:persistent"
	EmailAddressNameIDFormat NameIDFormat = "urn:oasis:names:tc:SAML:1.1:nameid-format:emailAddress"
	EntityNameIDFormat      NameIDFormat = "urn:oasis:names:tc:SAML:2.0:nameid-format:entity"
)

// EntitiesDescriptor is the root of a federation-wide metadata document
// (md:EntitiesDescriptor), a container for one or more EntityDescriptors.
type EntitiesDescriptor struct {
	XMLName            xml.Name           `xml:"urn:oasis:names:tc:SAML:2.0:metadata EntitiesDescriptor"`
	Name               *string            `xml:"Name,attr,omitempty"`
	ID                 *string            `xml:"ID,attr,omitempty"`
	ValidUntil         *time.Time         `xml:"validUntil,attr,omitempty"`
	CacheDuration      *time.Duration     `xml:"cacheDuration,attr,omitempty"`
	EntityDescriptors  []EntityDescriptor `xml:"EntityDescriptor"`
	EntitiesDescriptors []EntitiesDescriptor `xml:"EntitiesDescriptor"`
}

// EntityDescriptor is the md:EntityDescriptor element: a single SAML
// participant's metadata, describing either an IdP, an SP, or both.
type EntityDescriptor struct {
	XMLName                       xml.Name            `xml:"urn:oasis:names:tc:SAML:2.0:metadata EntityDescriptor"`
	EntityID                      string               `xml:"entityID,attr"`
	ID                            string               `xml:"ID,attr,omitempty"`
	ValidUntil                    time.Time            `xml:"validUntil,attr,omitempty"`
	CacheDuration                 time.Duration        `xml:"cacheDuration,attr,omitempty"`
	Signature                     *Signature           `xml:"Signature,omitempty"`
	IDPSSODescriptors             []IDPSSODescriptor   `xml:"IDPSSODescriptor"`
	SPSSODescriptors              []SPSSODescriptor    `xml:"SPSSODescriptor"`
	AttributeAuthorityDescriptors []AttributeAuthorityDescriptor `xml:"AttributeAuthorityDescriptor"`
}

// Signature is a minimal placeholder for a ds:Signature element already
// present on a parsed document; this package never constructs one itself
// (see Signer in signing.go). Only the element's presence is recorded: its
// contents are not kept, so re-marshaling emits an empty ds:Signature.
type Signature struct {
	XMLName xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# Signature"`
}

// RoleDescriptor holds the fields common to every *SSODescriptor role.
type RoleDescriptor struct {
	ProtocolSupportEnumeration string          `xml:"protocolSupportEnumeration,attr"`
	ErrorURL                   string          `xml:"errorURL,attr,omitempty"`
	ValidUntil                 *time.Time      `xml:"validUntil,attr,omitempty"`
	KeyDescriptors             []KeyDescriptor `xml:"KeyDescriptor,omitempty"`
}

// SSODescriptor holds the fields common to IDPSSODescriptor and
// SPSSODescriptor.
type SSODescriptor struct {
	RoleDescriptor
	SingleLogoutServices []Endpoint     `xml:"SingleLogoutService,omitempty"`
	NameIDFormats        []NameIDFormat `xml:"NameIDFormat,omitempty"`
}

// IDPSSODescriptor is md:IDPSSODescriptor: the subset of an IdP's metadata
// this package reads.
type IDPSSODescriptor struct {
	XMLName                   xml.Name              `xml:"urn:oasis:names:tc:SAML:2.0:metadata IDPSSODescriptor"`
	SSODescriptor
	WantAuthnRequestsSigned   *bool                 `xml:"WantAuthnRequestsSigned,attr,omitempty"`
	SingleSignOnServices      []Endpoint            `xml:"SingleSignOnService"`
	ArtifactResolutionServices []IndexedEndpoint     `xml:"ArtifactResolutionService,omitempty"`
}

// SPSSODescriptor is md:SPSSODescriptor: the SP's own metadata shape
// emitted by (*SPDescriptor).Metadata.
type SPSSODescriptor struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:metadata SPSSODescriptor"`
	SSODescriptor
	AuthnRequestsSigned       *bool             `xml:"AuthnRequestsSigned,attr,omitempty"`
	WantAssertionsSigned      *bool             `xml:"WantAssertionsSigned,attr,omitempty"`
	AssertionConsumerServices []IndexedEndpoint `xml:"AssertionConsumerService"`
	Organization              *Organization     `xml:"Organization,omitempty"`
	ContactPerson             *ContactPerson    `xml:"ContactPerson,omitempty"`
}

// AttributeAuthorityDescriptor describes an IdP's attribute-query endpoint.
// Not part of the core SSO flow. Only the RoleDescriptor fields, the
// AttributeService endpoints and the NameID formats are kept; other
// children of the element are dropped on parse.
type AttributeAuthorityDescriptor struct {
	XMLName           xml.Name   `xml:"urn:oasis:names:tc:SAML:2.0:metadata AttributeAuthorityDescriptor"`
	RoleDescriptor
	AttributeServices []Endpoint `xml:"AttributeService"`
	NameIDFormats     []NameIDFormat `xml:"NameIDFormat,omitempty"`
}

// Endpoint is a plain (non-indexed) metadata endpoint, e.g.
// SingleSignOnService or SingleLogoutService.
type Endpoint struct {
	Binding          string `xml:"Binding,attr"`
	Location         string `xml:"Location,attr"`
	ResponseLocation string `xml:"ResponseLocation,attr,omitempty"`
}

// IndexedEndpoint is a metadata endpoint that also carries an index and a
// default flag, e.g. AssertionConsumerService or ArtifactResolutionService.
type IndexedEndpoint struct {
	Binding          string `xml:"Binding,attr"`
	Location         string `xml:"Location,attr"`
	ResponseLocation string `xml:"ResponseLocation,attr,omitempty"`
	Index            int    `xml:"index,attr"`
	IsDefault        *bool  `xml:"isDefault,attr,omitempty"`
}

// KeyDescriptor is md:KeyDescriptor: a certificate tagged with its usage
// ("signing" or "encryption", defaulting to "signing" when @use is absent).
type KeyDescriptor struct {
	XMLName           xml.Name           `xml:"urn:oasis:names:tc:SAML:2.0:metadata KeyDescriptor"`
	Use               string             `xml:"use,attr,omitempty"`
	KeyInfo           KeyInfo            `xml:"http://www.w3.org/2000/09/xmldsig# KeyInfo"`
	EncryptionMethods []EncryptionMethod `xml:"EncryptionMethod,omitempty"`
}

// KeyInfo is ds:KeyInfo: an XML-DSig description of an X.509 key.
type KeyInfo struct {
	XMLName  xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# KeyInfo"`
	X509Data X509Data `xml:"X509Data"`
}

// X509Data is ds:X509Data, a container for one or more certificates.
type X509Data struct {
	XMLName          xml.Name          `xml:"http://www.w3.org/2000/09/xmldsig# X509Data"`
	X509Certificates []X509Certificate `xml:"X509Certificate"`
}

// X509Certificate is ds:X509Certificate: the base64-encoded DER bytes of a
// certificate, with no PEM armor or guaranteed line wrapping.
type X509Certificate struct {
	Data string `xml:",chardata"`
}

// EncryptionMethod names an XML-Encryption algorithm an encryption
// KeyDescriptor supports.
type EncryptionMethod struct {
	Algorithm string `xml:"Algorithm,attr"`
}

// Organization is md:Organization: the SP's organizational identity,
// emitted with English-localized children.
type Organization struct {
	XMLName          xml.Name         `xml:"urn:oasis:names:tc:SAML:2.0:metadata Organization"`
	OrganizationNames []LocalizedName `xml:"OrganizationName"`
	OrganizationDisplayNames []LocalizedName `xml:"OrganizationDisplayName"`
	OrganizationURLs []LocalizedURI  `xml:"OrganizationURL"`
}

// LocalizedName is a human-readable name tagged with an xml:lang.
type LocalizedName struct {
	Lang  string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Value string `xml:",chardata"`
}

// LocalizedURI is a URI tagged with an xml:lang.
type LocalizedURI struct {
	Lang  string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Value string `xml:",chardata"`
}

// ContactPerson is md:ContactPerson: emitted with ContactType="other".
type ContactPerson struct {
	XMLName      xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:metadata ContactPerson"`
	ContactType  string   `xml:"contactType,attr"`
	Company      string   `xml:"Company,omitempty"`
	GivenName    string   `xml:"GivenName,omitempty"`
	EmailAddress string   `xml:"EmailAddress,omitempty"`
}
