package saml

import (
	"encoding/xml"
	"time"
)

// Envelope holds the fields common to every outbound protocol message:
// issuer, destination, a freshly generated opaque id, and the issue
// instant.
type Envelope struct {
	ID           string
	IssueInstant time.Time
	Destination  string
	Issuer       string
}

// Issuer is saml:Issuer, present on every outbound protocol message.
type Issuer struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:assertion Issuer"`
	Format  string   `xml:"Format,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

// NameIDPolicy is samlp:NameIDPolicy, carried on an AuthnRequest to tell
// the IdP what NameID format the SP wants back.
type NameIDPolicy struct {
	XMLName     xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:protocol NameIDPolicy"`
	Format      string   `xml:"Format,attr,omitempty"`
	AllowCreate *bool    `xml:"AllowCreate,attr,omitempty"`
}

// AuthnRequest is samlp:AuthnRequest: the SP's request to authenticate a
// subject.
type AuthnRequest struct {
	XMLName                    xml.Name      `xml:"urn:oasis:names:tc:SAML:2.0:protocol AuthnRequest"`
	ID                         string        `xml:"ID,attr"`
	Version                    string        `xml:"Version,attr"`
	IssueInstant               time.Time     `xml:"IssueInstant,attr"`
	Destination                string        `xml:"Destination,attr,omitempty"`
	AssertionConsumerServiceURL string       `xml:"AssertionConsumerServiceURL,attr,omitempty"`
	ProtocolBinding            string        `xml:"ProtocolBinding,attr,omitempty"`
	ForceAuthn                 *bool         `xml:"ForceAuthn,attr,omitempty"`
	Issuer                     *Issuer       `xml:"Issuer"`
	NameIDPolicy               *NameIDPolicy `xml:"NameIDPolicy,omitempty"`
}

// LogoutRequest is samlp:LogoutRequest: a request (from either party) to
// terminate a session.
type LogoutRequest struct {
	XMLName      xml.Name  `xml:"urn:oasis:names:tc:SAML:2.0:protocol LogoutRequest"`
	ID           string    `xml:"ID,attr"`
	Version      string    `xml:"Version,attr"`
	IssueInstant time.Time `xml:"IssueInstant,attr"`
	Destination  string    `xml:"Destination,attr,omitempty"`
	Issuer       *Issuer   `xml:"Issuer"`
	NameID       *NameID   `xml:"NameID"`
	SessionIndex string    `xml:"SessionIndex,omitempty"`
}

// NameID is saml:NameID: the subject identifier carried on a LogoutRequest
// or parsed out of an inbound Assertion's Subject.
type NameID struct {
	XMLName         xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:assertion NameID"`
	Format          string   `xml:"Format,attr,omitempty"`
	NameQualifier   string   `xml:"NameQualifier,attr,omitempty"`
	SPNameQualifier string   `xml:"SPNameQualifier,attr,omitempty"`
	Value           string   `xml:",chardata"`
}

// StatusCode is samlp:StatusCode: the top-level and optional nested status
// value of a Response/LogoutResponse.
type StatusCode struct {
	XMLName    xml.Name    `xml:"urn:oasis:names:tc:SAML:2.0:protocol StatusCode"`
	Value      string      `xml:"Value,attr"`
	StatusCode *StatusCode `xml:"StatusCode,omitempty"`
}

// Status is samlp:Status.
type Status struct {
	XMLName    xml.Name   `xml:"urn:oasis:names:tc:SAML:2.0:protocol Status"`
	StatusCode StatusCode `xml:"StatusCode"`
}

// LogoutResponse is samlp:LogoutResponse: the SP's or IdP's reply to a
// LogoutRequest.
type LogoutResponse struct {
	XMLName      xml.Name  `xml:"urn:oasis:names:tc:SAML:2.0:protocol LogoutResponse"`
	ID           string    `xml:"ID,attr"`
	Version      string    `xml:"Version,attr"`
	IssueInstant time.Time `xml:"IssueInstant,attr"`
	Destination  string    `xml:"Destination,attr,omitempty"`
	InResponseTo string    `xml:"InResponseTo,attr,omitempty"`
	Issuer       *Issuer   `xml:"Issuer"`
	Status       Status    `xml:"Status"`
}

// ArtifactResolve is samlp:ArtifactResolve: a SOAP-bound request to
// exchange an HTTP-Artifact token for the full protocol message it stands
// in for.
type ArtifactResolve struct {
	XMLName      xml.Name  `xml:"urn:oasis:names:tc:SAML:2.0:protocol ArtifactResolve"`
	ID           string    `xml:"ID,attr"`
	Version      string    `xml:"Version,attr"`
	IssueInstant time.Time `xml:"IssueInstant,attr"`
	Destination  string    `xml:"Destination,attr,omitempty"`
	Issuer       *Issuer   `xml:"Issuer"`
	Artifact     string    `xml:"Artifact"`
}
