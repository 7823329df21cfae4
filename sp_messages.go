package saml

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/dchest/uniuri"
)

// genID produces a freshly generated opaque SAML identifier. SAML IDs are
// xsd:ID (NCName) values, which cannot start with a digit, so every
// generated ID is prefixed with an underscore. Random bytes come from
// dchest/uniuri rather than a hand-rolled crypto/rand+hex encoder.
func genID() string {
	return "_" + uniuri.NewLen(40)
}

// AuthnRequest builds a samlp:AuthnRequest addressed to destination,
// requesting the given NameID format. The SP's own id is stamped as
// issuer and TimeNow() as IssueInstant.
func (sp *SPDescriptor) AuthnRequest(destination string, nameIDFormat NameIDFormat) *AuthnRequest {
	return &AuthnRequest{
		ID:                          genID(),
		Version:                     "2.0",
		IssueInstant:                TimeNow(),
		Destination:                 destination,
		AssertionConsumerServiceURL: sp.URL + sp.ACSURLPOST,
		ProtocolBinding:             HTTPPostBinding,
		Issuer:                      &Issuer{Value: sp.ID},
		NameIDPolicy: &NameIDPolicy{
			Format:      string(nameIDFormat),
			AllowCreate: boolPtr(true),
		},
	}
}

// LogoutRequest builds a samlp:LogoutRequest addressed to destination for
// the given subject/session.
func (sp *SPDescriptor) LogoutRequest(destination, nameID string, nameIDFormat NameIDFormat, session string) *LogoutRequest {
	return &LogoutRequest{
		ID:           genID(),
		Version:      "2.0",
		IssueInstant: TimeNow(),
		Destination:  destination,
		Issuer:       &Issuer{Value: sp.ID},
		NameID:       &NameID{Format: string(nameIDFormat), Value: nameID},
		SessionIndex: session,
	}
}

// LogoutResponse builds a samlp:LogoutResponse addressed to destination,
// answering the request identified by responseTo with the given status
// URI.
func (sp *SPDescriptor) LogoutResponse(destination, status, responseTo string) *LogoutResponse {
	return &LogoutResponse{
		ID:           genID(),
		Version:      "2.0",
		IssueInstant: TimeNow(),
		Destination:  destination,
		InResponseTo: responseTo,
		Issuer:       &Issuer{Value: sp.ID},
		Status:       Status{StatusCode: StatusCode{Value: status}},
	}
}

// ArtifactRequest builds a samlp:ArtifactResolve addressed to destination,
// asking the IdP to resolve the given HTTP-Artifact token.
func (sp *SPDescriptor) ArtifactRequest(destination, artifact string) *ArtifactResolve {
	return &ArtifactResolve{
		ID:           genID(),
		Version:      "2.0",
		IssueInstant: TimeNow(),
		Destination:  destination,
		Issuer:       &Issuer{Value: sp.ID},
		Artifact:     artifact,
	}
}

// marshalable is satisfied by every outbound protocol message type.
type marshalable interface {
	protocolXMLName() string
}

func (*AuthnRequest) protocolXMLName() string    { return "AuthnRequest" }
func (*LogoutRequest) protocolXMLName() string   { return "LogoutRequest" }
func (*LogoutResponse) protocolXMLName() string  { return "LogoutResponse" }
func (*ArtifactResolve) protocolXMLName() string { return "ArtifactResolve" }

// Marshal serializes an outbound protocol message to XML bytes.
func Marshal(msg marshalable) ([]byte, error) {
	return xml.Marshal(msg)
}

// Sign serializes msg, then produces an enveloped XML-DSig signature over
// it using signer, returning the final signed XML. Signature computation
// itself is delegated entirely to signer, a trusted external library, not
// reimplemented here.
func Sign(msg marshalable, signer Signer) ([]byte, error) {
	data, err := Marshal(msg)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("saml: re-parsing marshaled message for signing: %w", err)
	}
	signedRoot, err := signer.SignElement(doc.Root())
	if err != nil {
		return nil, fmt.Errorf("saml: signing message: %w", err)
	}
	doc.SetRoot(signedRoot)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
