package saml

import (
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Assertion is an immutable, parsed view of an inbound saml:Assertion.
// Unlike IdPDescriptor/SPDescriptor it is created per inbound response and
// discarded once the request completes.
type Assertion struct {
	Issuer         string
	Destination    string
	Attributes     map[string][]string
	Session        string
	NameID         string
	Audience       string
	NotBefore      time.Time
	NotAfter       time.Time
	InResponseTo   string
	ResponseStatus string

	// doc is the comment-stripped parsed XML, retained so bindings can do
	// post-hoc inspection (e.g. re-verifying the signature over the
	// original element) without re-parsing.
	doc *etree.Document
}

// ParseAssertion parses an inbound SAML assertion. xmlBytes may be a bare
// saml:Assertion, or a full samlp:Response containing one: both the
// enclosing Response's Destination/Status and the Assertion's own content
// are read when present. When xmlBytes is only the Assertion subtree (the
// common case once a binding has already verified and unwrapped the
// signature), ResponseStatus is simply left empty.
func ParseAssertion(xmlBytes []byte) (*Assertion, error) {
	doc, err := readDocument(xmlBytes)
	if err != nil {
		return nil, &InvalidAssertion{Reason: err.Error()}
	}

	root := doc.Root()
	if root == nil {
		return nil, &InvalidAssertion{Reason: "empty document"}
	}

	var responseEl, assertionEl *etree.Element
	if root.Tag == "Response" {
		responseEl = root
		assertionEl = firstChildByLocalName(root, "Assertion")
	} else if root.Tag == "Assertion" {
		assertionEl = root
	} else if found := descendantsByLocalName(root, "Assertion"); len(found) > 0 {
		// e.g. a SOAP-wrapped ArtifactResponse/Response envelope.
		assertionEl = found[0]
		if resp := descendantsByLocalName(root, "Response"); len(resp) > 0 {
			responseEl = resp[0]
		}
	}
	if assertionEl == nil {
		return nil, &InvalidAssertion{Reason: "no saml:Assertion found"}
	}

	a := &Assertion{
		Attributes: map[string][]string{},
		doc:        doc,
	}

	if responseEl != nil {
		a.Destination = responseEl.SelectAttrValue("Destination", "")
		if status := firstChildByLocalName(responseEl, "Status"); status != nil {
			if code := firstChildByLocalName(status, "StatusCode"); code != nil {
				a.ResponseStatus = code.SelectAttrValue("Value", "")
			}
		}
	}

	if issuerEl := firstChildByLocalName(assertionEl, "Issuer"); issuerEl != nil {
		a.Issuer = strings.TrimSpace(issuerEl.Text())
	}

	for _, attrEl := range descendantsByLocalName(assertionEl, "Attribute") {
		name := attrEl.SelectAttrValue("Name", "")
		var values []string
		for _, valEl := range childrenByLocalName(attrEl, "AttributeValue") {
			values = append(values, strings.TrimSpace(valEl.Text()))
		}
		a.Attributes[name] = values
	}

	if subjectEl := firstChildByLocalName(assertionEl, "Subject"); subjectEl != nil {
		if nameIDEl := firstChildByLocalName(subjectEl, "NameID"); nameIDEl != nil {
			a.NameID = strings.TrimSpace(nameIDEl.Text())
		}
		for _, confirmation := range childrenByLocalName(subjectEl, "SubjectConfirmation") {
			if data := firstChildByLocalName(confirmation, "SubjectConfirmationData"); data != nil {
				if irt := data.SelectAttrValue("InResponseTo", ""); irt != "" {
					a.InResponseTo = irt
					break
				}
			}
		}
	}

	// Only the first AuthnStatement's SessionIndex is read: with multiple
	// statements, first in document order wins.
	if authnStatements := childrenByLocalName(assertionEl, "AuthnStatement"); len(authnStatements) > 0 {
		a.Session = authnStatements[0].SelectAttrValue("SessionIndex", "")
	}

	now := TimeNow()
	a.NotBefore = now
	a.NotAfter = now.Add(1000 * time.Second)
	if conditionsEl := firstChildByLocalName(assertionEl, "Conditions"); conditionsEl != nil {
		if nb := conditionsEl.SelectAttrValue("NotBefore", ""); nb != "" {
			if t, err := parseSAMLTime(nb); err == nil {
				a.NotBefore = t
			}
		}
		if noa := conditionsEl.SelectAttrValue("NotOnOrAfter", ""); noa != "" {
			if t, err := parseSAMLTime(noa); err == nil {
				a.NotAfter = t
			}
		}
		for _, restriction := range childrenByLocalName(conditionsEl, "AudienceRestriction") {
			if aud := firstChildByLocalName(restriction, "Audience"); aud != nil {
				if text := strings.TrimSpace(aud.Text()); text != "" {
					a.Audience = text
					break
				}
			}
		}
	}

	return a, nil
}

// parseSAMLTime parses an xsd:dateTime value, as used in NotBefore/
// NotOnOrAfter attributes. xsd:dateTime permits an optional fractional
// seconds component that plain RFC3339 does not, so RFC3339Nano is tried
// first.
func parseSAMLTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Valid reports whether this assertion may be accepted for the given
// expected audience and originating request ID. It returns false rather
// than an error: callers must treat false as rejection and log the reason
// themselves if needed.
func (a *Assertion) Valid(audience, inResponseTo string) bool {
	if audience == "" || audience != a.Audience {
		return false
	}
	if inResponseTo != "" && inResponseTo != a.InResponseTo {
		return false
	}
	now := TimeNow()
	if now.Before(a.NotBefore) {
		return false
	}
	if !now.Before(a.NotAfter) {
		return false
	}
	return true
}

// Name returns the first value of the "CN" attribute, or notPresent ("")
// if absent.
func (a *Assertion) Name() string {
	values := a.Attributes["CN"]
	if len(values) == 0 {
		return notPresent
	}
	return values[0]
}

// Document returns the retained, comment-stripped parsed XML view of the
// assertion, for post-hoc inspection (e.g. re-verifying a signature) by a
// binding.
func (a *Assertion) Document() *etree.Document {
	return a.doc
}
