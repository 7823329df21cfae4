package saml

import (
	"bytes"
	"strings"

	"github.com/beevik/etree"
	xrv "github.com/mattermost/xml-roundtrip-validator"
)

// Namespace URIs used throughout metadata and protocol messages.
const (
	NamespaceMetadata = "urn:oasis:names:tc:SAML:2.0:metadata"
	NamespaceDSig     = "http://www.w3.org/2000/09/xmldsig#"
	NamespaceAssertion = "urn:oasis:names:tc:SAML:2.0:assertion"
	NamespaceProtocol  = "urn:oasis:names:tc:SAML:2.0:protocol"
)

// validateWellFormed rejects XML that could confuse a naive parser into
// seeing different content than a strict one would (duplicate attributes,
// mismatched entity references, ...), before any further processing. This
// runs ahead of every parse of attacker-controlled XML: inbound assertions
// and fetched IdP metadata.
func validateWellFormed(data []byte) error {
	return xrv.Validate(bytes.NewReader(data))
}

// readDocument parses XML into an etree.Document after well-formedness
// validation and comment stripping.
func readDocument(data []byte) (*etree.Document, error) {
	if err := validateWellFormed(data); err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	stripComments(&doc.Element)
	return doc, nil
}

// stripComments removes every comment node at every depth of the tree.
// This mitigates XML signature-wrapping attacks, where an attacker inserts
// comment nodes into signed content to split a text node's apparent value
// from what a signature actually covers.
func stripComments(el *etree.Element) {
	kept := el.Child[:0]
	for _, tok := range el.Child {
		if _, isComment := tok.(*etree.Comment); isComment {
			continue
		}
		if child, ok := tok.(*etree.Element); ok {
			stripComments(child)
		}
		kept = append(kept, tok)
	}
	el.Child = kept
}

// childrenByLocalName returns the direct children of el whose local tag
// name (ignoring namespace prefix) equals name. Some XPath engines
// mis-handle namespace-qualified selection inside attribute predicates, so
// internal lookups for X509Certificate and AttributeValue use local-name
// matching rather than a namespace-qualified path.
func childrenByLocalName(el *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == name {
			out = append(out, child)
		}
	}
	return out
}

// descendantsByLocalName returns every descendant element (depth-first,
// document order) whose local tag name equals name.
func descendantsByLocalName(el *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == name {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(el)
	return out
}

// firstChildByLocalName returns the first direct child with the given
// local tag name, or nil.
func firstChildByLocalName(el *etree.Element, name string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == name {
			return child
		}
	}
	return nil
}

// textContent returns the concatenated character data of el with leading
// and trailing whitespace trimmed.
func textContent(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
