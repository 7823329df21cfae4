package saml

import (
	"testing"

	"github.com/beevik/etree"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

// assertNoComments fails the test if any comment token survives anywhere in
// el's subtree.
func assertNoComments(t *testing.T, el *etree.Element) {
	t.Helper()
	for _, tok := range el.Child {
		if _, isComment := tok.(*etree.Comment); isComment {
			t.Fatalf("comment token survived stripComments: %v", tok)
		}
		if child, ok := tok.(*etree.Element); ok {
			assertNoComments(t, child)
		}
	}
}

func TestValidateWellFormedRejectsMismatchedEntities(t *testing.T) {
	err := validateWellFormed([]byte(`<a>&bogus;</a>`))
	assert.Check(t, err != nil)
}

func TestValidateWellFormedAcceptsPlainXML(t *testing.T) {
	err := validateWellFormed([]byte(`<a><b>text</b></a>`))
	assert.NilError(t, err)
}

func TestReadDocumentStripsCommentsAtEveryDepth(t *testing.T) {
	doc, err := readDocument([]byte(`
		<a>
			<!-- top level comment -->
			<b>
				<!-- nested comment -->
				<c>keep</c>
			</b>
		</a>
	`))
	assert.NilError(t, err)

	root := doc.Root()
	assert.Check(t, is.Equal(len(descendantsByLocalName(root, "c")), 1))
	assertNoComments(t, root)
}

func TestChildrenByLocalNameIgnoresNamespacePrefix(t *testing.T) {
	doc, err := readDocument([]byte(`
		<md:EntityDescriptor xmlns:md="urn:oasis:names:tc:SAML:2.0:metadata" entityID="urn:test">
			<md:IDPSSODescriptor>
				<md:NameIDFormat>urn:oasis:names:tc:SAML:2.0:nameid-format:transient</md:NameIDFormat>
			</md:IDPSSODescriptor>
		</md:EntityDescriptor>
	`))
	assert.NilError(t, err)

	idpSSO := firstChildByLocalName(doc.Root(), "IDPSSODescriptor")
	assert.Check(t, idpSSO != nil)

	formats := childrenByLocalName(idpSSO, "NameIDFormat")
	assert.Check(t, is.Equal(len(formats), 1))
	assert.Check(t, is.Equal(textContent(formats[0]), "urn:oasis:names:tc:SAML:2.0:nameid-format:transient"))
}

func TestTextContentHandlesNil(t *testing.T) {
	assert.Check(t, is.Equal(textContent(nil), ""))
}
