package saml

import (
	"encoding/xml"
	"strings"
	"testing"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

func TestGenIDIsValidNCName(t *testing.T) {
	id := genID()
	assert.Check(t, strings.HasPrefix(id, "_"))
	assert.Check(t, len(id) > 1)
}

func TestGenIDIsUnique(t *testing.T) {
	assert.Check(t, genID() != genID())
}

func TestAuthnRequestFactory(t *testing.T) {
	key, cert := generateTestCert(t, "authn-request")
	sp, err := NewSPDescriptor("https://sp.example/", "https://sp.example", cert, key)
	assert.NilError(t, err)
	sp.ACSURLPOST = "/acs"

	req := sp.AuthnRequest("https://idp.example/sso", TransientNameIDFormat)
	assert.Check(t, is.Equal(req.Destination, "https://idp.example/sso"))
	assert.Check(t, is.Equal(req.Issuer.Value, sp.ID))
	assert.Check(t, is.Equal(req.AssertionConsumerServiceURL, "https://sp.example/acs"))
	assert.Check(t, is.Equal(req.NameIDPolicy.Format, string(TransientNameIDFormat)))

	data, err := Marshal(req)
	assert.NilError(t, err)
	assert.Check(t, strings.Contains(string(data), "AuthnRequest"))

	var reparsed AuthnRequest
	assert.NilError(t, xml.Unmarshal(data, &reparsed))
	assert.Check(t, is.Equal(reparsed.ID, req.ID))
}

func TestSignProducesEnvelopedSignature(t *testing.T) {
	key, cert := generateTestCert(t, "sign")
	sp, err := NewSPDescriptor("https://sp.example/", "https://sp.example", cert, key)
	assert.NilError(t, err)

	signer, err := NewSigner(key, cert)
	assert.NilError(t, err)

	req := sp.AuthnRequest("https://idp.example/sso", TransientNameIDFormat)
	signed, err := Sign(req, signer)
	assert.NilError(t, err)
	assert.Check(t, strings.Contains(string(signed), "Signature"))

	verifier := NewVerifier(cert)
	root, err := readDocument(signed)
	assert.NilError(t, err)
	_, err = verifier.VerifyElement(root.Root())
	assert.NilError(t, err)
}

func TestLogoutRequestAndResponseFactories(t *testing.T) {
	key, cert := generateTestCert(t, "logout")
	sp, err := NewSPDescriptor("https://sp.example/", "https://sp.example", cert, key)
	assert.NilError(t, err)

	lr := sp.LogoutRequest("https://idp.example/slo", "user@example.com", PersistentNameIDFormat, "session-1")
	assert.Check(t, is.Equal(lr.NameID.Value, "user@example.com"))
	assert.Check(t, is.Equal(lr.SessionIndex, "session-1"))

	resp := sp.LogoutResponse("https://idp.example/slo", StatusSuccess, lr.ID)
	assert.Check(t, is.Equal(resp.InResponseTo, lr.ID))
	assert.Check(t, is.Equal(resp.Status.StatusCode.Value, StatusSuccess))
}

func TestArtifactRequestFactory(t *testing.T) {
	key, cert := generateTestCert(t, "artifact")
	sp, err := NewSPDescriptor("https://sp.example/", "https://sp.example", cert, key)
	assert.NilError(t, err)

	req := sp.ArtifactRequest("https://idp.example/artifact", "AAQAAM...")
	assert.Check(t, is.Equal(req.Artifact, "AAQAAM..."))
	assert.Check(t, is.Equal(req.Issuer.Value, sp.ID))
}
