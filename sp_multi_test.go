package saml

import (
	"testing"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

func TestMultiServiceProviderServiceProviderNotFound(t *testing.T) {
	m := &MultiServiceProvider{
		Providers: map[string]SPDescriptor{},
	}
	_, err := m.ServiceProvider("https://unknown.example/")
	assert.Check(t, err != nil)
	notFound, ok := err.(*ErrEntityNotFound)
	assert.Check(t, ok)
	assert.Check(t, is.Equal(notFound.EntityID, "https://unknown.example/"))
}

func TestMultiServiceProviderServiceProviderFound(t *testing.T) {
	key, cert := generateTestCert(t, "multi-sp")
	sp, err := NewSPDescriptor("https://sp.example/", "https://sp.example", cert, key)
	assert.NilError(t, err)

	m := &MultiServiceProvider{
		Providers: map[string]SPDescriptor{"https://sp.example/": *sp},
	}
	found, err := m.ServiceProvider("https://sp.example/")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(found.ID, "https://sp.example/"))
}

func TestMultiServiceProviderIdPNotFound(t *testing.T) {
	m := &MultiServiceProvider{IDPs: map[string]*IdPDescriptor{}}
	_, err := m.IdP("https://unknown-idp.example/")
	assert.Check(t, err != nil)
}

func TestMultiServiceProviderDiscoveryRedirect(t *testing.T) {
	wayf := "https://discovery.example/wayf"
	m := &MultiServiceProvider{
		EntityID:          "https://sp.example/",
		DiscoveryMetadata: &EntitiesDescriptor{Name: &wayf},
	}

	u, err := m.DiscoveryRedirect("relay-123", "https://sp.example/acs")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(u.Query().Get("entityID"), "https://sp.example/"))
	assert.Check(t, u.Query().Get("return") != "")
}

func TestMultiServiceProviderDiscoveryRedirectRequiresDiscoveryMetadata(t *testing.T) {
	m := &MultiServiceProvider{EntityID: "https://sp.example/"}
	_, err := m.DiscoveryRedirect("relay-123", "https://sp.example/acs")
	assert.Check(t, err != nil)
}
