package saml

import (
	"net/url"
)

// MultiServiceProvider dispatches across several IdPDescriptors keyed by
// entity ID, for federations where more than one IdP is trusted.
type MultiServiceProvider struct {
	EntityID string

	Providers map[string]SPDescriptor
	IDPs      map[string]*IdPDescriptor

	// DiscoveryMetadata optionally names a federation-wide discovery
	// ("where are you from", WAYF) service via its Name attribute.
	DiscoveryMetadata *EntitiesDescriptor
}

// ServiceProvider returns the SPDescriptor registered for entityID, or a
// structured ErrEntityNotFound if none is registered.
func (m *MultiServiceProvider) ServiceProvider(entityID string) (*SPDescriptor, error) {
	sp, ok := m.Providers[entityID]
	if !ok {
		return nil, &ErrEntityNotFound{EntityID: entityID}
	}
	return &sp, nil
}

// IdP returns the IdPDescriptor registered for entityID, or a structured
// ErrEntityNotFound if none is registered.
func (m *MultiServiceProvider) IdP(entityID string) (*IdPDescriptor, error) {
	idp, ok := m.IDPs[entityID]
	if !ok {
		return nil, &ErrEntityNotFound{EntityID: entityID}
	}
	return idp, nil
}

// DiscoveryRedirect builds a "where are you from" discovery-service
// redirect URL: it appends the caller's own returnURL (carrying
// relayState) as the discovery service's "return" query parameter, and
// this provider's EntityID as "entityID".
func (m *MultiServiceProvider) DiscoveryRedirect(relayState, returnURL string) (*url.URL, error) {
	u, err := url.Parse(returnURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("rs", relayState)
	u.RawQuery = q.Encode()

	if m.DiscoveryMetadata == nil || m.DiscoveryMetadata.Name == nil {
		return nil, &ErrEntityNotFound{EntityID: "discovery service"}
	}

	wayfURL, err := url.Parse(*m.DiscoveryMetadata.Name)
	if err != nil {
		return nil, err
	}
	wq := wayfURL.Query()
	wq.Set("return", u.String())
	wq.Set("entityID", m.EntityID)
	wayfURL.RawQuery = wq.Encode()

	return wayfURL, nil
}
