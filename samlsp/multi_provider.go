package samlsp

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"

	"github.com/corelayer/saml"
)

// PopulateMultiServiceProvider fetches a federation-wide metadata document
// from metadataURL and registers every entity describing an IdP (i.e.
// carrying an IDPSSODescriptor) into msp.IDPs, keyed by entity ID. Entities
// that only describe an SP (no IDPSSODescriptor) are skipped. Each entity
// is re-marshaled to XML and parsed with saml.FromXML, so the resulting
// IdPDescriptors get the same signature-wrapping defenses FromXML applies
// to a directly fetched document.
func PopulateMultiServiceProvider(ctx context.Context, httpClient *http.Client, metadataURL url.URL, msp *saml.MultiServiceProvider, opts ...saml.IdPOption) error {
	entities, err := FetchEntitiesMetadata(ctx, httpClient, metadataURL)
	if err != nil {
		return err
	}

	if msp.IDPs == nil {
		msp.IDPs = map[string]*saml.IdPDescriptor{}
	}

	for i := range entities.EntityDescriptors {
		entity := &entities.EntityDescriptors[i]
		if len(entity.IDPSSODescriptors) == 0 {
			continue
		}

		entityXML, err := xml.Marshal(entity)
		if err != nil {
			return err
		}
		idp, err := saml.FromXML(entityXML, opts...)
		if err != nil {
			return err
		}
		msp.IDPs[idp.EntityID()] = idp
	}

	return nil
}
