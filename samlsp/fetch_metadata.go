// Package samlsp offers raw, typed access to SAML metadata documents,
// independent of the higher-level IdPDescriptor construction in the saml
// package. It exists for callers that want the parsed *saml.EntityDescriptor
// itself — for example to iterate a multi-entity EntitiesDescriptor when
// populating a saml.MultiServiceProvider, or to parse an SP's own emitted
// metadata back as IdP metadata in a role-swap test harness.
//
// saml.FromXML/saml.FromURL, by contrast, parse with etree and local-name
// matching specifically to defend against namespace-prefix mismatches and
// signature-wrapping attacks (see xmlutil.go); this package trades that
// defense-in-depth for the convenience of a plain encoding/xml Unmarshal
// when the caller just wants to look at the metadata shape.
package samlsp

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	xrv "github.com/mattermost/xml-roundtrip-validator"

	"github.com/corelayer/saml"
	"github.com/corelayer/saml/logger"
)

// ParseMetadata parses arbitrary SAML IdP metadata.
//
// Note: this is needed because IdP metadata is sometimes wrapped in an
// <EntitiesDescriptor>, and sometimes the top level element is an
// <EntityDescriptor>.
func ParseMetadata(data []byte) (*saml.EntityDescriptor, error) {
	entity := &saml.EntityDescriptor{}

	if err := xrv.Validate(bytes.NewBuffer(data)); err != nil {
		return nil, err
	}

	err := xml.Unmarshal(data, entity)

	// This string comparison is ugly, but it is how the error is generated
	// by encoding/xml when the root element doesn't match the expected tag.
	if err != nil && err.Error() == "expected element type <EntityDescriptor> but have <EntitiesDescriptor>" {
		entities := &saml.EntitiesDescriptor{}
		if err := xml.Unmarshal(data, entities); err != nil {
			return nil, err
		}

		for i, e := range entities.EntityDescriptors {
			if len(e.IDPSSODescriptors) > 0 {
				return &entities.EntityDescriptors[i], nil
			}
		}
		return nil, errors.New("no entity found with IDPSSODescriptor")
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// ParseEntitiesMetadata parses a federation-wide <EntitiesDescriptor>
// document, tolerating a bare <EntityDescriptor> at the root by wrapping
// it in a single-entry EntitiesDescriptor.
func ParseEntitiesMetadata(data []byte) (*saml.EntitiesDescriptor, error) {
	entities := &saml.EntitiesDescriptor{}
	if err := xrv.Validate(bytes.NewBuffer(data)); err != nil {
		return nil, err
	}

	err := xml.Unmarshal(data, entities)
	if err != nil && err.Error() == "expected element type <EntitiesDescriptor> but have <EntityDescriptor>" {
		entity := &saml.EntityDescriptor{}
		if err := xml.Unmarshal(data, entity); err != nil {
			return nil, err
		}

		entities.EntityDescriptors = []saml.EntityDescriptor{*entity}
		return entities, nil
	}
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func fetchMetadata[R *saml.EntityDescriptor | *saml.EntitiesDescriptor](ctx context.Context, httpClient *http.Client, metadataURL url.URL, f func(data []byte) (R, error)) (R, error) {
	req, err := http.NewRequest("GET", metadataURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.DefaultLogger.Printf("error while closing response body during fetch metadata: %v", err)
		}
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("failed to fetch metadata: unexpected status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return f(data)
}

// FetchEntityMetadata fetches a single entity's metadata document from
// metadataURL and parses it with ParseMetadata.
func FetchEntityMetadata(ctx context.Context, httpClient *http.Client, metadataURL url.URL) (*saml.EntityDescriptor, error) {
	return fetchMetadata(ctx, httpClient, metadataURL, ParseMetadata)
}

// FetchEntitiesMetadata fetches a federation-wide metadata document from
// metadataURL and parses it with ParseEntitiesMetadata.
func FetchEntitiesMetadata(ctx context.Context, httpClient *http.Client, metadataURL url.URL) (*saml.EntitiesDescriptor, error) {
	return fetchMetadata(ctx, httpClient, metadataURL, ParseEntitiesMetadata)
}
