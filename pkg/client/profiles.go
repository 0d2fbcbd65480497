package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketctl/marketctl/pkg/marketplace"
)

// ProfileDraft is the writable subset of a provider profile.
type ProfileDraft struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio,omitempty"`
}

// ProfileAPI is the remote method set for the provider profile resource.
type ProfileAPI interface {
	// List returns a page of profiles matching the query.
	List(ctx context.Context, q marketplace.ListQuery) (*ListResult[marketplace.ProviderProfile], error)
	// Get returns a single profile by ID.
	Get(ctx context.Context, id string) (*marketplace.ProviderProfile, error)
	// Update replaces the writable fields of a profile.
	Update(ctx context.Context, id string, draft ProfileDraft) (*marketplace.ProviderProfile, error)
	// SetVerified toggles the admin-granted verified badge.
	SetVerified(ctx context.Context, id string, verified bool) (*marketplace.ProviderProfile, error)
}

type profileAPI struct {
	c *Client
}

func (a *profileAPI) List(ctx context.Context, q marketplace.ListQuery) (*ListResult[marketplace.ProviderProfile], error) {
	path := "/profiles"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	resp, err := a.c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var result ListResult[marketplace.ProviderProfile]
	if err := decodeInto(resp, a.c, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *profileAPI) Get(ctx context.Context, id string) (*marketplace.ProviderProfile, error) {
	resp, err := a.c.get(ctx, "/profiles/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, notFound("profile", id)
	}

	var env entityEnvelope[marketplace.ProviderProfile]
	if err := decodeInto(resp, a.c, http.StatusOK, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (a *profileAPI) Update(ctx context.Context, id string, draft ProfileDraft) (*marketplace.ProviderProfile, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	resp, err := a.c.put(ctx, "/profiles/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, notFound("profile", id)
	}

	var env entityEnvelope[marketplace.ProviderProfile]
	if err := decodeInto(resp, a.c, http.StatusOK, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (a *profileAPI) SetVerified(ctx context.Context, id string, verified bool) (*marketplace.ProviderProfile, error) {
	body, err := json.Marshal(map[string]bool{"verified": verified})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := a.c.post(ctx, "/profiles/"+url.PathEscape(id)+"/verify", body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, notFound("profile", id)
	}

	var env entityEnvelope[marketplace.ProviderProfile]
	if err := decodeInto(resp, a.c, http.StatusOK, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
