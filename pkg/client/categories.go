package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketctl/marketctl/pkg/marketplace"
)

// CategoryDraft is the writable subset of a category.
type CategoryDraft struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// CategoryAPI is the remote method set for the categories resource.
type CategoryAPI interface {
	// List returns a page of categories matching the query.
	List(ctx context.Context, q marketplace.ListQuery) (*ListResult[marketplace.Category], error)
	// Get returns a single category by ID.
	Get(ctx context.Context, id string) (*marketplace.Category, error)
	// Create adds a new category.
	Create(ctx context.Context, draft CategoryDraft) (*marketplace.Category, error)
	// Update replaces the writable fields of an existing category.
	Update(ctx context.Context, id string, draft CategoryDraft) (*marketplace.Category, error)
	// Delete removes a category. The server refuses when services reference it.
	Delete(ctx context.Context, id string) error
	// SetActive toggles whether the category is open for new listings.
	SetActive(ctx context.Context, id string, active bool) (*marketplace.Category, error)
	// SetPopular toggles the featured flag.
	SetPopular(ctx context.Context, id string, popular bool) (*marketplace.Category, error)
}

type categoryAPI struct {
	c *Client
}

func (a *categoryAPI) List(ctx context.Context, q marketplace.ListQuery) (*ListResult[marketplace.Category], error) {
	path := "/categories"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	resp, err := a.c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var result ListResult[marketplace.Category]
	if err := decodeInto(resp, a.c, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *categoryAPI) Get(ctx context.Context, id string) (*marketplace.Category, error) {
	resp, err := a.c.get(ctx, "/categories/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, notFound("category", id)
	}

	var env entityEnvelope[marketplace.Category]
	if err := decodeInto(resp, a.c, http.StatusOK, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (a *categoryAPI) Create(ctx context.Context, draft CategoryDraft) (*marketplace.Category, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode category: %w", err)
	}

	resp, err := a.c.post(ctx, "/categories", body)
	if err != nil {
		return nil, err
	}

	var env entityEnvelope[marketplace.Category]
	if err := decodeInto(resp, a.c, http.StatusCreated, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (a *categoryAPI) Update(ctx context.Context, id string, draft CategoryDraft) (*marketplace.Category, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode category: %w", err)
	}

	resp, err := a.c.put(ctx, "/categories/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, notFound("category", id)
	}

	var env entityEnvelope[marketplace.Category]
	if err := decodeInto(resp, a.c, http.StatusOK, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (a *categoryAPI) Delete(ctx context.Context, id string) error {
	resp, err := a.c.delete(ctx, "/categories/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return notFound("category", id)
	}
	return decodeInto(resp, a.c, http.StatusNoContent, nil)
}

func (a *categoryAPI) SetActive(ctx context.Context, id string, active bool) (*marketplace.Category, error) {
	return a.toggle(ctx, id, "active", map[string]bool{"active": active})
}

func (a *categoryAPI) SetPopular(ctx context.Context, id string, popular bool) (*marketplace.Category, error) {
	return a.toggle(ctx, id, "popular", map[string]bool{"popular": popular})
}

func (a *categoryAPI) toggle(ctx context.Context, id, action string, payload map[string]bool) (*marketplace.Category, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := a.c.post(ctx, "/categories/"+url.PathEscape(id)+"/"+action, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, notFound("category", id)
	}

	var env entityEnvelope[marketplace.Category]
	if err := decodeInto(resp, a.c, http.StatusOK, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
