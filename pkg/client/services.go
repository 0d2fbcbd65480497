package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketctl/marketctl/pkg/marketplace"
)

// ServiceDraft is the writable subset of a service, used for create and
// update requests. Status transitions go through the dedicated endpoints.
type ServiceDraft struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	CategoryID  string  `json:"categoryId,omitempty"`
	Price       float64 `json:"price"`
}

// ServiceAPI is the remote method set for the services resource.
type ServiceAPI interface {
	// List returns a page of services matching the query.
	List(ctx context.Context, q marketplace.ListQuery) (*ListResult[marketplace.Service], error)
	// Get returns a single service by ID.
	Get(ctx context.Context, id string) (*marketplace.Service, error)
	// Create submits a new service; it enters the queue as pending.
	Create(ctx context.Context, draft ServiceDraft) (*marketplace.Service, error)
	// Update replaces the writable fields of an existing service.
	Update(ctx context.Context, id string, draft ServiceDraft) (*marketplace.Service, error)
	// Delete archives a service.
	Delete(ctx context.Context, id string) error

	// Approve transitions a pending or flagged service to approved.
	Approve(ctx context.Context, id string) (*marketplace.Service, error)
	// Reject transitions a service to rejected with a reviewer reason.
	Reject(ctx context.Context, id, reason string) (*marketplace.Service, error)
	// Restore moves an archived service back to pending.
	Restore(ctx context.Context, id string) (*marketplace.Service, error)
	// Flag marks a service for re-review.
	Flag(ctx context.Context, id, reason string) (*marketplace.Service, error)
	// SetPopular toggles the featured flag.
	SetPopular(ctx context.Context, id string, popular bool) (*marketplace.Service, error)

	// BatchApprove approves many services in one request.
	BatchApprove(ctx context.Context, ids []string) (*BatchResult, error)
	// BatchReject rejects many services in one request.
	BatchReject(ctx context.Context, ids []string, reason string) (*BatchResult, error)
	// BatchDelete archives many services in one request.
	BatchDelete(ctx context.Context, ids []string) (*BatchResult, error)
}

type serviceAPI struct {
	c *Client
}

func (s *serviceAPI) List(ctx context.Context, q marketplace.ListQuery) (*ListResult[marketplace.Service], error) {
	path := "/services"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	resp, err := s.c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var result ListResult[marketplace.Service]
	if err := decodeInto(resp, s.c, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *serviceAPI) Get(ctx context.Context, id string) (*marketplace.Service, error) {
	resp, err := s.c.get(ctx, "/services/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, notFound("service", id)
	}

	var env entityEnvelope[marketplace.Service]
	if err := decodeInto(resp, s.c, http.StatusOK, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (s *serviceAPI) Create(ctx context.Context, draft ServiceDraft) (*marketplace.Service, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode service: %w", err)
	}

	resp, err := s.c.post(ctx, "/services", body)
	if err != nil {
		return nil, err
	}

	var env entityEnvelope[marketplace.Service]
	if err := decodeInto(resp, s.c, http.StatusCreated, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (s *serviceAPI) Update(ctx context.Context, id string, draft ServiceDraft) (*marketplace.Service, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode service: %w", err)
	}

	resp, err := s.c.put(ctx, "/services/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, notFound("service", id)
	}

	var env entityEnvelope[marketplace.Service]
	if err := decodeInto(resp, s.c, http.StatusOK, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (s *serviceAPI) Delete(ctx context.Context, id string) error {
	resp, err := s.c.delete(ctx, "/services/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return notFound("service", id)
	}
	return decodeInto(resp, s.c, http.StatusNoContent, nil)
}

func (s *serviceAPI) Approve(ctx context.Context, id string) (*marketplace.Service, error) {
	return s.transition(ctx, id, "approve", nil)
}

func (s *serviceAPI) Reject(ctx context.Context, id, reason string) (*marketplace.Service, error) {
	return s.transition(ctx, id, "reject", map[string]string{"reason": reason})
}

func (s *serviceAPI) Restore(ctx context.Context, id string) (*marketplace.Service, error) {
	return s.transition(ctx, id, "restore", nil)
}

func (s *serviceAPI) Flag(ctx context.Context, id, reason string) (*marketplace.Service, error) {
	return s.transition(ctx, id, "flag", map[string]string{"reason": reason})
}

func (s *serviceAPI) SetPopular(ctx context.Context, id string, popular bool) (*marketplace.Service, error) {
	return s.transition(ctx, id, "popular", map[string]bool{"popular": popular})
}

// transition posts to a status endpoint like /services/{id}/approve.
func (s *serviceAPI) transition(ctx context.Context, id, action string, payload interface{}) (*marketplace.Service, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := s.c.post(ctx, "/services/"+url.PathEscape(id)+"/"+action, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, notFound("service", id)
	}

	var env entityEnvelope[marketplace.Service]
	if err := decodeInto(resp, s.c, http.StatusOK, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (s *serviceAPI) BatchApprove(ctx context.Context, ids []string) (*BatchResult, error) {
	return s.batch(ctx, "approve", map[string]interface{}{"ids": ids})
}

func (s *serviceAPI) BatchReject(ctx context.Context, ids []string, reason string) (*BatchResult, error) {
	return s.batch(ctx, "reject", map[string]interface{}{"ids": ids, "reason": reason})
}

func (s *serviceAPI) BatchDelete(ctx context.Context, ids []string) (*BatchResult, error) {
	return s.batch(ctx, "delete", map[string]interface{}{"ids": ids})
}

// batch posts to /services/batch/{action} with the full ID list in one call.
func (s *serviceAPI) batch(ctx context.Context, action string, payload map[string]interface{}) (*BatchResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.c.post(ctx, "/services/batch/"+action, body)
	if err != nil {
		return nil, err
	}

	var result BatchResult
	if err := decodeInto(resp, s.c, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
