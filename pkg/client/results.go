package client

import (
	"fmt"
	"strings"

	"github.com/marketctl/marketctl/pkg/marketplace"
)

// ListResult is the envelope for collection responses. Summary is only
// populated on user-scoped lists; Pagination is always authoritative.
type ListResult[T any] struct {
	Data       []T                            `json:"data"`
	Summary    *marketplace.CollectionSummary `json:"summary,omitempty"`
	Pagination marketplace.Pagination         `json:"pagination"`
}

// entityEnvelope is the single-record response shape {"data": {...}}.
type entityEnvelope[T any] struct {
	Data T `json:"data"`
}

// BatchFailure records one ID that a batch operation could not process.
type BatchFailure struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// BatchResult is the aggregate outcome of a batch endpoint. The server
// processes every ID and reports per-ID failures instead of aborting on the
// first one.
type BatchResult struct {
	Requested int            `json:"requested"`
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed,omitempty"`
}

// AllSucceeded reports whether every requested ID was processed.
func (r *BatchResult) AllSucceeded() bool {
	return len(r.Failed) == 0
}

// Err returns nil when everything succeeded, or one aggregate error naming
// the failed IDs.
func (r *BatchResult) Err() error {
	if r.AllSucceeded() {
		return nil
	}
	ids := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.ID
	}
	return fmt.Errorf("%d of %d items failed: %s", len(r.Failed), r.Requested, strings.Join(ids, ", "))
}
