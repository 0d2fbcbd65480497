package resource

import (
	"github.com/marketctl/marketctl/pkg/marketplace"
)

// State is a point-in-time snapshot of a controller's view of one remote
// collection. Controllers hand out copies; mutating a snapshot has no effect
// on the controller.
type State[T marketplace.Entity] struct {
	// Items is the current page in server order. Never sorted locally.
	Items []T

	// Pagination is verbatim from the last successful list response.
	Pagination marketplace.Pagination

	// Summary is the per-status breakdown, when the endpoint provides one.
	Summary *marketplace.CollectionSummary

	// Current is the most recently fetched or mutated single record.
	Current *T

	// Loading is true while a read (list/get) is in flight. Views show a
	// full spinner for this.
	Loading bool

	// Submitting is true while a write is in flight. Views disable action
	// controls but keep rendered content visible.
	Submitting bool

	// Err is the current list-level error, nil when the last read succeeded.
	// A new error overwrites the old one.
	Err error

	// Initialized flips to true after the first list call settles, success
	// or tolerated failure, and never flips back.
	Initialized bool

	// LastQuery is the parameter set of the most recent successful list,
	// kept so retry and refetch reuse the same filter.
	LastQuery marketplace.ListQuery
}

// ErrMessage returns the current error's message, or "" when there is none.
func (s State[T]) ErrMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// HasItems reports whether the view has any data to render.
func (s State[T]) HasItems() bool {
	return len(s.Items) > 0
}

// ItemIDs returns the IDs of the current page, in order.
func (s State[T]) ItemIDs() []string {
	ids := make([]string, len(s.Items))
	for i, item := range s.Items {
		ids[i] = item.EntityID()
	}
	return ids
}
