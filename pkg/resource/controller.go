package resource

import (
	"context"
	"log/slog"
	"sync"

	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/marketplace"
	"github.com/marketctl/marketctl/pkg/notify"
)

// Remote binds a controller to the remote method set for one resource type.
// T is the entity, D the writable draft accepted by create and update.
// Only List is mandatory; controllers return ErrNotSupported for absent
// operations.
type Remote[T marketplace.Entity, D any] struct {
	List   func(ctx context.Context, q marketplace.ListQuery) (*client.ListResult[T], error)
	Get    func(ctx context.Context, id string) (*T, error)
	Create func(ctx context.Context, draft D) (*T, error)
	Update func(ctx context.Context, id string, draft D) (*T, error)
	Delete func(ctx context.Context, id string) error
}

// Listener receives a state snapshot after every state change.
type Listener[T marketplace.Entity] func(State[T])

// Controller owns the client-side view of one remote resource collection.
// It is the only code path that talks to the Remote for that collection:
// it tracks busy flags, captures list-level errors, retains the last query
// for refetching, and re-lists after every successful mutation instead of
// patching cached items locally.
//
// Each Controller instance owns independent state. Two controllers over the
// same backend collection do not see each other's mutations until they
// refetch; there is no shared cache.
type Controller[T marketplace.Entity, D any] struct {
	remote   Remote[T, D]
	notifier notify.Notifier
	logger   *slog.Logger

	// staleDiscard enables the monotonic list-sequence guard: responses to
	// superseded list calls are dropped instead of overwriting newer state.
	staleDiscard bool

	mu              sync.RWMutex
	items           []T
	pagination      marketplace.Pagination
	summary         *marketplace.CollectionSummary
	current         *T
	err             error
	initialized     bool
	lastQuery       marketplace.ListQuery
	loadingCount    int
	submittingCount int
	listSeq         uint64 // last issued list sequence number

	listenerMu sync.Mutex
	listeners  map[int]Listener[T]
	listenerID int
}

// New creates a controller over the given remote method set.
func New[T marketplace.Entity, D any](remote Remote[T, D], opts ...Option) *Controller[T, D] {
	cfg := applyOptions(opts)
	return &Controller[T, D]{
		remote:       remote,
		notifier:     cfg.notifier,
		logger:       cfg.logger,
		staleDiscard: cfg.staleDiscard,
		listeners:    make(map[int]Listener[T]),
	}
}

// State returns a snapshot of the current view-state.
func (c *Controller[T, D]) State() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// snapshotLocked builds a State copy. Callers hold at least a read lock.
func (c *Controller[T, D]) snapshotLocked() State[T] {
	items := make([]T, len(c.items))
	copy(items, c.items)

	var current *T
	if c.current != nil {
		cur := *c.current
		current = &cur
	}

	return State[T]{
		Items:       items,
		Pagination:  c.pagination,
		Summary:     c.summary,
		Current:     current,
		Loading:     c.loadingCount > 0,
		Submitting:  c.submittingCount > 0,
		Err:         c.err,
		Initialized: c.initialized,
		LastQuery:   c.lastQuery,
	}
}

// Subscribe registers a listener invoked with a snapshot after every state
// change. The returned function unsubscribes it.
func (c *Controller[T, D]) Subscribe(fn Listener[T]) func() {
	c.listenerMu.Lock()
	c.listenerID++
	id := c.listenerID
	c.listeners[id] = fn
	c.listenerMu.Unlock()

	return func() {
		c.listenerMu.Lock()
		delete(c.listeners, id)
		c.listenerMu.Unlock()
	}
}

// publish snapshots state and fans it out to listeners, outside any lock.
func (c *Controller[T, D]) publish() {
	c.mu.RLock()
	snap := c.snapshotLocked()
	c.mu.RUnlock()

	c.listenerMu.Lock()
	fns := make([]Listener[T], 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenerMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Init performs the startup fetch. An authentication failure here is
// tolerated: the view initializes empty instead of showing an error banner
// to a signed-out user. Any other failure surfaces like a normal list error.
// Initialized becomes true either way.
func (c *Controller[T, D]) Init(ctx context.Context, q marketplace.ListQuery) error {
	err := c.list(ctx, q, tolerateAuth)
	if err != nil && client.IsAuthError(err) {
		return nil
	}
	return err
}

// List fetches a page of the collection. On success it replaces items,
// pagination, and summary wholesale and records q as the last query. On
// failure it keeps previously loaded data (stale beats blank) and stores the
// error.
func (c *Controller[T, D]) List(ctx context.Context, q marketplace.ListQuery) error {
	return c.list(ctx, q, surfaceAuth)
}

// Refresh re-runs the last list query. Mutation paths call this instead of
// patching cached items, so local state always reflects server-side
// ordering, filtering, and moderation decisions.
func (c *Controller[T, D]) Refresh(ctx context.Context) error {
	c.mu.RLock()
	q := c.lastQuery
	c.mu.RUnlock()
	return c.list(ctx, q, surfaceAuth)
}

// Retry re-runs the last list query. It is the handler behind the retry
// button of a full-view error state.
func (c *Controller[T, D]) Retry(ctx context.Context) error {
	return c.Refresh(ctx)
}

// authPolicy controls whether a 401 from the remote reaches the error field.
// Init tolerates it so a signed-out user never sees an error snapshot, not
// even transiently between publishes.
type authPolicy int

const (
	surfaceAuth authPolicy = iota
	tolerateAuth
)

func (c *Controller[T, D]) list(ctx context.Context, q marketplace.ListQuery, auth authPolicy) error {
	c.mu.Lock()
	c.loadingCount++
	c.listSeq++
	seq := c.listSeq
	c.mu.Unlock()
	c.publish()

	result, callErr := c.remote.List(ctx, q)

	c.mu.Lock()
	c.loadingCount--
	c.initialized = true

	stale := c.staleDiscard && seq < c.listSeq
	switch {
	case callErr != nil:
		if !stale && !(auth == tolerateAuth && client.IsAuthError(callErr)) {
			c.err = callErr
		}
		c.logger.Warn("list failed", "error", callErr)
	case stale:
		// A newer list call was issued while this one was in flight;
		// drop the response instead of clobbering newer state.
		c.logger.Debug("discarding stale list response", "seq", seq, "latest", c.listSeq)
	default:
		c.items = result.Data
		c.pagination = result.Pagination
		c.summary = result.Summary
		c.lastQuery = q
		c.err = nil
	}
	c.mu.Unlock()
	c.publish()

	if callErr != nil && !stale {
		return callErr
	}
	return nil
}

// Get fetches a single record and makes it Current. Failures store the error
// and return it, so callers can add their own handling (a not-found redirect,
// for instance).
func (c *Controller[T, D]) Get(ctx context.Context, id string) (*T, error) {
	if c.remote.Get == nil {
		return nil, ErrNotSupported
	}

	var fetched *T
	err := c.execute(ctx, busyLoading, setErrField, func(ctx context.Context) error {
		item, err := c.remote.Get(ctx, id)
		if err != nil {
			return err
		}
		fetched = item

		c.mu.Lock()
		c.current = item
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fetched, nil
}

// Create submits a new record, then refetches the list so the view reflects
// the server's ordering and moderation state rather than an optimistic local
// insert.
func (c *Controller[T, D]) Create(ctx context.Context, draft D) (*T, error) {
	if c.remote.Create == nil {
		return nil, ErrNotSupported
	}

	var created *T
	err := c.execute(ctx, busySubmitting, setErrField, func(ctx context.Context) error {
		item, err := c.remote.Create(ctx, draft)
		if err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = c.Refresh(ctx)
	return created, nil
}

// Update replaces a record's writable fields, updates Current when it is the
// record being edited, and refetches the list.
func (c *Controller[T, D]) Update(ctx context.Context, id string, draft D) (*T, error) {
	if c.remote.Update == nil {
		return nil, ErrNotSupported
	}

	var updated *T
	err := c.execute(ctx, busySubmitting, setErrField, func(ctx context.Context) error {
		item, err := c.remote.Update(ctx, id, draft)
		if err != nil {
			return err
		}
		updated = item

		c.mu.Lock()
		if c.current != nil && (*c.current).EntityID() == id {
			c.current = item
		}
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = c.Refresh(ctx)
	return updated, nil
}

// Remove deletes a record, clears Current when it was the deleted one, and
// refetches the list.
func (c *Controller[T, D]) Remove(ctx context.Context, id string) error {
	if c.remote.Delete == nil {
		return ErrNotSupported
	}

	err := c.execute(ctx, busySubmitting, setErrField, func(ctx context.Context) error {
		if err := c.remote.Delete(ctx, id); err != nil {
			return err
		}

		c.mu.Lock()
		if c.current != nil && (*c.current).EntityID() == id {
			c.current = nil
		}
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	_ = c.Refresh(ctx)
	return nil
}

// ClearError resets the error field. Idempotent, no network call.
func (c *Controller[T, D]) ClearError() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
	c.publish()
}

// ClearSearch forgets the retained list query so the next Refresh uses
// server defaults. No network call.
func (c *Controller[T, D]) ClearSearch() {
	c.mu.Lock()
	c.lastQuery = marketplace.ListQuery{}
	c.mu.Unlock()
	c.publish()
}

// SetCurrent replaces the current record, or clears it with nil. No network
// call.
func (c *Controller[T, D]) SetCurrent(item *T) {
	c.mu.Lock()
	c.current = item
	c.mu.Unlock()
	c.publish()
}

// Notifier returns the notification sink actions report through.
func (c *Controller[T, D]) Notifier() notify.Notifier {
	return c.notifier
}

type busyKind int

const (
	busyLoading busyKind = iota
	busySubmitting
)

type errPolicy int

const (
	// setErrField stores failures in the controller error field: the view
	// has nothing valid to show, so the error blocks rendering.
	setErrField errPolicy = iota
	// notifyOnly routes failures to the notifier: a single row action
	// failed, the rendered list is still valid.
	notifyOnly
)

// execute is the single funnel for every remote call outside the list path.
// It guarantees the busy counter is incremented and decremented exactly once
// regardless of outcome, that the error field is only written here and in
// list, and that listeners observe both the busy and settled states.
func (c *Controller[T, D]) execute(ctx context.Context, kind busyKind, policy errPolicy, fn func(context.Context) error) error {
	c.mu.Lock()
	if kind == busyLoading {
		c.loadingCount++
	} else {
		c.submittingCount++
	}
	c.mu.Unlock()
	c.publish()

	callErr := fn(ctx)

	c.mu.Lock()
	if kind == busyLoading {
		c.loadingCount--
	} else {
		c.submittingCount--
	}
	switch {
	case callErr == nil:
		if policy == setErrField {
			c.err = nil
		}
	case policy == setErrField:
		c.err = callErr
	}
	c.mu.Unlock()
	c.publish()

	if callErr != nil {
		if policy == notifyOnly {
			c.notifier.Error(callErr.Error())
		}
		c.logger.Warn("remote call failed", "error", callErr)
	}
	return callErr
}
