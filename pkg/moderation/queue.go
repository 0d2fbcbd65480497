package moderation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/marketctl/marketctl/pkg/bulk"
	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/logging"
	"github.com/marketctl/marketctl/pkg/marketplace"
	"github.com/marketctl/marketctl/pkg/notify"
	"github.com/marketctl/marketctl/pkg/resource"
)

// Queue presents the services awaiting moderation and the actions reviewers
// take on them: per-row quick actions and bulk actions over a selection.
type Queue struct {
	services *resource.Services
	api      *client.Client
	sel      *bulk.Selection
	coord    *bulk.Coordinator
	notifier notify.Notifier
	logger   *slog.Logger

	mu    sync.RWMutex
	busy  map[string]string // item ID -> action name while in flight
	stats *marketplace.ModerationStats
}

// Option configures a Queue.
type Option func(*Queue)

// WithNotifier sets the notification sink for bulk outcomes.
func WithNotifier(n notify.Notifier) Option {
	return func(q *Queue) {
		if n != nil {
			q.notifier = n
		}
	}
}

// WithLogger sets the queue's logger.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// NewQueue builds a moderation queue over a services controller. api is used
// for the batch moderation endpoints and the stats refresh.
func NewQueue(services *resource.Services, api *client.Client, opts ...Option) *Queue {
	q := &Queue{
		services: services,
		api:      api,
		sel:      bulk.NewSelection(),
		notifier: notify.Nop{},
		logger:   logging.Nop(),
		busy:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.coord = bulk.NewCoordinator(q.notifier, q.logger)
	return q
}

// Load performs the initial fetch of the queue's backing list and stats.
func (q *Queue) Load(ctx context.Context) error {
	if err := q.services.Init(ctx, marketplace.ListQuery{}); err != nil {
		return err
	}
	return q.RefreshStats(ctx)
}

// Pending returns the services needing moderation, derived by filtering the
// controller's current page locally. Server order is preserved.
func (q *Queue) Pending() []marketplace.Service {
	state := q.services.State()
	pending := make([]marketplace.Service, 0, len(state.Items))
	for _, svc := range state.Items {
		if svc.Status.NeedsModeration() {
			pending = append(pending, svc)
		}
	}
	return pending
}

// Services exposes the backing controller for view rendering.
func (q *Queue) Services() *resource.Services { return q.services }

// Selection exposes the bulk selection set.
func (q *Queue) Selection() *bulk.Selection { return q.sel }

// ItemBusy reports the action currently running for an item, if any. Views
// use this to disable just that row's controls: the list-level submitting
// flag would lock every row, which is the wrong granularity for per-row
// quick actions.
func (q *Queue) ItemBusy(id string) (string, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	action, ok := q.busy[id]
	return action, ok
}

// markBusy flags one item as running the named action. The returned function
// clears the flag and must run in a defer so failures clear it too.
func (q *Queue) markBusy(id, action string) func() {
	q.mu.Lock()
	q.busy[id] = action
	q.mu.Unlock()
	return func() {
		q.mu.Lock()
		delete(q.busy, id)
		q.mu.Unlock()
	}
}

// QuickApprove approves one item from its row.
func (q *Queue) QuickApprove(ctx context.Context, id string) error {
	defer q.markBusy(id, "approve")()
	_, err := q.services.Approve(ctx, id)
	return err
}

// QuickReject rejects one item from its row.
func (q *Queue) QuickReject(ctx context.Context, id, reason string) error {
	defer q.markBusy(id, "reject")()
	_, err := q.services.Reject(ctx, id, reason)
	return err
}

// QuickFlag flags one item for re-review from its row.
func (q *Queue) QuickFlag(ctx context.Context, id, reason string) error {
	defer q.markBusy(id, "flag")()
	_, err := q.services.Flag(ctx, id, reason)
	return err
}

// BulkApprove approves every selected item in one batch call.
func (q *Queue) BulkApprove(ctx context.Context) (*client.BatchResult, error) {
	return q.coord.Run(ctx, "Approved", q.sel, func(ctx context.Context, ids []string) (*client.BatchResult, error) {
		return q.services.API().BatchApprove(ctx, ids)
	}, q.aggregateRefresh)
}

// BulkReject rejects every selected item in one batch call.
func (q *Queue) BulkReject(ctx context.Context, reason string) (*client.BatchResult, error) {
	return q.coord.Run(ctx, "Rejected", q.sel, func(ctx context.Context, ids []string) (*client.BatchResult, error) {
		return q.services.API().BatchReject(ctx, ids, reason)
	}, q.aggregateRefresh)
}

// BulkDelete archives every selected item in one batch call.
func (q *Queue) BulkDelete(ctx context.Context) (*client.BatchResult, error) {
	return q.coord.Run(ctx, "Archived", q.sel, func(ctx context.Context, ids []string) (*client.BatchResult, error) {
		return q.services.API().BatchDelete(ctx, ids)
	}, q.aggregateRefresh)
}

// aggregateRefresh is the single refresh a successful bulk action triggers:
// one re-list plus one stats fetch, regardless of how many IDs were acted on.
func (q *Queue) aggregateRefresh(ctx context.Context) {
	if err := q.services.Refresh(ctx); err != nil {
		q.logger.Warn("post-bulk refresh failed", "error", err)
	}
	if err := q.RefreshStats(ctx); err != nil {
		q.logger.Warn("post-bulk stats refresh failed", "error", err)
	}
}

// RefreshStats refetches the moderation statistics.
func (q *Queue) RefreshStats(ctx context.Context) error {
	stats, err := q.api.Stats(ctx)
	if err != nil {
		return err
	}
	q.mu.Lock()
	q.stats = stats
	q.mu.Unlock()
	return nil
}

// Stats returns the last fetched moderation statistics, or nil before the
// first successful refresh.
func (q *Queue) Stats() *marketplace.ModerationStats {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.stats
}
