package bulk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/logging"
	"github.com/marketctl/marketctl/pkg/notify"
)

// ErrRunning is returned when Run is called while a previous bulk action is
// still in flight. There is no queueing and no cancellation: one bulk action
// at a time.
var ErrRunning = errors.New("a bulk action is already running")

// BatchAction applies one operation to a batch of IDs in a single remote
// call and reports per-ID outcomes.
type BatchAction func(ctx context.Context, ids []string) (*client.BatchResult, error)

// Coordinator applies one action to every selected ID with a single
// aggregate notification and a single refresh, instead of one per item.
type Coordinator struct {
	notifier notify.Notifier
	logger   *slog.Logger
	running  atomic.Bool
}

// NewCoordinator creates a coordinator reporting through the given notifier.
// A nil notifier discards notifications.
func NewCoordinator(notifier notify.Notifier, logger *slog.Logger) *Coordinator {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Coordinator{notifier: notifier, logger: logger}
}

// Running reports whether a bulk action is currently in flight.
func (c *Coordinator) Running() bool {
	return c.running.Load()
}

// Run executes action against the current selection.
//
// The selection is snapshotted before dispatch, so checking or unchecking
// rows while the call is in flight does not change which IDs were acted on.
// The action is invoked exactly once with the full ID list.
//
// Outcomes:
//   - empty selection: no-op, no notification.
//   - transport or whole-batch failure: one failure notification; the
//     selection is left intact so the user can retry without re-selecting.
//   - success: IDs the server processed are removed from the selection and
//     one aggregate notification reports the counts; IDs the server rejected
//     stay selected. The refresh hooks then run once, in order.
//
// verb is the past-tense label for notifications, e.g. "Approved".
func (c *Coordinator) Run(ctx context.Context, verb string, sel *Selection, action BatchAction, refresh ...func(context.Context)) (*client.BatchResult, error) {
	ids := sel.IDs()
	if len(ids) == 0 {
		return nil, nil
	}

	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrRunning
	}
	defer c.running.Store(false)

	c.logger.Debug("bulk action dispatched", "verb", verb, "count", len(ids))

	result, err := action(ctx, ids)
	if err != nil {
		c.notifier.Error(fmt.Sprintf("Bulk action failed: %s", err))
		return nil, err
	}

	for _, id := range result.Succeeded {
		sel.Remove(id)
	}

	switch {
	case result.AllSucceeded():
		c.notifier.Success(fmt.Sprintf("%s %d items", verb, len(result.Succeeded)))
	case len(result.Succeeded) == 0:
		c.notifier.Error(fmt.Sprintf("Bulk action failed for all %d items", result.Requested))
	default:
		c.notifier.Error(fmt.Sprintf("%s %d of %d items; %d failed and remain selected",
			verb, len(result.Succeeded), result.Requested, len(result.Failed)))
	}

	if len(result.Succeeded) > 0 {
		for _, fn := range refresh {
			fn(ctx)
		}
	}

	return result, nil
}

// FanOut adapts a per-ID call into a BatchAction for resources without a
// true batch endpoint. Calls run concurrently; every ID is attempted
// regardless of other failures, and the per-ID outcomes are aggregated the
// same way a server-side batch reports them.
func FanOut(call func(ctx context.Context, id string) error) BatchAction {
	return func(ctx context.Context, ids []string) (*client.BatchResult, error) {
		result := &client.BatchResult{
			Requested: len(ids),
			Succeeded: make([]string, 0, len(ids)),
		}

		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)
		for _, id := range ids {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				err := call(ctx, id)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed = append(result.Failed, client.BatchFailure{ID: id, Message: err.Error()})
					return
				}
				result.Succeeded = append(result.Succeeded, id)
			}(id)
		}
		wg.Wait()

		return result, nil
	}
}
