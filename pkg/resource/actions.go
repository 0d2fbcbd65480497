package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/marketctl/marketctl/pkg/marketplace"
)

// ErrNotSupported is returned when a controller was built without the remote
// operation being invoked.
var ErrNotSupported = errors.New("operation not supported for this resource")

// ActionCall invokes one status-transition endpoint and returns the updated
// record.
type ActionCall[T marketplace.Entity] func(ctx context.Context) (*T, error)

// Act runs a status-transition call through the executor with write
// semantics. On success it emits one success notification naming the record
// and refetches the list; on failure it notifies with the error message but
// leaves the controller error field alone — a failed row action must not
// blank out an already-rendered view.
//
// verb is the past-tense label for the notification, e.g. "Approved".
func (c *Controller[T, D]) Act(ctx context.Context, verb string, call ActionCall[T]) (*T, error) {
	var result *T
	err := c.execute(ctx, busySubmitting, notifyOnly, func(ctx context.Context) error {
		item, err := call(ctx)
		if err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.notifier.Success(fmt.Sprintf("%s %q", verb, (*result).DisplayName()))
	_ = c.Refresh(ctx)
	return result, nil
}
