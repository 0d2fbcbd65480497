package resource

import (
	"log/slog"

	"github.com/marketctl/marketctl/pkg/logging"
	"github.com/marketctl/marketctl/pkg/notify"
)

type config struct {
	notifier     notify.Notifier
	logger       *slog.Logger
	staleDiscard bool
}

// Option configures a Controller.
type Option func(*config)

// WithNotifier sets the sink for action-level notifications. Defaults to a
// no-op notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(c *config) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger sets the controller's logger. Defaults to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStaleDiscard enables the request-sequence guard on list calls: when
// two list requests overlap, the response to the superseded one is dropped
// instead of whichever-settles-last winning. Off by default to match the
// historical behavior views were built against.
func WithStaleDiscard() Option {
	return func(c *config) {
		c.staleDiscard = true
	}
}

func applyOptions(opts []Option) config {
	cfg := config{
		notifier: notify.Nop{},
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
