package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/marketctl/marketctl/pkg/logging"
)

// Handler is called when a collection changes. The subscriber coalesces
// bursts, so a handler typically triggers one re-list per quiet period.
type Handler func(resource string)

// Config controls a Subscriber.
type Config struct {
	// URL is the websocket endpoint of the change feed.
	URL string
	// Token is the bearer token attached to the dial request. May be empty.
	Token string
	// Debounce is how long to wait after the last event for a resource
	// before invoking handlers. Zero disables coalescing.
	Debounce time.Duration
	// AutoReconnect re-dials after the connection drops.
	AutoReconnect bool
	// ReconnectDelay is the initial delay before a reconnect attempt.
	// Doubles on each failure up to MaxReconnectDelay.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the reconnect backoff.
	MaxReconnectDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults for an interactive
// dashboard session.
func DefaultConfig(url string) *Config {
	return &Config{
		URL:               url,
		Debounce:          250 * time.Millisecond,
		AutoReconnect:     true,
		ReconnectDelay:    time.Second,
		MaxReconnectDelay: 30 * time.Second,
	}
}

// Subscriber consumes the backend change feed and tells interested handlers
// which collections went stale. It never carries entity data itself; the
// authoritative refresh is always a fresh list call by the consumer.
type Subscriber struct {
	cfg  *Config
	conn *websocket.Conn
	log  *slog.Logger

	mu       sync.Mutex
	handlers map[string][]Handler
	timers   map[string]*time.Timer

	connected  atomic.Bool
	reconnects atomic.Int32
	done       chan struct{}
	closeOnce  sync.Once
}

// NewSubscriber creates a change feed subscriber. Call Connect to start it.
func NewSubscriber(cfg *Config) (*Subscriber, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("change feed URL is required")
	}
	return &Subscriber{
		cfg:      cfg,
		log:      logging.Nop(),
		handlers: map[string][]Handler{},
		timers:   map[string]*time.Timer{},
		done:     make(chan struct{}),
	}, nil
}

// SetLogger sets the operational logger for the subscriber.
func (s *Subscriber) SetLogger(log *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log
}

// On registers a handler for a resource name. Use "*" to observe every
// resource. Registration is only safe before Connect.
func (s *Subscriber) On(resource string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[resource] = append(s.handlers[resource], h)
}

// Connect dials the change feed and starts the read loop.
func (s *Subscriber) Connect(ctx context.Context) error {
	if s.connected.Load() {
		return errors.New("already connected")
	}

	headers := http.Header{}
	if s.cfg.Token != "" {
		headers.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	conn, resp, err := websocket.Dial(ctx, s.cfg.URL, &websocket.DialOptions{
		HTTPHeader: headers,
	})
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		return fmt.Errorf("connect change feed: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	s.connected.Store(true)

	go s.readPump(ctx)

	return nil
}

// Close shuts the subscriber down permanently.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.connected.Store(false)

		s.mu.Lock()
		if s.conn != nil {
			_ = s.conn.Close(websocket.StatusNormalClosure, "subscriber closed")
			s.conn = nil
		}
		for _, t := range s.timers {
			t.Stop()
		}
		s.mu.Unlock()
	})
}

// IsConnected reports whether the feed connection is up.
func (s *Subscriber) IsConnected() bool {
	return s.connected.Load()
}

// Reconnects returns how many reconnect attempts have been made.
func (s *Subscriber) Reconnects() int {
	return int(s.reconnects.Load())
}

// readPump reads change events until the connection drops.
func (s *Subscriber) readPump(ctx context.Context) {
	defer func() {
		s.connected.Store(false)
		if s.cfg.AutoReconnect {
			go s.reconnectLoop(ctx)
		}
	}()

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		default:
		}

		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()

		if conn == nil {
			return
		}

		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		ev, err := DecodeEvent(data)
		if err != nil {
			s.log.Warn("dropping malformed change event", "error", err)
			continue
		}

		s.dispatch(ev)
	}
}

// dispatch schedules handlers for an event, coalescing bursts per resource.
func (s *Subscriber) dispatch(ev *ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Debounce <= 0 {
		s.fireLocked(ev.Resource)
		return
	}

	if t, ok := s.timers[ev.Resource]; ok {
		t.Reset(s.cfg.Debounce)
		return
	}
	resource := ev.Resource
	s.timers[resource] = time.AfterFunc(s.cfg.Debounce, func() {
		s.mu.Lock()
		delete(s.timers, resource)
		s.fireLocked(resource)
		s.mu.Unlock()
	})
}

// fireLocked invokes handlers for a resource. Callers hold s.mu.
func (s *Subscriber) fireLocked(resource string) {
	for _, h := range s.handlers[resource] {
		go h(resource)
	}
	for _, h := range s.handlers["*"] {
		go h(resource)
	}
}

// reconnectLoop re-dials with exponential backoff after a dropped connection.
func (s *Subscriber) reconnectLoop(ctx context.Context) {
	delay := s.cfg.ReconnectDelay

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		s.reconnects.Add(1)
		if err := s.Connect(ctx); err != nil {
			delay *= 2
			if delay > s.cfg.MaxReconnectDelay {
				delay = s.cfg.MaxReconnectDelay
			}
			s.log.Debug("change feed reconnect failed", "error", err, "nextDelay", delay)
			continue
		}
		return
	}
}
