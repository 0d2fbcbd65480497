package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedServer accepts one websocket connection and writes the given frames.
func feedServer(t *testing.T, frames []string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		ctx := r.Context()
		for _, f := range frames {
			if err := conn.Write(ctx, websocket.MessageText, []byte(f)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		_, _, _ = conn.Read(ctx)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	ev, err := DecodeEvent([]byte(`{"resource":"services","entityId":"svc_1","action":"updated"}`))
	require.NoError(t, err)
	assert.Equal(t, "services", ev.Resource)
	assert.Equal(t, "svc_1", ev.EntityID)
	assert.Equal(t, ActionUpdated, ev.Action)

	_, err = DecodeEvent([]byte(`{"action":"updated"}`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestSubscriberDispatchesEvents(t *testing.T) {
	url := feedServer(t, []string{
		`{"resource":"services","entityId":"svc_1","action":"created"}`,
	})

	cfg := DefaultConfig(url)
	cfg.Debounce = 0
	cfg.AutoReconnect = false

	sub, err := NewSubscriber(cfg)
	require.NoError(t, err)
	defer sub.Close()

	fired := make(chan string, 4)
	sub.On("services", func(resource string) { fired <- resource })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sub.Connect(ctx))
	assert.True(t, sub.IsConnected())

	select {
	case resource := <-fired:
		assert.Equal(t, "services", resource)
	case <-time.After(3 * time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestSubscriberCoalescesBursts(t *testing.T) {
	url := feedServer(t, []string{
		`{"resource":"services","action":"updated"}`,
		`{"resource":"services","action":"updated"}`,
		`{"resource":"services","action":"deleted"}`,
	})

	cfg := DefaultConfig(url)
	cfg.Debounce = 150 * time.Millisecond
	cfg.AutoReconnect = false

	sub, err := NewSubscriber(cfg)
	require.NoError(t, err)
	defer sub.Close()

	var calls atomic.Int32
	sub.On("services", func(string) { calls.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sub.Connect(ctx))

	// The three events arrive within one debounce window.
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSubscriberWildcardHandler(t *testing.T) {
	url := feedServer(t, []string{
		`{"resource":"categories","action":"updated"}`,
	})

	cfg := DefaultConfig(url)
	cfg.Debounce = 0
	cfg.AutoReconnect = false

	sub, err := NewSubscriber(cfg)
	require.NoError(t, err)
	defer sub.Close()

	fired := make(chan string, 1)
	sub.On("*", func(resource string) { fired <- resource })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sub.Connect(ctx))

	select {
	case resource := <-fired:
		assert.Equal(t, "categories", resource)
	case <-time.After(3 * time.Second):
		t.Fatal("wildcard handler was not invoked")
	}
}

func TestSubscriberRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := NewSubscriber(nil)
	assert.Error(t, err)

	_, err = NewSubscriber(&Config{})
	assert.Error(t, err)
}
