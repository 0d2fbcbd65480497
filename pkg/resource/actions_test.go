package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketctl/marketctl/pkg/marketplace"
	"github.com/marketctl/marketctl/pkg/notify"
)

func TestActSuccessNotifiesAndRefetches(t *testing.T) {
	t.Parallel()

	f := &fakeRemote{items: seedServices("svc_1")}
	mem := notify.NewMemory(10)
	c := New(f.remote(), WithNotifier(mem))
	require.NoError(t, c.Init(context.Background(), marketplace.ListQuery{}))
	before := f.calls()

	svc := marketplace.Service{ID: "svc_1", Title: "Service svc_1"}
	result, err := c.Act(context.Background(), "Approved", func(ctx context.Context) (*marketplace.Service, error) {
		return &svc, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "svc_1", result.ID)

	notes := mem.Snapshot()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.LevelSuccess, notes[0].Level)
	assert.Equal(t, `Approved "Service svc_1"`, notes[0].Message)

	assert.Equal(t, before+1, f.calls(), "a successful action triggers one refetch")
}

func TestActFailureNotifiesWithoutBlankingView(t *testing.T) {
	t.Parallel()

	f := &fakeRemote{items: seedServices("svc_1", "svc_2")}
	mem := notify.NewMemory(10)
	c := New(f.remote(), WithNotifier(mem))
	require.NoError(t, c.Init(context.Background(), marketplace.ListQuery{}))
	before := f.calls()

	_, err := c.Act(context.Background(), "Approved", func(ctx context.Context) (*marketplace.Service, error) {
		return nil, errors.New("transition refused")
	})
	require.Error(t, err)

	st := c.State()
	assert.NoError(t, st.Err, "a failed row action never lands in the list-level error field")
	assert.Equal(t, []string{"svc_1", "svc_2"}, st.ItemIDs(), "rendered data stays put")
	assert.False(t, st.Submitting)
	assert.Equal(t, before, f.calls(), "no refetch after a failed action")

	notes := mem.Snapshot()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.LevelError, notes[0].Level)
	assert.Equal(t, "transition refused", notes[0].Message)
}

func TestSubmittingFlagDuringAction(t *testing.T) {
	t.Parallel()

	f := &fakeRemote{items: seedServices("svc_1")}
	c := New(f.remote())
	require.NoError(t, c.Init(context.Background(), marketplace.ListQuery{}))

	gate := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Act(context.Background(), "Approved", func(ctx context.Context) (*marketplace.Service, error) {
			<-gate
			svc := marketplace.Service{ID: "svc_1", Title: "Service svc_1"}
			return &svc, nil
		})
	}()

	require.Eventually(t, func() bool { return c.State().Submitting }, testTimeout, testTick)
	assert.False(t, c.State().Loading, "row actions use the submitting flag, not loading")

	close(gate)
	<-done
	assert.False(t, c.State().Submitting)
}

func TestServicesWrapperVerbs(t *testing.T) {
	t.Parallel()

	srv := newWrapperServer()
	defer srv.close()

	mem := notify.NewMemory(10)
	services := NewServices(srv.client.Services(), WithNotifier(mem))
	require.NoError(t, services.Init(context.Background(), marketplace.ListQuery{}))

	_, err := services.Approve(context.Background(), "svc_1")
	require.NoError(t, err)

	_, err = services.Reject(context.Background(), "svc_2", "prohibited item")
	require.NoError(t, err)

	notes := mem.Snapshot()
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0].Message, "Approved")
	assert.Contains(t, notes[1].Message, "Rejected")
}
