package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketctl/marketctl/internal/apitest"
	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/marketplace"
	"github.com/marketctl/marketctl/pkg/notify"
	"github.com/marketctl/marketctl/pkg/resource"
)

// newTestQueue seeds a backend with a mixed-status page and loads a queue
// over it.
func newTestQueue(t *testing.T) (*Queue, *apitest.Server, *notify.Memory) {
	t.Helper()

	backend := apitest.New()
	backend.SeedService(marketplace.Service{ID: "svc_pending_1", Title: "Gutter cleaning", Status: marketplace.StatusPending})
	backend.SeedService(marketplace.Service{ID: "svc_pending_2", Title: "Dog walking", Status: marketplace.StatusPending})
	backend.SeedService(marketplace.Service{ID: "svc_flagged", Title: "Mystery box", Status: marketplace.StatusFlagged, Price: 500})
	backend.SeedService(marketplace.Service{ID: "svc_approved", Title: "Lawn mowing", Status: marketplace.StatusApproved})
	t.Cleanup(backend.Close)

	c := client.New(backend.URL())
	mem := notify.NewMemory(20)
	services := resource.NewServices(c.Services(), resource.WithNotifier(mem))
	q := NewQueue(services, c, WithNotifier(mem))
	require.NoError(t, q.Load(context.Background()))
	return q, backend, mem
}

func TestPendingFiltersLocally(t *testing.T) {
	t.Parallel()

	q, _, _ := newTestQueue(t)

	pending := q.Pending()
	ids := make([]string, len(pending))
	for i, svc := range pending {
		ids[i] = svc.ID
	}
	assert.Equal(t, []string{"svc_pending_1", "svc_pending_2", "svc_flagged"}, ids,
		"pending and flagged items appear in server order; approved ones do not")
}

func TestLoadFetchesStats(t *testing.T) {
	t.Parallel()

	q, _, _ := newTestQueue(t)

	stats := q.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.PendingServices)
	assert.Equal(t, 1, stats.FlaggedServices)
}

func TestQuickApprove(t *testing.T) {
	t.Parallel()

	q, backend, mem := newTestQueue(t)

	require.NoError(t, q.QuickApprove(context.Background(), "svc_pending_1"))

	svc, ok := backend.Service("svc_pending_1")
	require.True(t, ok)
	assert.Equal(t, marketplace.StatusApproved, svc.Status)

	_, busy := q.ItemBusy("svc_pending_1")
	assert.False(t, busy, "busy flag clears after the action settles")

	notes := mem.Snapshot()
	require.NotEmpty(t, notes)
	assert.Equal(t, notify.LevelSuccess, notes[0].Level)

	// The controller refetched, so the row left the local pending view.
	for _, svc := range q.Pending() {
		assert.NotEqual(t, "svc_pending_1", svc.ID)
	}
}

func TestQuickRejectFailureClearsBusy(t *testing.T) {
	t.Parallel()

	q, backend, mem := newTestQueue(t)

	backend.FailNext(1, 500, "database locked")
	err := q.QuickReject(context.Background(), "svc_pending_1", "spam")
	require.Error(t, err)

	_, busy := q.ItemBusy("svc_pending_1")
	assert.False(t, busy, "busy flag clears on failure too")

	assert.NoError(t, q.Services().State().Err, "a failed quick action stays out of the list error")
	notes := mem.Snapshot()
	require.NotEmpty(t, notes)
	assert.Equal(t, notify.LevelError, notes[len(notes)-1].Level)
}

func TestItemBusyDuringQuickAction(t *testing.T) {
	t.Parallel()

	q, _, _ := newTestQueue(t)

	// markBusy is what the quick actions defer; exercise its window directly.
	release := q.markBusy("svc_pending_1", "approve")
	action, busy := q.ItemBusy("svc_pending_1")
	assert.True(t, busy)
	assert.Equal(t, "approve", action)

	_, otherBusy := q.ItemBusy("svc_pending_2")
	assert.False(t, otherBusy, "only the acted-on row is busy")

	release()
	_, busy = q.ItemBusy("svc_pending_1")
	assert.False(t, busy)
}

func TestBulkApprove(t *testing.T) {
	t.Parallel()

	q, backend, mem := newTestQueue(t)

	q.Selection().Add("svc_pending_1")
	q.Selection().Add("svc_pending_2")

	result, err := q.BulkApprove(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.AllSucceeded())
	assert.Zero(t, q.Selection().Len())

	for _, id := range []string{"svc_pending_1", "svc_pending_2"} {
		svc, ok := backend.Service(id)
		require.True(t, ok)
		assert.Equal(t, marketplace.StatusApproved, svc.Status)
	}

	// One aggregate notification, and stats were refetched.
	var successes int
	for _, n := range mem.Snapshot() {
		if n.Level == notify.LevelSuccess {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 0, q.Stats().PendingServices)
	assert.Equal(t, 2, q.Stats().ApprovedToday)
}

func TestBulkRejectPartialFailureKeepsFailedSelected(t *testing.T) {
	t.Parallel()

	q, _, _ := newTestQueue(t)

	q.Selection().Add("svc_pending_1")
	q.Selection().Add("svc_missing")

	result, err := q.BulkReject(context.Background(), "prohibited")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.AllSucceeded())
	assert.Equal(t, []string{"svc_missing"}, q.Selection().IDs())
}

func TestBulkDeleteArchives(t *testing.T) {
	t.Parallel()

	q, backend, _ := newTestQueue(t)

	q.Selection().Add("svc_flagged")
	result, err := q.BulkDelete(context.Background())
	require.NoError(t, err)
	assert.True(t, result.AllSucceeded())

	svc, ok := backend.Service("svc_flagged")
	require.True(t, ok)
	assert.Equal(t, marketplace.StatusArchived, svc.Status)
}

func TestBulkEmptySelection(t *testing.T) {
	t.Parallel()

	q, _, mem := newTestQueue(t)
	before := len(mem.Snapshot())

	result, err := q.BulkApprove(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Len(t, mem.Snapshot(), before)
}
