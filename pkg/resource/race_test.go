package resource

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/marketplace"
)

// orderedRemote serves list calls whose settle order the test controls. Each
// query's Search value selects a gate and a result page.
type orderedRemote struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	pages   map[string][]marketplace.Service
	started map[string]chan struct{}
}

func newOrderedRemote() *orderedRemote {
	return &orderedRemote{
		gates:   map[string]chan struct{}{},
		pages:   map[string][]marketplace.Service{},
		started: map[string]chan struct{}{},
	}
}

func (r *orderedRemote) addPage(key string, items []marketplace.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gates[key] = make(chan struct{})
	r.pages[key] = items
	r.started[key] = make(chan struct{}, 1)
}

func (r *orderedRemote) list(ctx context.Context, q marketplace.ListQuery) (*client.ListResult[marketplace.Service], error) {
	r.mu.Lock()
	gate := r.gates[q.Search]
	items := r.pages[q.Search]
	started := r.started[q.Search]
	r.mu.Unlock()

	started <- struct{}{}
	<-gate
	return &client.ListResult[marketplace.Service]{Data: items}, nil
}

func (r *orderedRemote) waitStarted(key string) { <-r.started[key] }
func (r *orderedRemote) settle(key string)      { close(r.gates[key]) }

// runOverlappingLists issues two list calls that overlap in flight, settles
// the second-issued one first, and returns the controller's final page.
func runOverlappingLists(t *testing.T, opts ...Option) []string {
	t.Helper()

	r := newOrderedRemote()
	r.addPage("first", []marketplace.Service{{ID: "svc_first"}})
	r.addPage("second", []marketplace.Service{{ID: "svc_second"}})

	c := New(Remote[marketplace.Service, client.ServiceDraft]{List: r.list}, opts...)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = c.List(context.Background(), marketplace.ListQuery{Search: "first"})
	}()
	r.waitStarted("first")
	go func() {
		defer wg.Done()
		_ = c.List(context.Background(), marketplace.ListQuery{Search: "second"})
	}()
	r.waitStarted("second")

	// Newer request settles first, older one settles last. Wait for the
	// second response to be applied before releasing the first so the two
	// goroutines cannot race each other to the state lock.
	r.settle("second")
	require.Eventually(t, func() bool {
		ids := c.State().ItemIDs()
		return len(ids) == 1 && ids[0] == "svc_second"
	}, testTimeout, testTick, "second response should apply before the first settles")
	r.settle("first")
	wg.Wait()

	return c.State().ItemIDs()
}

func TestOverlappingListsLastSettledWinsByDefault(t *testing.T) {
	t.Parallel()

	ids := runOverlappingLists(t)
	assert.Equal(t, []string{"svc_first"}, ids,
		"without the sequence guard, whichever response settles last is displayed")
}

func TestOverlappingListsStaleDiscard(t *testing.T) {
	t.Parallel()

	ids := runOverlappingLists(t, WithStaleDiscard())
	assert.Equal(t, []string{"svc_second"}, ids,
		"the guard drops responses to superseded list calls")
}

func TestStaleDiscardIgnoresSupersededFailure(t *testing.T) {
	t.Parallel()

	r := newOrderedRemote()
	r.addPage("ok", []marketplace.Service{{ID: "svc_ok"}})

	failGate := make(chan struct{})
	failStarted := make(chan struct{}, 1)
	listFn := func(ctx context.Context, q marketplace.ListQuery) (*client.ListResult[marketplace.Service], error) {
		if q.Search == "fail" {
			failStarted <- struct{}{}
			<-failGate
			return nil, assert.AnError
		}
		return r.list(ctx, q)
	}

	c := New(Remote[marketplace.Service, client.ServiceDraft]{List: listFn}, WithStaleDiscard())

	var wg sync.WaitGroup
	wg.Add(2)
	var failErr error
	go func() {
		defer wg.Done()
		failErr = c.List(context.Background(), marketplace.ListQuery{Search: "fail"})
	}()
	<-failStarted
	go func() {
		defer wg.Done()
		_ = c.List(context.Background(), marketplace.ListQuery{Search: "ok"})
	}()
	r.waitStarted("ok")

	r.settle("ok")
	close(failGate)
	wg.Wait()

	require.NoError(t, failErr, "a superseded failure is dropped, not surfaced")
	st := c.State()
	assert.NoError(t, st.Err)
	assert.Equal(t, []string{"svc_ok"}, st.ItemIDs())
}
