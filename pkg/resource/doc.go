// Package resource implements the client-side controller for a remote
// resource collection.
//
// A Controller is the single source of truth for one collection's view-state:
// the current page of items, server-reported pagination, the most recently
// fetched record, busy flags for reads and writes, and at most one current
// error. All remote traffic for the collection funnels through it, and every
// successful mutation triggers a full refetch of the list rather than a local
// patch, so rendered state always reflects server-side ordering and
// moderation decisions.
//
// Error severity is split in two. List and get failures land in the
// controller's error field: the view has nothing valid to render, shows a
// full error state, and Retry re-runs the last query. Status-transition
// failures (approve, reject, and friends) go to the notify.Notifier instead:
// one row's action failing must not blank out the whole list.
//
// Two overlapping list calls race by default — whichever settles last wins,
// matching the behavior existing views were built against. WithStaleDiscard
// opts into a monotonic request-sequence guard that drops superseded
// responses.
//
// Each Controller owns independent state. There is no shared cache between
// instances; a mutation made through one controller becomes visible to
// another only when that one refetches.
//
// Typed wrappers (Services, Categories, Profiles) bind the generic core to
// the concrete client APIs and add the per-resource transition methods.
package resource
