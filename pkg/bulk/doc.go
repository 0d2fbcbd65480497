// Package bulk coordinates applying one action to many selected entities.
//
// Admin views let the user check rows and act on all of them at once. The
// Coordinator takes the Selection, snapshots it, fires the batch endpoint a
// single time, and reports one aggregate outcome: one notification, one list
// refresh. On failure the selection survives so a retry needs no
// re-selecting.
//
// FanOut covers resources that lack a server-side batch endpoint by running
// the per-ID call for every selected ID and aggregating outcomes per ID —
// a partial failure never masks the calls that succeeded.
package bulk
