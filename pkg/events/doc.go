// Package events subscribes to the backend change feed over WebSocket.
//
// The feed tells a client that a collection became stale; it does not
// replace list calls. A Subscriber coalesces bursts of events per resource
// and invokes registered handlers, which typically call Refresh on the
// matching resource controller. Dropped connections are re-dialed with
// exponential backoff.
package events
