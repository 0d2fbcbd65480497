// Package moderation implements the admin review queue for marketplace
// services.
//
// The Queue layers three busy-tracking mechanisms with different
// granularity, on purpose. The backing controller's submitting flag covers
// whole-view writes; the bulk coordinator serializes batch actions; and the
// queue's own per-item markers let a view disable exactly the row whose
// quick action is in flight while every other row stays interactive.
//
// Saved filters are expr expressions compiled once and evaluated per row,
// covering ad-hoc triage queries like `status == "flagged" && ageHours > 48`.
package moderation
