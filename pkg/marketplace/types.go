package marketplace

import "time"

// Status is the moderation lifecycle state of a marketplace record.
type Status string

// Moderation statuses.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusFlagged  Status = "flagged"
	StatusArchived Status = "archived"
)

// NeedsModeration reports whether a record in this status belongs in the
// admin moderation queue.
func (s Status) NeedsModeration() bool {
	return s == StatusPending || s == StatusFlagged
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusFlagged, StatusArchived:
		return true
	}
	return false
}

// Entity is implemented by every server-owned record the client handles.
// The ID must be stable for the lifetime of the record; it is the only
// field the state layer relies on.
type Entity interface {
	// EntityID returns the stable identifier usable as a mapping key.
	EntityID() string
	// DisplayName returns a human-readable label for notifications.
	DisplayName() string
}

// Service is a provider-submitted marketplace listing.
type Service struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status"`
	CategoryID  string   `json:"categoryId,omitempty"`
	Price       float64  `json:"price"`
	Popular     bool     `json:"popular"`
	SubmittedBy OwnerRef `json:"submittedBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntityID returns the service ID.
func (s Service) EntityID() string { return s.ID }

// DisplayName returns the service title, falling back to the ID.
func (s Service) DisplayName() string {
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

// Category groups services for browsing and filtering.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug,omitempty"`
	Active       bool   `json:"active"`
	Popular      bool   `json:"popular"`
	ServiceCount int    `json:"serviceCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntityID returns the category ID.
func (c Category) EntityID() string { return c.ID }

// DisplayName returns the category name, falling back to the ID.
func (c Category) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// ProviderProfile is the public profile of a service provider.
type ProviderProfile struct {
	ID          string   `json:"id"`
	DisplayTag  string   `json:"displayName"`
	Bio         string   `json:"bio,omitempty"`
	Verified    bool     `json:"verified"`
	User        OwnerRef `json:"userId"`
	ServicesRun int      `json:"servicesRun"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntityID returns the profile ID.
func (p ProviderProfile) EntityID() string { return p.ID }

// DisplayName returns the profile display name, falling back to the ID.
func (p ProviderProfile) DisplayName() string {
	if p.DisplayTag != "" {
		return p.DisplayTag
	}
	return p.ID
}

// Pagination describes the server-reported position within a collection.
// Every field is authoritative from the last successful list response; the
// client never recomputes any of them locally.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// CollectionSummary carries per-status counts for user-scoped list responses.
type CollectionSummary struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Flagged  int `json:"flagged"`
	Archived int `json:"archived"`
}

// ModerationStats is the aggregate returned by the stats endpoint, refreshed
// after bulk moderation actions.
type ModerationStats struct {
	PendingServices  int       `json:"pendingServices"`
	FlaggedServices  int       `json:"flaggedServices"`
	PendingProfiles  int       `json:"pendingProfiles"`
	ApprovedToday    int       `json:"approvedToday"`
	RejectedToday    int       `json:"rejectedToday"`
	OldestPendingAge int       `json:"oldestPendingAgeSeconds"`
	GeneratedAt      time.Time `json:"generatedAt"`
}
