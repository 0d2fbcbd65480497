package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action describes what happened to an entity.
type Action string

// Actions emitted by the backend change feed.
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ChangeEvent is one entry on the backend change feed. Events carry just
// enough to know which collection went stale; consumers re-list rather than
// patching local state from the event payload.
type ChangeEvent struct {
	// Resource is the collection that changed: "services", "categories",
	// or "profiles".
	Resource string `json:"resource"`
	// EntityID identifies the affected entity, empty for bulk changes.
	EntityID string `json:"entityId,omitempty"`
	// Action is what happened.
	Action Action `json:"action"`
	// Timestamp is when the backend recorded the change.
	Timestamp time.Time `json:"timestamp"`
}

// DecodeEvent parses a change feed frame.
func DecodeEvent(data []byte) (*ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode change event: %w", err)
	}
	if ev.Resource == "" {
		return nil, fmt.Errorf("change event missing resource")
	}
	return &ev, nil
}
