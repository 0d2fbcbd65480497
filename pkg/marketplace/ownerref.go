package marketplace

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Owner is the embedded form of an owner reference: the server populated the
// related user record inline instead of sending a bare ID.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// OwnerRef is a polymorphic reference to a user record. Depending on the
// endpoint the server serializes it either as a bare ID string or as an
// embedded object. The discriminant is explicit: callers check Embedded()
// instead of shape-sniffing at every use site.
type OwnerRef struct {
	id    string
	owner *Owner
}

// RefID builds an OwnerRef holding a bare ID.
func RefID(id string) OwnerRef {
	return OwnerRef{id: id}
}

// RefOwner builds an OwnerRef holding an embedded owner record.
func RefOwner(o Owner) OwnerRef {
	return OwnerRef{id: o.ID, owner: &o}
}

// ID returns the referenced user ID regardless of form.
func (r OwnerRef) ID() string { return r.id }

// Embedded returns the populated owner record and true when the server
// embedded it, or a zero Owner and false for a bare reference.
func (r OwnerRef) Embedded() (Owner, bool) {
	if r.owner == nil {
		return Owner{}, false
	}
	return *r.owner, true
}

// Label returns the best human-readable name available: the embedded owner's
// name when present, else the bare ID.
func (r OwnerRef) Label() string {
	if r.owner != nil && r.owner.Name != "" {
		return r.owner.Name
	}
	return r.id
}

// IsZero reports whether the reference is unset.
func (r OwnerRef) IsZero() bool { return r.id == "" && r.owner == nil }

// UnmarshalJSON accepts both wire shapes: "usr_1" and {"id":"usr_1",...}.
func (r *OwnerRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = OwnerRef{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return fmt.Errorf("owner reference: %w", err)
		}
		*r = OwnerRef{id: id}
		return nil
	case '{':
		var o Owner
		if err := json.Unmarshal(trimmed, &o); err != nil {
			return fmt.Errorf("owner reference: %w", err)
		}
		*r = OwnerRef{id: o.ID, owner: &o}
		return nil
	default:
		return fmt.Errorf("owner reference: unexpected JSON %q", string(trimmed))
	}
}

// MarshalJSON emits the same shape that was received: embedded object when
// populated, bare ID string otherwise.
func (r OwnerRef) MarshalJSON() ([]byte, error) {
	if r.owner != nil {
		return json.Marshal(r.owner)
	}
	return json.Marshal(r.id)
}
