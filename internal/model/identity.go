package model

import (
	"encoding/json"
)

// Identity is the already-authenticated caller of a request. The gateway
// passes it in on every call; only ID is meaningful to this service. Any
// extra display attributes (user name, avatar, ...) are carried through
// opaquely so downstream subscribers see the same shape the gateway sent.
type Identity struct {
	ID string

	// Attrs holds every attribute other than "id" from the identity blob.
	Attrs map[string]json.RawMessage
}

// IsZero reports whether the identity carries no ID.
func (u Identity) IsZero() bool {
	return u.ID == ""
}

// MarshalJSON emits the identity as a flat object: {"id": ..., <attrs>...}.
func (u Identity) MarshalJSON() ([]byte, error) {
	flat := make(map[string]json.RawMessage, len(u.Attrs)+1)
	for k, v := range u.Attrs {
		flat[k] = v
	}
	id, err := json.Marshal(u.ID)
	if err != nil {
		return nil, err
	}
	flat["id"] = id
	return json.Marshal(flat)
}

// UnmarshalJSON accepts a flat identity object, splitting "id" from the
// remaining attributes. Unknown keys are preserved, not dropped.
func (u *Identity) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	if raw, ok := flat["id"]; ok {
		if err := json.Unmarshal(raw, &u.ID); err != nil {
			return err
		}
		delete(flat, "id")
	}
	if len(flat) > 0 {
		u.Attrs = flat
	} else {
		u.Attrs = nil
	}
	return nil
}

// Ref returns an id-only copy of the identity, used where full attribute
// blobs must not be persisted (e.g. channel member sets).
func (u Identity) Ref() Identity {
	return Identity{ID: u.ID}
}
