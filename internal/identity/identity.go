// Package identity decodes the caller identity the gateway forwards on
// every request and plumbs it through request contexts. The service trusts
// the gateway to have authenticated the user; only the shape is checked here.
package identity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/relay/internal/model"
)

// Header is the request header carrying the authenticated identity blob.
const Header = "X-User"

// ErrMissing is returned when no identity header is present.
var ErrMissing = fmt.Errorf("identity: missing %s header", Header)

// Decode parses a base64-encoded JSON identity blob. The blob must carry a
// non-empty id; all other attributes are preserved opaquely.
func Decode(raw string) (model.Identity, error) {
	if raw == "" {
		return model.Identity{}, ErrMissing
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// Some gateways send unpadded base64.
		data, err = base64.RawStdEncoding.DecodeString(raw)
		if err != nil {
			return model.Identity{}, fmt.Errorf("identity: decoding header: %w", err)
		}
	}
	var who model.Identity
	if err := json.Unmarshal(data, &who); err != nil {
		return model.Identity{}, fmt.Errorf("identity: parsing header: %w", err)
	}
	if who.IsZero() {
		return model.Identity{}, fmt.Errorf("identity: blob has no id")
	}
	return who, nil
}

// Encode renders the identity as a base64 JSON blob suitable for the
// X-User header. Used by clients and tests.
func Encode(who model.Identity) (string, error) {
	data, err := json.Marshal(who)
	if err != nil {
		return "", fmt.Errorf("identity: encoding: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying who.
func NewContext(ctx context.Context, who model.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, who)
}

// FromContext extracts the identity stored by NewContext.
func FromContext(ctx context.Context) (model.Identity, bool) {
	who, ok := ctx.Value(ctxKey{}).(model.Identity)
	return who, ok
}
