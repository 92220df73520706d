// Package session keeps the list of session tokens revoked before their expiry.
// Entries live only as long as the token they revoke would have.
package session

import (
	"context"
	"time"
)

// Denylist records revoked token IDs until the moment the token would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
