package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryDenylist is a process-local Denylist. Revocations are lost on restart
// and are not shared between instances.
type MemoryDenylist struct {
	entries *cache.Cache
	now     func() time.Time
}

// NewMemoryDenylist creates a MemoryDenylist that purges expired entries every cleanup interval.
func NewMemoryDenylist(cleanup time.Duration) *MemoryDenylist {
	return &MemoryDenylist{
		entries: cache.New(cache.NoExpiration, cleanup),
		now:     time.Now,
	}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	d.entries.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, found := d.entries.Get(tokenID)
	return found, nil
}
