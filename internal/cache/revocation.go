package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "blacklist:"

// RevocationList records revoked token ids until the tokens would have expired anyway.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList wraps client. A nil client yields nil.
func NewRevocationList(client *redis.Client) *RevocationList {
	if client == nil {
		return nil
	}
	return &RevocationList{client: client}
}

// Revoke marks jti as revoked for ttl. Non-positive ttls are a no-op: the token is already expired.
func (r *RevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether jti has been revoked.
func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
