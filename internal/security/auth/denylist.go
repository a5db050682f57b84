package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yourorg/roomreserve/internal/infrastructure/redis"
	"github.com/yourorg/roomreserve/internal/reliability/circuitbreaker"
)

// Denylist records revoked token IDs in Redis until their natural expiry.
// Logout writes an entry; the auth middleware checks it on every protected
// request. Lookups go through a circuit breaker: when Redis is down the
// check fails open (token accepted) so an outage cannot lock everyone out,
// and the event is logged.
type Denylist struct {
	redis   *redis.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewDenylist creates a denylist backed by the given Redis client.
func NewDenylist(redisClient *redis.Client, logger *slog.Logger) *Denylist {
	if logger == nil {
		logger = slog.Default()
	}
	return &Denylist{
		redis:   redisClient,
		breaker: circuitbreaker.New(5, 2, 30*time.Second),
		logger:  logger,
	}
}

func denyKey(tokenID string) string {
	return "denylist:" + tokenID
}

// Revoke marks a token ID as revoked until expiresAt.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // already expired, nothing to record
	}
	if err := d.redis.Set(ctx, denyKey(tokenID), "revoked", ttl); err != nil {
		d.breaker.RecordFailure()
		return err
	}
	d.breaker.RecordSuccess()
	return nil
}

// IsRevoked reports whether a token ID has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return false
	}
	if !d.breaker.Allow() {
		d.logger.Warn("denylist check skipped, circuit open", slog.String("token_id", tokenID))
		return false
	}

	revoked, err := d.redis.Exists(ctx, denyKey(tokenID))
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			d.breaker.RecordFailure()
			d.logger.Error("denylist lookup failed", slog.String("error", err.Error()))
		}
		return false
	}

	d.breaker.RecordSuccess()
	return revoked
}
