package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// CheckMutationAttempt limits privilege mutations per actor and target to
// keep runaway admin tooling from hammering the legacy update endpoint.
// Allows up to 10 attempts per minute.
func (r *RateLimiter) CheckMutationAttempt(ctx context.Context, actorID, targetEmail string) (bool, int64, error) {
	if r.client == nil {
		return true, 0, nil
	}
	key := fmt.Sprintf("ratelimit:privmut:%s:%s", actorID, targetEmail)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment mutation attempt: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, time.Minute)
	}

	maxAttempts := int64(10)
	remaining := maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= maxAttempts, remaining, nil
}

// ResetMutationAttempts clears the counter for an actor/target pair.
func (r *RateLimiter) ResetMutationAttempts(ctx context.Context, actorID, targetEmail string) error {
	if r.client == nil {
		return nil
	}
	key := fmt.Sprintf("ratelimit:privmut:%s:%s", actorID, targetEmail)
	return r.client.Del(ctx, key).Err()
}
