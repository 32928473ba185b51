package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Manager caches resolved viewer sessions in Redis, keyed by token digest.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Manager{client: client, ttl: ttl}
}

// Lookup returns the cached session for a token and stored-blob pair, or nil
// on a miss. The blob participates in the key: a changed session blob must
// re-resolve, never inherit the identity cached for an earlier blob. Redis
// errors degrade to a miss: resolution is cheap enough to redo.
func (m *Manager) Lookup(ctx context.Context, token string, storedBlob []byte) (*ViewerSession, error) {
	if m.client == nil {
		return nil, nil
	}
	data, err := m.client.Get(ctx, m.key(token, storedBlob)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, nil
	}

	var s ViewerSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal viewer session: %w", err)
	}
	return &s, nil
}

// Store caches a resolved session under the token and blob it was resolved
// from.
func (m *Manager) Store(ctx context.Context, token string, storedBlob []byte, s *ViewerSession) error {
	if m.client == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal viewer session: %w", err)
	}
	return m.client.Set(ctx, m.key(token, storedBlob), data, m.ttl).Err()
}

// Invalidate drops the cached session for a token and blob pair.
func (m *Manager) Invalidate(ctx context.Context, token string, storedBlob []byte) error {
	if m.client == nil {
		return nil
	}
	return m.client.Del(ctx, m.key(token, storedBlob)).Err()
}

func (m *Manager) key(token string, storedBlob []byte) string {
	h := sha256.New()
	h.Write([]byte(token))
	h.Write([]byte{0})
	h.Write(storedBlob)
	return "session:viewer:" + hex.EncodeToString(h.Sum(nil))
}
