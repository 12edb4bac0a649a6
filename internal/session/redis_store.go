package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps each session under a key derived from its token, with a
// TTL matching the session's remaining lifetime.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

type redisRecord struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *RedisStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return redisKeyPrefix + hex.EncodeToString(sum[:])
}

// Create writes the session with SET ... PX so it disappears on expiry.
func (r *RedisStore) Create(ctx context.Context, s Session) (Session, error) {
	s = withDefaults(s)
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return Session{}, fmt.Errorf("session: expires_at must be in the future")
	}
	data, err := json.Marshal(redisRecord{ID: s.ID, UserID: s.UserID, ExpiresAt: s.ExpiresAt, CreatedAt: s.CreatedAt})
	if err != nil {
		return Session{}, fmt.Errorf("session: marshal: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.Token), data, ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("session: set: %w", err)
	}
	return s, nil
}

// FindByToken reads the session for token.
func (r *RedisStore) FindByToken(ctx context.Context, token string) (Session, error) {
	val, err := r.client.Get(ctx, r.key(token)).Bytes()
	return decodeRecord(token, val, err)
}

// Delete removes the key with GETDEL so concurrent logouts see it once.
func (r *RedisStore) Delete(ctx context.Context, token string) (Session, error) {
	val, err := r.client.GetDel(ctx, r.key(token)).Bytes()
	return decodeRecord(token, val, err)
}

// PurgeExpired is a no-op: Redis evicts keys when their TTL runs out.
func (r *RedisStore) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func decodeRecord(token string, val []byte, err error) (Session, error) {
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("session: get: %w", err)
	}
	var rec redisRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return Session{}, fmt.Errorf("session: unmarshal: %w", err)
	}
	return Session{ID: rec.ID, UserID: rec.UserID, Token: token, ExpiresAt: rec.ExpiresAt, CreatedAt: rec.CreatedAt}, nil
}
