package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps each user's entries in one hash, field per data type.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository builds a Redis-backed dashboard repository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func hashKey(userID int64) string {
	return "dashboard:" + strconv.FormatInt(userID, 10)
}

// Get reads one field.
func (r *RedisRepository) Get(ctx context.Context, userID int64, dataType string) (Data, error) {
	raw, err := r.client.HGet(ctx, hashKey(userID), dataType).Bytes()
	if errors.Is(err, redis.Nil) {
		return Data{}, ErrNotFound
	}
	if err != nil {
		return Data{}, fmt.Errorf("dashboard: hget: %w", err)
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("dashboard: decode: %w", err)
	}
	return d, nil
}

// List reads the whole hash.
func (r *RedisRepository) List(ctx context.Context, userID int64) ([]Data, error) {
	fields, err := r.client.HGetAll(ctx, hashKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("dashboard: hgetall: %w", err)
	}
	out := make([]Data, 0, len(fields))
	for _, raw := range fields {
		var d Data
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("dashboard: decode: %w", err)
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Put writes one field inside a WATCH transaction so the created timestamp
// and id survive concurrent updates.
func (r *RedisRepository) Put(ctx context.Context, userID int64, dataType string, data []byte) (Data, error) {
	key := hashKey(userID)
	var saved Data
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		now := time.Now().UTC()
		d := Data{ID: uuid.NewString(), UserID: userID, DataType: dataType, CreatedAt: now}
		raw, err := tx.HGet(ctx, key, dataType).Bytes()
		switch {
		case err == nil:
			var prev Data
			if err := json.Unmarshal(raw, &prev); err == nil {
				d.ID, d.CreatedAt = prev.ID, prev.CreatedAt
			}
		case !errors.Is(err, redis.Nil):
			return err
		}
		d.Data = json.RawMessage(data)
		d.UpdatedAt = now

		encoded, err := json.Marshal(d)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, key, dataType, encoded)
			return nil
		})
		saved = d
		return err
	}, key)
	if err != nil {
		return Data{}, fmt.Errorf("dashboard: put: %w", err)
	}
	return saved, nil
}

// Delete removes one field.
func (r *RedisRepository) Delete(ctx context.Context, userID int64, dataType string) error {
	n, err := r.client.HDel(ctx, hashKey(userID), dataType).Result()
	if err != nil {
		return fmt.Errorf("dashboard: hdel: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
