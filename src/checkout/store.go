package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the durability boundary for checkout sessions. Writes are
// best-effort: a crash between a mutation and its save loses that mutation,
// and the next load re-derives from whatever was last written.
type Store interface {
	Load(ctx context.Context, key string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, key string) error
}

const storagePrefix = "checkout-storage"

func storageKey(key string) string {
	return fmt.Sprintf("%s:%s", storagePrefix, key)
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Load returns the persisted session for the key, or a fresh one when
// nothing is stored yet. The returned session is marked hydrated.
func (s *RedisStore) Load(ctx context.Context, key string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, storageKey(key)).Result()
	if err == redis.Nil {
		return NewSession(key), nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, err
	}
	sess.Key = key
	sess.markHydrated()
	return &sess, nil
}

// Save writes the persisted subset of the session (transient fields are
// excluded by serialization) under the checkout storage key.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, storageKey(sess.Key), raw, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, storageKey(key)).Err()
}

// SessionKeys lists the storage keys of every persisted session, used on
// boot to rearm countdown watchers.
func (s *RedisStore) SessionKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, storagePrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(storagePrefix)+1:])
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
