package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// RedisStore keeps snapshots as JSON strings in Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewRedisStore connects to the Redis server at url. A ttl of zero keeps
// snapshots until deleted.
func NewRedisStore(url string, ttl time.Duration, logger logrus.FieldLogger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return NewRedisStoreWithClient(redis.NewClient(opts), ttl, logger), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, log: logging.OrDiscard(logger), now: time.Now}
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Key returns the Redis key for id.
func (s *RedisStore) Key(id string) string {
	return fmt.Sprintf("snapshot:resume:%s", id)
}

func (s *RedisStore) Save(ctx context.Context, id string, record *types.ResumeRecord) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	data, err := Encode(id, record, s.now())
	if err != nil {
		return "", err
	}
	key := s.Key(id)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.log.WithFields(logrus.Fields{"document_id": id, "key": key}).Info("Saved snapshot")
	return key, nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return Decode(data)
}

func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := ValidateID(id); err != nil {
		return false, err
	}
	n, err := s.client.Exists(ctx, s.Key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check snapshot: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.Key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
