package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"

	"github.com/Kushal-Harsora/questionaire/conf"
)

// RevocationStore remembers token IDs that must no longer be accepted.
type RevocationStore interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
	Close() error
}

func NewRevocationStore(cfg conf.Revocation) (RevocationStore, error) {
	switch cfg.Driver {
	case conf.MemoryRevocation:
		return NewMemoryRevocationStore(), nil
	case conf.RedisRevocation:
		return NewRedisRevocationStore(cfg)
	default:
		return nil, errors.New("driver not supported")
	}
}

type memoryRevocationStore struct {
	store *cache.Cache
}

func NewMemoryRevocationStore() RevocationStore {
	return &memoryRevocationStore{
		store: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (s *memoryRevocationStore) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	s.store.Set(id, struct{}{}, ttl)
	return nil
}

func (s *memoryRevocationStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	_, found := s.store.Get(id)
	return found, nil
}

func (s *memoryRevocationStore) Close() error {
	s.store.Flush()
	return nil
}

const redisKeyPrefix = "questionaire:revoked:"

type redisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(cfg conf.Revocation) (RevocationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &redisRevocationStore{client}, nil
}

func (s *redisRevocationStore) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	return s.client.Set(ctx, redisKeyPrefix+id, 1, ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (s *redisRevocationStore) Close() error {
	return s.client.Close()
}
