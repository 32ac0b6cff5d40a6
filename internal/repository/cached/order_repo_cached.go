// Package cached decorates an OrderRepository with a short-id lookup cache.
package cached

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/text/width"

	"github.com/ri4re/linebot/internal/domain"
	"github.com/ri4re/linebot/internal/repository"
)

const keyPrefix = "orders:shortid:"

// Store is the key/value surface the cache needs. A miss is ("", false, nil).
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

var _ Store = (*RedisStore)(nil)

type orderRepo struct {
	repository.OrderRepository
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewOrderRepository serves FindIDByShortID from store and delegates everything else.
// A short id never moves to another page, so entries only expire through ttl.
func NewOrderRepository(inner repository.OrderRepository, store Store, ttl time.Duration, logger *zap.Logger) repository.OrderRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &orderRepo{OrderRepository: inner, store: store, ttl: ttl, logger: logger}
}

func (r *orderRepo) FindIDByShortID(ctx context.Context, shortID string) (string, error) {
	key, ok := cacheKey(shortID)
	if !ok {
		return r.OrderRepository.FindIDByShortID(ctx, shortID)
	}

	id, hit, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warn("short id cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return id, nil
	}

	id, err = r.OrderRepository.FindIDByShortID(ctx, shortID)
	if err != nil || id == "" {
		return id, err
	}
	if err := r.store.Set(ctx, key, id, r.ttl); err != nil {
		r.logger.Warn("short id cache write failed", zap.String("key", key), zap.Error(err))
	}
	return id, nil
}

// Create primes the cache with the id the store just assigned.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	created, err := r.OrderRepository.Create(ctx, order)
	if err != nil || created == nil || created.ShortID == 0 {
		return created, err
	}
	key := keyPrefix + strconv.Itoa(created.ShortID)
	if err := r.store.Set(ctx, key, created.ID, r.ttl); err != nil {
		r.logger.Warn("short id cache write failed", zap.String("key", key), zap.Error(err))
	}
	return created, nil
}

func cacheKey(shortID string) (string, bool) {
	var b strings.Builder
	for _, c := range width.Narrow.String(shortID) {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return "", false
	}
	return keyPrefix + strconv.Itoa(n), true
}
