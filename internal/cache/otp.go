package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vahub-dev/marketplace/backend/internal/config"
)

// OTPStore keeps one-time codes in redis with a ttl.
type OTPStore struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewOTPStore(cfg *config.Config, rdb *redis.Client) *OTPStore {
	return &OTPStore{
		rdb:     rdb,
		timeout: time.Duration(cfg.Redis.OperationTimeout) * time.Second,
	}
}

func (s *OTPStore) Set(ctx context.Context, key string, otp string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.rdb.Set(ctx, key, otp, ttl).Err()
}

// Get returns redis.Nil when the code expired or never existed.
func (s *OTPStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.rdb.Get(ctx, key).Result()
}

func (s *OTPStore) Del(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.rdb.Del(ctx, key).Err()
}
