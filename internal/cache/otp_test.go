package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/vahub-dev/marketplace/backend/internal/config"
)

func TestOTPStoreSurfacesConnectionErrors(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.OperationTimeout = 1

	// nothing listens on port 1
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer rdb.Close()

	store := NewOTPStore(cfg, rdb)
	ctx := context.Background()

	assert.Error(t, store.Set(ctx, "otp_a_reset_password", "123456", time.Minute))
	_, err := store.Get(ctx, "otp_a_reset_password")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, redis.Nil)
	assert.Error(t, store.Del(ctx, "otp_a_reset_password"))
}

func TestOTPStoreTimeoutFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.OperationTimeout = 5

	store := NewOTPStore(cfg, redis.NewClient(&redis.Options{}))
	assert.Equal(t, 5*time.Second, store.timeout)
}
