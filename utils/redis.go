package utils

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects the shared Redis client. Redis is optional: when
// REDIS_ADDR is unset, token blacklisting and caching silently no-op.
func InitRedis() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("ℹ️ REDIS_ADDR not set, Redis features disabled")
		return nil
	}

	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		RedisClient = nil
		return err
	}

	log.Println("✅ Redis connected")
	return nil
}

// BlacklistToken stores a logged-out access token until it would have expired.
func BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(ctx, "blacklist:"+token, "1", ttl).Err()
}

// IsTokenBlacklisted reports whether an access token has been logged out.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if RedisClient == nil {
		return false
	}
	n, err := RedisClient.Exists(ctx, "blacklist:"+token).Result()
	return err == nil && n > 0
}

// CacheSet stores a serialized payload under key with a TTL.
func CacheSet(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(ctx, key, payload, ttl).Err()
}

// CacheGet returns the cached payload for key, or redis.Nil style miss error.
func CacheGet(ctx context.Context, key string) ([]byte, error) {
	if RedisClient == nil {
		return nil, errors.New("cache disabled")
	}
	return RedisClient.Get(ctx, key).Bytes()
}
