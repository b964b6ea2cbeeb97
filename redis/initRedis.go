package redisclient

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	RedisClient *redis.Client
	Ctx         = context.Background()
)

// InitRedis connects the global client used by the store. Configuration
// comes from REDIS_HOST, REDIS_PORT and REDIS_DB; it retries because the
// declaration store usually starts alongside redis itself.
func InitRedis() {
	addr := fmt.Sprintf("%s:%s", envOr("REDIS_HOST", "localhost"), envOr("REDIS_PORT", "6379"))

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("❌ Invalid REDIS_DB value %q: %v", v, err)
		}
		db = parsed
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		if _, err := RedisClient.Ping(Ctx).Result(); err == nil {
			log.Printf("✅ Connected to Redis at %s", addr)
			return
		} else {
			log.Printf("⚠️ Attempt %d: Failed to connect to Redis: %v", i+1, err)
		}
		if i < maxRetries-1 {
			time.Sleep(5 * time.Second)
		}
	}
	log.Fatalf("❌ Failed to connect to Redis at %s after %d attempts", addr, maxRetries)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
