package lib

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// AcquirePendingLock takes the one-shot submission lock for a checkout
// session so a double-click cannot create two transactions. Returns false
// when a submission is already in flight.
func AcquirePendingLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	rdb := GetRedisClient()
	return rdb.SetNX(ctx, "checkout-pending:"+key, "1", ttl).Result()
}

// ReleasePendingLock frees the submission lock once the attempt settled.
func ReleasePendingLock(ctx context.Context, key string) {
	rdb := GetRedisClient()
	if err := rdb.Del(ctx, "checkout-pending:"+key).Err(); err != nil {
		log.Printf("[redis] Error releasing pending lock for %s: %s\n", key, err.Error())
	}
}
