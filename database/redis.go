package database

import (
	"context"
	"log"
	"time"

	"seenaf/config"

	"github.com/redis/go-redis/v9"
)

// RDB stays nil when REDIS_ADDR is unset. Leaderboard caching and wrong
// attempt throttling degrade to direct reads and no cooldowns in that case;
// the submission flow itself never depends on Redis.
var RDB *redis.Client
var Ctx = context.Background()

// InitRedis connects the optional Redis client
func InitRedis() {
	if config.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, leaderboard cache and submission throttling disabled")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Redis connection established")
}
