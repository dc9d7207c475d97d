package storage

import (
	"log"

	"github.com/go-redis/redis/v8"
)

// NewRedis builds the client used for refresh-token storage.
func NewRedis(addr string) *redis.Client {
	if addr == "" {
		addr = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	return redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
}
