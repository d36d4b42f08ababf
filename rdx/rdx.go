package rdx

import (
	"log"
	"os"
	"time"

	"refurb/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := Conn.Ping(globals.Ctx).Err(); err != nil {
		// cart persistence falls back to the file store, caches are skipped
		log.Printf("Redis unavailable at %s: %v", addr, err)
	}
}

// SetCache stores a value with a TTL; errors are logged, not returned.
func SetCache(key, value string, ttl time.Duration) {
	if err := Conn.Set(globals.Ctx, key, value, ttl).Err(); err != nil {
		log.Println("Redis SET error:", err)
	}
}

// GetCache returns the cached value, or "" on miss or error.
func GetCache(key string) string {
	val, err := Conn.Get(globals.Ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Println("Redis GET error:", err)
		}
		return ""
	}
	return val
}

func DelCache(key string) {
	if err := Conn.Del(globals.Ctx, key).Err(); err != nil {
		log.Println("Redis DEL error:", err)
	}
}
