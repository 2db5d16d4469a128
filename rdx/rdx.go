package rdx

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is the process-wide Redis client. The cache is advisory: every error
// below degrades to a miss or a no-op, so handlers never fail because Redis
// is down.
var Conn *redis.Client

// DefaultTTL is used when callers don't need anything special. Trending or
// otherwise time-sensitive reads pass a shorter TTL.
const DefaultTTL = 30 * time.Minute

func Init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := Conn.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis unreachable at %s, caching disabled: %v", addr, err)
	} else {
		log.Println("Redis connection established")
	}
}

// GetJSON reads key and unmarshals it into dest. Returns false on miss,
// backend error or undecodable payload.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if Conn == nil {
		return false
	}
	val, err := Conn.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		log.Printf("cache: bad payload at %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON stores val under key with the given TTL, best effort.
func SetJSON(ctx context.Context, key string, val interface{}, ttl time.Duration) {
	if Conn == nil {
		return
	}
	jsonBytes, err := json.Marshal(val)
	if err != nil {
		log.Printf("cache: marshal failed for %s: %v", key, err)
		return
	}
	if err := Conn.Set(ctx, key, jsonBytes, ttl).Err(); err != nil {
		log.Printf("cache: set failed for %s: %v", key, err)
	}
}

// Invalidate deletes every key matching the wildcard pattern. Writes clear
// the whole collection prefix rather than single keys.
func Invalidate(ctx context.Context, pattern string) {
	if Conn == nil {
		return
	}
	iter := Conn.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := Conn.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("cache: delete failed for %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache: scan failed for %s: %v", pattern, err)
	}
}
