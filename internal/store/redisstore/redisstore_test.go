package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store/storetest"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		prefix := fmt.Sprintf("diario:test:%d", time.Now().UnixNano())

		rdb := redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			t.Skipf("redis unreachable: %v", err)
		}
		t.Cleanup(func() {
			c := redis.NewClient(&redis.Options{Addr: addr})
			defer c.Close()
			keys, _ := c.Keys(ctx, prefix+":*").Result()
			if len(keys) > 0 {
				c.Del(ctx, keys...)
			}
		})
		return NewWithClient(rdb, prefix)
	})
}

func TestKeys(t *testing.T) {
	s := NewWithClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "").(*redisStore)
	defer s.Close()

	if got := s.jobKey("abc", "lesson_1"); got != "diario:jobs:abc:lesson_1" {
		t.Errorf("jobKey() = %q", got)
	}
	if got := s.ownerKey("abc"); got != "diario:jobs:abc" {
		t.Errorf("ownerKey() = %q", got)
	}
}
