package testing

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// NewMiniRedisClient starts an in-memory redis server for the test and
// returns a client connected to it. Both are closed on test cleanup.
func NewMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
		DB:   0,
	})
	t.Cleanup(func() {
		if err := rdb.Close(); err != nil {
			t.Logf("close miniredis client: %s", err)
		}
	})

	return mr, rdb
}
