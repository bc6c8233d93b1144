package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/saveplan/internal/common"
)

func TestCache_UnreachableServerIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewWithClient(client, common.NewSilentLogger())
	defer cache.Close()

	_, ok := cache.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Error(t, cache.Set(context.Background(), "k", "v", time.Minute))
}
