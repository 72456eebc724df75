package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestClaim_EmptyKey(t *testing.T) {
	c := NewFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	defer c.Close()

	_, err := c.Claim(context.Background(), "", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, c.Release(context.Background(), ""), ErrEmptyKey)
}

func TestNew_Unreachable(t *testing.T) {
	_, err := New(Config{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
