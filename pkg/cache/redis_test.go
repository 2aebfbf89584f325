package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNamespaced(t *testing.T) {
	assert.Equal(t, "cocina:grpc:summary_table:r3", namespaced("cocina", "grpc:summary_table:r3"))
	assert.Equal(t, "grpc:summary_table:r3", namespaced("", "grpc:summary_table:r3"))
}

func TestNop(t *testing.T) {
	var c Nop
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", 1, time.Minute))

	var dest int
	assert.ErrorIs(t, c.Get(ctx, "k", &dest), redis.Nil)
	assert.NoError(t, c.Close())
}

func TestNew_UnreachableRedis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	c, err := New(ctx, WithAddress("127.0.0.1:1"))

	assert.Error(t, err)
	assert.Nil(t, c)
}
