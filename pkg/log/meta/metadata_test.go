package meta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeginIsIdempotent(t *testing.T) {
	ctx := Begin(context.Background())
	assert.Equal(t, ctx, Begin(ctx))
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))

	ctx := Begin(context.Background())
	WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))

	// child contexts share the same carrier
	child, cancel := context.WithCancel(ctx)
	defer cancel()
	WithValue(child, "k", 1)
	assert.Equal(t, 1, Value(ctx, "k"))
}
