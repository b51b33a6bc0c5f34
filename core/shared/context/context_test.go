package context_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedctx "github.com/hyperterse/sqlgeneric/core/shared/context"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, sharedctx.GetRequestID(ctx))

	ctx = sharedctx.WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", sharedctx.GetRequestID(ctx))
}

func TestGenerateRequestID(t *testing.T) {
	id := sharedctx.GenerateRequestID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, sharedctx.GenerateRequestID())
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := sharedctx.EnsureRequestID(context.Background())
	require.NotEmpty(t, id)
	assert.Equal(t, id, sharedctx.GetRequestID(ctx))

	same, sameID := sharedctx.EnsureRequestID(ctx)
	assert.Equal(t, id, sameID)
	assert.Equal(t, ctx, same)
}

func TestTemplateAndDebug(t *testing.T) {
	ctx := context.Background()
	assert.False(t, sharedctx.IsDebug(ctx))
	assert.Empty(t, sharedctx.GetTemplate(ctx))

	ctx = sharedctx.WithDebug(sharedctx.WithTemplate(ctx, "heroes"), true)
	assert.True(t, sharedctx.IsDebug(ctx))
	assert.Equal(t, "heroes", sharedctx.GetTemplate(ctx))
}
