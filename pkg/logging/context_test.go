package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)

	FromContext(ctx).Info().Msg("carried through context")
	assert.True(t, tl.Contains("carried through context"))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck // nil ctx fallback is part of the contract
}

func TestWithLoggerNilUsesDefault(t *testing.T) {
	ctx := WithLogger(context.Background(), nil)
	require.NotNil(t, FromContext(ctx))
	assert.Equal(t, Default(), FromContext(ctx))
}

func TestCtxAlias(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)
	assert.Equal(t, FromContext(ctx), Ctx(ctx))
}
