package neat

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestContext_RoundTrip(t *testing.T) {
	opts := validOptions()
	ctx := NewContext(context.Background(), opts)

	stored, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, opts, stored)
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}
