// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPreservesOrder(t *testing.T) {
	ctx := context.Background()
	var h Memory

	all, err := h.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, p := range []string{"first", "second", "third"} {
		require.NoError(t, h.Append(ctx, p))
	}
	all, err = h.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, all)
}

func TestMemoryAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	h := NewMemory(0)
	require.NoError(t, h.Append(ctx, "original"))

	all, _ := h.All(ctx)
	all[0] = "changed"

	again, _ := h.All(ctx)
	assert.Equal(t, []string{"original"}, again)
}

func TestMemoryUnboundedByDefault(t *testing.T) {
	ctx := context.Background()
	h := NewMemory(0)
	for i := range 1000 {
		require.NoError(t, h.Append(ctx, fmt.Sprintf("p%d", i)))
	}
	assert.Equal(t, 1000, h.Len())
}

func TestMemoryMaxKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	h := NewMemory(2)
	for _, p := range []string{"a", "b", "c", "d"} {
		require.NoError(t, h.Append(ctx, p))
	}
	all, _ := h.All(ctx)
	assert.Equal(t, []string{"c", "d"}, all)
}

func TestMemoryConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	h := NewMemory(0)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Append(ctx, fmt.Sprintf("p%d", i))
			_, _ = h.All(ctx)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, h.Len())
}
