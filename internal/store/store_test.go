// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-companion/internal/history"
	"github.com/pdiddy/research-companion/internal/reference"
	"github.com/pdiddy/research-companion/pkg/types"
)

var (
	_ reference.Cache = (*Store)(nil)
	_ history.History = (*Store)(nil)
)

func openTestStore(t *testing.T, cfg types.StoreConfig) *Store {
	t.Helper()
	s, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func doc(t *testing.T, title, abstract string, year *int) types.ReferenceDocument {
	t.Helper()
	d, ok := types.NewReferenceDocument(title, abstract, []string{"Jane Doe", "John Roe"}, year, 3)
	require.True(t, ok)
	return d
}

func TestStoreCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, types.StoreConfig{})

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	year := 2021
	docs := []types.ReferenceDocument{
		doc(t, "Pollinators", "Bees matter.", &year),
		doc(t, "", "Only abstract.", nil),
	}
	require.NoError(t, s.Put(ctx, "k", docs))

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, docs, got)
}

func TestStoreCacheEmptyResultIsHit(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, types.StoreConfig{})

	require.NoError(t, s.Put(ctx, "k", nil))
	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestStoreCacheLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, types.StoreConfig{})

	require.NoError(t, s.Put(ctx, "k", []types.ReferenceDocument{doc(t, "A", "a", nil), doc(t, "B", "b", nil)}))
	require.NoError(t, s.Put(ctx, "k", []types.ReferenceDocument{doc(t, "C", "c", nil)}))

	got, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].Title)
}

func TestStoreHistory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, types.StoreConfig{})

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, p := range []string{"one", "two", "three"} {
		require.NoError(t, s.Append(ctx, p))
	}
	all, err = s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, all)
	assert.Equal(t, 3, s.Len())
}

func TestStoreHistoryMax(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, types.StoreConfig{MaxHistory: 2})

	for _, p := range []string{"one", "two", "three"} {
		require.NoError(t, s.Append(ctx, p))
	}
	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three"}, all)
}

func TestStoreInMemoryDatabasesArePrivate(t *testing.T) {
	ctx := context.Background()
	a := openTestStore(t, types.StoreConfig{})
	b := openTestStore(t, types.StoreConfig{})

	require.NoError(t, a.Append(ctx, "only in a"))
	all, err := b.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStoreFilePersists(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "companion.db")

	s, err := Open(types.StoreConfig{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, "kept"))
	require.NoError(t, s.Put(ctx, "k", []types.ReferenceDocument{doc(t, "T", "A", nil)}))
	require.NoError(t, s.Close())

	s = openTestStore(t, types.StoreConfig{DSN: dsn})
	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, all)

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, got, 1)
}
