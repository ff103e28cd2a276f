// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-companion/pkg/types"
)

func TestReferenceFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.yaml")
	year := 2020
	doc, ok := types.NewReferenceDocument("Pollinators", "Bees matter.", []string{"Jane Doe"}, &year, 7)
	require.True(t, ok)

	res := Result{Documents: []types.ReferenceDocument{doc}, Query: "bees pollinators", Discarded: 1}
	require.NoError(t, WriteReferenceFile(path, "Why are bees declining?", res))

	rf, err := ReadReferenceFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Why are bees declining?", rf.Problem)
	assert.Equal(t, "bees pollinators", rf.Query)
	assert.Equal(t, 1, rf.Summary.Total)
	assert.Equal(t, 1, rf.Summary.Discarded)
	require.Len(t, rf.Documents, 1)
	assert.Equal(t, doc, rf.Documents[0])
}

func TestReferenceFileRecordsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.yaml")
	require.NoError(t, WriteReferenceFile(path, "p", Result{Err: errors.New("timeout")}))

	rf, err := ReadReferenceFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timeout", rf.Summary.Error)
	assert.Empty(t, rf.Documents)
}

func TestReadReferenceFileRebuildsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.yaml")
	content := `problem: p
documents:
  - title: Hand Written
    abstract: Edited by a person.
    text: stale
  - title: ""
    abstract: ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rf, err := ReadReferenceFile(path)
	require.NoError(t, err)
	require.Len(t, rf.Documents, 1)
	assert.Equal(t, "Hand Written. Edited by a person.", rf.Documents[0].Text)
	assert.NotNil(t, rf.Documents[0].Authors)
}

func TestReadReferenceFileErrors(t *testing.T) {
	_, err := ReadReferenceFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documents: [unclosed"), 0o644))
	_, err = ReadReferenceFile(path)
	assert.Error(t, err)
}
