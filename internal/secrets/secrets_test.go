// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, SemanticScholarAPIKey, "  sk_abc123  \n")
				writeFile(t, dir, OpenAIAPIKey, "oa_xyz789")
				return dir
			},
			want: map[string]string{
				SemanticScholarAPIKey: "sk_abc123",
				OpenAIAPIKey:          "oa_xyz789",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIAPIKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				OpenAIAPIKey: "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, SemanticScholarAPIKey, "pk_real")
				return dir
			},
			want: map[string]string{
				SemanticScholarAPIKey: "pk_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIAPIKey, "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				OpenAIAPIKey: "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestPick(t *testing.T) {
	loaded := map[string]string{SemanticScholarAPIKey: "from-file"}

	assert.Equal(t, "explicit", Pick(loaded, SemanticScholarAPIKey, "explicit"))
	assert.Equal(t, "from-file", Pick(loaded, SemanticScholarAPIKey, ""))
	assert.Equal(t, "", Pick(loaded, OpenAIAPIKey, ""))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "RC_TEST_DOTENV_NEW=from-file\nRC_TEST_DOTENV_SET=from-file\n")
	t.Setenv("RC_TEST_DOTENV_SET", "from-env")
	t.Cleanup(func() { os.Unsetenv("RC_TEST_DOTENV_NEW") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, ".env")))
	assert.Equal(t, "from-file", os.Getenv("RC_TEST_DOTENV_NEW"))
	assert.Equal(t, "from-env", os.Getenv("RC_TEST_DOTENV_SET"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
