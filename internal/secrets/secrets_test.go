// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Store
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "ncbi-api-key", "  nk_abc123  \n")
				writeFile(t, dir, "gemini-api-key", "gk_xyz789")
				writeFile(t, dir, "ncbi-email", "user@example.com\n")
				return dir
			},
			want: Store{
				"ncbi-api-key":   "nk_abc123",
				"gemini-api-key": "gk_xyz789",
				"ncbi-email":     "user@example.com",
			},
		},
		{
			name: "returns empty store for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Store{},
		},
		{
			name: "skips empty files and dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "database-url", "postgres://localhost/tox")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, ".gitkeep", "x")
				return dir
			},
			want: Store{
				"database-url": "postgres://localhost/tox",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	s := Store{"gemini-api-key": "from-file"}

	assert.Equal(t, "explicit", s.Resolve("explicit", "TOXASSESS_TEST_KEY", "gemini-api-key"))

	t.Setenv("TOXASSESS_TEST_KEY", "from-env")
	assert.Equal(t, "from-env", s.Resolve("", "TOXASSESS_TEST_KEY", "gemini-api-key"))

	os.Unsetenv("TOXASSESS_TEST_KEY")
	assert.Equal(t, "from-file", s.Resolve("", "TOXASSESS_TEST_KEY", "gemini-api-key"))
	assert.Equal(t, "", s.Resolve("", "TOXASSESS_TEST_KEY", "missing"))
}
