package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEMINI_API_KEY=from-file\nOPENAI_API_KEY=from-file\n"), 0600))

	t.Setenv(EnvOpenAIKey, "from-shell")
	t.Setenv(EnvGeminiKey, "")
	require.NoError(t, os.Unsetenv(EnvGeminiKey))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-shell", os.Getenv(EnvOpenAIKey))
	assert.Equal(t, "from-file", os.Getenv(EnvGeminiKey))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, LoadEnvFile(""))
}
