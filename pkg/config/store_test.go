package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		store, err := NewFileStore(path)
		require.NoError(t, err)

		assert.Equal(t, path, store.Path())
		assert.False(t, store.IsModified())
		all, err := store.GetAll()
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("default path", func(t *testing.T) {
		store, err := NewFileStore("")
		require.NoError(t, err)

		want, err := DefaultPath()
		require.NoError(t, err)
		assert.Equal(t, want, store.Path())
		assert.Equal(t, ".pyforge", filepath.Base(filepath.Dir(want)))
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		body := `{"version":"1.0","sections":{"llm":{"provider":"gemini"}}}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0600))

		store, err := NewFileStore(path)
		require.NoError(t, err)
		data, err := store.GetSection("llm")
		require.NoError(t, err)
		assert.Equal(t, "gemini", data["provider"])
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		_, err := NewFileStore(path)
		assert.ErrorContains(t, err, "decode")
	})
}

func TestFileStore_SaveRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "config.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetSection("browser", map[string]interface{}{"headless": true}))
	assert.True(t, store.IsModified())

	require.NoError(t, store.Save())
	assert.False(t, store.IsModified())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded fileFormat
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, configVersion, decoded.Version)
	assert.Equal(t, true, decoded.Sections["browser"]["headless"])

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	data, err := reloaded.GetSection("browser")
	require.NoError(t, err)
	assert.Equal(t, true, data["headless"])
}

func TestFileStore_CopiesData(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "c.json"))
	require.NoError(t, err)

	input := map[string]interface{}{"k": "v"}
	require.NoError(t, store.SetSection("s", input))
	input["k"] = "changed"

	got, err := store.GetSection("s")
	require.NoError(t, err)
	assert.Equal(t, "v", got["k"])

	got["k"] = "mutated"
	again, err := store.GetSection("s")
	require.NoError(t, err)
	assert.Equal(t, "v", again["k"])

	require.NoError(t, store.SetAll(map[string]map[string]interface{}{"other": {"x": 1}}))
	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, "other")
}
