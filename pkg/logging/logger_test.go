package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempLogDir points the package at a temp directory with a fresh session
// and restores the previous globals when the test ends.
func useTempLogDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	origLogDir, origInitErr := logDir, initErr
	origSessionID := sessionID
	origLevel := CurrentLevel()

	logDir = dir
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir, initErr = origLogDir, origInitErr
		initOnce = sync.Once{}
		sessionID = origSessionID
		sessionIDOnce = sync.Once{}
		SetLevel(origLevel)
	})
	return dir
}

func readLog(t *testing.T, l *Logger) string {
	t.Helper()
	content, err := os.ReadFile(l.LogPath())
	require.NoError(t, err)
	return string(content)
}

func TestNewLogger(t *testing.T) {
	dir := useTempLogDir(t)

	logger, err := NewLogger("codegen")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "codegen", logger.Component())
	assert.NotEmpty(t, logger.SessionID())
	assert.Equal(t, dir, filepath.Dir(logger.LogPath()))
	assert.FileExists(t, logger.LogPath())

	name := filepath.Base(logger.LogPath())
	assert.True(t, strings.HasSuffix(name, "-pyforge.log"), name)
	assert.Equal(t, logger.SessionID()+"-pyforge.log", name)
}

func TestLoggerLevels(t *testing.T) {
	useTempLogDir(t)

	logger, err := NewLogger("visualize")
	require.NoError(t, err)
	defer logger.Close()

	logger.Debugf("debug %d", 1)
	logger.Infof("info %s", "two")
	logger.Warnf("warn")
	logger.Errorf("error")

	content := readLog(t, logger)
	for _, want := range []string{
		"[visualize] [DEBUG] debug 1",
		"[visualize] [INFO] info two",
		"[visualize] [WARN] warn",
		"[visualize] [ERROR] error",
	} {
		assert.Contains(t, content, want)
	}
}

func TestSetLevelFilters(t *testing.T) {
	useTempLogDir(t)
	SetLevel(LevelWarn)

	logger, err := NewLogger("agent")
	require.NoError(t, err)
	defer logger.Close()

	logger.Debugf("hidden debug")
	logger.Infof("hidden info")
	logger.Warnf("shown warn")

	content := readLog(t, logger)
	assert.NotContains(t, content, "hidden")
	assert.Contains(t, content, "shown warn")
}

func TestComponentsShareSessionFile(t *testing.T) {
	useTempLogDir(t)

	a, err := NewLogger("navigator")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewLogger("viewer")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.SessionID(), b.SessionID())
	assert.Equal(t, a.LogPath(), b.LogPath())

	a.Infof("from a")
	b.Infof("from b")

	content := readLog(t, a)
	assert.Contains(t, content, "[navigator]")
	assert.Contains(t, content, "[viewer]")
}

func TestFallbackWhenDirectoryUnusable(t *testing.T) {
	dir := useTempLogDir(t)
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	logDir = filepath.Join(blocker, "logs")

	logger, err := NewLogger("cli")
	require.Error(t, err)
	require.NotNil(t, logger)
	assert.Empty(t, logger.LogPath())
	assert.Equal(t, os.Stderr, logger.Writer())
	assert.NoError(t, logger.Close())
}

func TestLoggerCloseTwice(t *testing.T) {
	useTempLogDir(t)

	logger, err := NewLogger("test")
	require.NoError(t, err)
	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelInfo, ParseLevel("INFO"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelDebug, ParseLevel("nonsense"))
	assert.Equal(t, "WARN", LevelWarn.String())
}

func TestGetSessionIDStable(t *testing.T) {
	useTempLogDir(t)
	assert.Equal(t, GetSessionID(), GetSessionID())
	assert.NotEmpty(t, GetSessionID())
}
