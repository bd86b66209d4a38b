package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLAllowlist(t *testing.T) {
	a, err := NewURLAllowlist([]string{"https://trinket.io/**", "https://*.trinket.io/**", " "})
	require.NoError(t, err)
	assert.Len(t, a.Patterns(), 2)

	tests := []struct {
		url     string
		allowed bool
	}{
		{"https://trinket.io/features/pygame", true},
		{"https://trinket.io", true},
		{"https://trinket.io/embed/pygame?start=result#x", true},
		{"https://TRINKET.io/features/pygame", true},
		{"https://hourofpython.trinket.io/a/b", true},
		{"http://trinket.io/features/pygame", false},
		{"https://trinket.io.evil.com/features", false},
		{"https://example.com/", false},
		{"javascript:alert(1)", false},
		{"file:///etc/passwd", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := a.Check(tt.url)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestURLAllowlist_EmptyAllowsHTTP(t *testing.T) {
	a, err := NewURLAllowlist(nil)
	require.NoError(t, err)
	assert.NoError(t, a.Check("https://example.com/anything"))
	assert.Error(t, a.Check("ftp://example.com"))

	var nilList *URLAllowlist
	assert.NoError(t, nilList.Check("https://example.com"))
}

func TestURLAllowlist_InvalidPattern(t *testing.T) {
	_, err := NewURLAllowlist([]string{"https://[trinket.io"})
	assert.Error(t, err)
}
