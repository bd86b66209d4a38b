package browser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// URLAllowlist restricts which URLs agents may navigate to.
//
// Patterns are globs over "scheme://host/path" with '/' as separator, so "*"
// stays within one path segment or host label run and "**" spans segments.
// Query strings and fragments are not matched.
type URLAllowlist struct {
	patterns []glob.Glob
	raw      []string
}

// NewURLAllowlist compiles patterns. An empty list allows every http(s) URL.
func NewURLAllowlist(patterns []string) (*URLAllowlist, error) {
	a := &URLAllowlist{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid URL pattern %q: %w", p, err)
		}
		a.patterns = append(a.patterns, g)
		a.raw = append(a.raw, p)
	}
	return a, nil
}

// Check returns nil when rawURL may be visited.
func (a *URLAllowlist) Check(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", rawURL)
	}

	if a == nil || len(a.patterns) == 0 {
		return nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	target := u.Scheme + "://" + strings.ToLower(u.Host) + path

	for _, g := range a.patterns {
		if g.Match(target) {
			return nil
		}
	}
	return fmt.Errorf("navigation to %s is not allowed (allowed: %s)", target, strings.Join(a.raw, ", "))
}

// Patterns returns the configured patterns.
func (a *URLAllowlist) Patterns() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.raw...)
}
