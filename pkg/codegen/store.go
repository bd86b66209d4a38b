package codegen

import (
	"sync"

	"github.com/entrhq/pyforge/pkg/types"
)

// Store holds the most recent successful artifact for one interactive
// session. A failed generation never reaches the store, so the previous
// artifact stays available.
type Store struct {
	artifact *types.GeneratedArtifact
	mu       sync.RWMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Put replaces the stored artifact. Artifacts without code are ignored.
func (s *Store) Put(artifact *types.GeneratedArtifact) {
	if !artifact.HasCode() {
		return
	}
	s.mu.Lock()
	s.artifact = artifact
	s.mu.Unlock()
}

// Latest returns the stored artifact, or nil when none exists.
func (s *Store) Latest() *types.GeneratedArtifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifact
}

// Code returns the stored normalized code, or "" when none exists.
func (s *Store) Code() string {
	if a := s.Latest(); a != nil {
		return a.NormalizedCode
	}
	return ""
}
