package codegen

import (
	"sync"
	"testing"

	"github.com/entrhq/pyforge/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Latest())
	assert.Empty(t, s.Code())

	first := &types.GeneratedArtifact{ID: "1", NormalizedCode: "print(1)"}
	s.Put(first)
	assert.Same(t, first, s.Latest())

	s.Put(&types.GeneratedArtifact{ID: "2", NormalizedCode: "   "})
	s.Put(nil)
	assert.Equal(t, "print(1)", s.Code())

	second := &types.GeneratedArtifact{ID: "3", NormalizedCode: "print(2)"}
	s.Put(second)
	assert.Same(t, second, s.Latest())
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Put(&types.GeneratedArtifact{NormalizedCode: "x = 1"})
		}()
		go func() {
			defer wg.Done()
			_ = s.Code()
		}()
	}
	wg.Wait()
	assert.Equal(t, "x = 1", s.Code())
}
