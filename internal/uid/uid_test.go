package uid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-ofdeque/internal/uid"
)

func TestGenerator_RoundTrip(t *testing.T) {
	g := uid.New(8)
	for tid := 0; tid < 8; tid++ {
		v := g.Initial(tid)
		require.Equal(t, uint32(tid), g.ID(v))
		require.Equal(t, uint32(1), g.Count(v))
	}
}

func TestGenerator_NextIsMonotone(t *testing.T) {
	g := uid.New(4)
	v := g.Initial(2)
	for i := 0; i < 100; i++ {
		next := g.Next(v, 2)
		if next == 0 {
			break
		}
		assert.Greater(t, g.Count(next), g.Count(v))
		assert.Equal(t, uint32(2), g.ID(next))
		v = next
	}
}

func TestGenerator_DistinctThreadsDistinctIDs(t *testing.T) {
	g := uid.New(16)
	seen := make(map[uint32]bool)
	for tid := 0; tid < 16; tid++ {
		id := g.ID(g.Initial(tid))
		assert.False(t, seen[id], "duplicate decoded tid")
		seen[id] = true
	}
}
