package hazard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-ofdeque/internal/blockpool"
	"github.com/joeycumines/go-ofdeque/internal/hazard"
)

func TestTracker_RetireWithoutHazardFreesImmediately(t *testing.T) {
	pool := blockpool.New[int](2, func() *int { v := 0; return &v })
	tr := hazard.New[int](2, 2, 1, pool)

	block := pool.Alloc(0)
	tr.Retire(block, 0)

	// freq=1 means the retirement itself triggers an immediate scan, and
	// nothing reserved the block, so it should be back on the free list.
	reused := pool.Alloc(0)
	assert.Same(t, block, reused)
}

func TestTracker_ReservedBlockSurvivesScan(t *testing.T) {
	pool := blockpool.New[int](2, func() *int { v := 0; return &v })
	tr := hazard.New[int](2, 2, 1, pool)

	block := pool.Alloc(0)
	tr.Reserve(block, 0, 1) // thread 1 hazards it
	tr.Retire(block, 0)

	reused := pool.Alloc(0)
	assert.NotSame(t, block, reused, "hazarded block must not be reused while reserved")

	tr.ClearSlot(0, 1)
	tr.Empty(0)
	again := pool.Alloc(0)
	assert.Same(t, block, again, "block should be freed once no longer hazarded")
}

func TestTracker_DoubleRetirePanics(t *testing.T) {
	pool := blockpool.New[int](1, func() *int { v := 0; return &v })
	tr := hazard.New[int](1, 2, 100, pool)

	block := pool.Alloc(0)
	tr.Reserve(block, 0, 0)
	tr.Retire(block, 0)

	require.Panics(t, func() {
		tr.Retire(block, 0)
	})
}

func TestTracker_ClearAll(t *testing.T) {
	pool := blockpool.New[int](1, func() *int { v := 0; return &v })
	tr := hazard.New[int](1, 2, 100, pool)

	block := pool.Alloc(0)
	tr.Reserve(block, 0, 0)
	tr.Reserve(block, 1, 0)
	tr.ClearAll(0)
	tr.Retire(block, 0)
	tr.Empty(0)

	reused := pool.Alloc(0)
	assert.Same(t, block, reused)
}
