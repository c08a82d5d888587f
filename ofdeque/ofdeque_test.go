package ofdeque_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-ofdeque/ofdeque"
)

func TestDeque_LeftPushRightPop_FIFO(t *testing.T) {
	d := ofdeque.New[int](1, ofdeque.WithEmptySentinel[int](-1))
	for i := 0; i < 10; i++ {
		d.LeftPush(i, 0)
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, i, d.RightPop(0))
	}
	assert.Equal(t, -1, d.LeftPop(0))
}

func TestDeque_LeftPushLeftPop_LIFO(t *testing.T) {
	d := ofdeque.New[int](1, ofdeque.WithEmptySentinel[int](-1))
	for i := 0; i < 10; i++ {
		d.LeftPush(i, 0)
	}
	for i := 9; i >= 0; i-- {
		assert.Equal(t, i, d.LeftPop(0))
	}
}

func TestDeque_AppendsNewBufferAcrossBoundary(t *testing.T) {
	// A buffer size of 512 leaves 510 usable value slots per side split in
	// half; pushing well past that forces at least one buffer append.
	d := ofdeque.New[int](1, ofdeque.WithBufferSize[int](512), ofdeque.WithEmptySentinel[int](-1))
	const n = 2000
	for i := 0; i < n; i++ {
		d.RightPush(i, 0)
	}
	for i := 0; i < n; i++ {
		require.Equal(t, i, d.LeftPop(0))
	}
	assert.Equal(t, -1, d.LeftPop(0))
}

func TestDeque_ConcurrentPushPopNoPanics(t *testing.T) {
	const threads = 8
	d := ofdeque.New[int](threads, ofdeque.WithBufferSize[int](512), ofdeque.WithEmptySentinel[int](-1))

	var wg sync.WaitGroup
	wg.Add(threads * 2)
	for tid := 0; tid < threads; tid++ {
		go func(tid int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				d.RightPush(i, tid)
			}
		}(tid)
		go func(tid int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				d.LeftPop(tid)
			}
		}(tid)
	}
	wg.Wait()
}

func TestDeque_DisabledElimination(t *testing.T) {
	d := ofdeque.New[int](2, ofdeque.WithElimination[int](false), ofdeque.WithEmptySentinel[int](-1))
	d.LeftPush(1, 0)
	assert.Equal(t, 1, d.RightPop(1))
}
