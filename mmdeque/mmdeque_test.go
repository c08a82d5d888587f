package mmdeque_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joeycumines/go-ofdeque/mmdeque"
)

func TestDeque_LeftPushRightPop_FIFO(t *testing.T) {
	d := mmdeque.New[int](1, mmdeque.WithEmptySentinel[int](-1))
	for i := 0; i < 10; i++ {
		d.LeftPush(i, 0)
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, i, d.RightPop(0))
	}
	assert.Equal(t, -1, d.RightPop(0))
}

func TestDeque_RightPushLeftPop_FIFO(t *testing.T) {
	d := mmdeque.New[int](1, mmdeque.WithEmptySentinel[int](-1))
	for i := 0; i < 10; i++ {
		d.RightPush(i, 0)
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, i, d.LeftPop(0))
	}
}

func TestDeque_SingleElementBothEndsAgree(t *testing.T) {
	d := mmdeque.New[int](1, mmdeque.WithEmptySentinel[int](-1))
	d.LeftPush(42, 0)
	assert.Equal(t, 42, d.RightPop(0))
	assert.Equal(t, -1, d.LeftPop(0))
}

func TestDeque_ConcurrentPushPopNoPanics(t *testing.T) {
	const threads = 8
	d := mmdeque.New[int](threads, mmdeque.WithEmptySentinel[int](-1))

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
