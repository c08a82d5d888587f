package verify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-ofdeque/internal/blockpool"
	"github.com/joeycumines/go-ofdeque/mmdeque"
	"github.com/joeycumines/go-ofdeque/ofdeque"
	"github.com/joeycumines/go-ofdeque/verify"
)

func TestQueueVerificationTest_OFDeque(t *testing.T) {
	const threadCount = 4
	d := ofdeque.New[uint32](threadCount, ofdeque.WithBufferSize[uint32](512))
	res := verify.QueueVerificationTest(d, threadCount, 2000)
	require.True(t, res.Passed, res.Detail)
}

func TestQueueVerificationTest_MMDeque(t *testing.T) {
	const threadCount = 4
	d := mmdeque.New[uint32](threadCount)
	res := verify.QueueVerificationTest(d, threadCount, 2000)
	require.True(t, res.Passed, res.Detail)
}

func TestStackVerificationTest_OFDeque(t *testing.T) {
	const threadCount = 4
	d := ofdeque.New[uint32](threadCount, ofdeque.WithBufferSize[uint32](512))
	res := verify.StackVerificationTest(d, threadCount, 200, 5)
	require.True(t, res.Passed, res.Detail)
}

func TestPotatoTest_OFDeque(t *testing.T) {
	const threadCount = 4
	d := ofdeque.New[int64](threadCount)
	res := verify.PotatoTest(d, threadCount, 200*time.Millisecond, time.Millisecond)
	assert.True(t, res.Passed, res.Detail)
}

func TestAllocatorChurnTest(t *testing.T) {
	pool := blockpool.New[int](4, func() *int { v := 0; return &v })
	res := verify.AllocatorChurnTest(pool, 4, 100*time.Millisecond)
	require.True(t, res.Passed, res.Detail)
}

func TestInsertRemoveTest(t *testing.T) {
	d := ofdeque.New[int](1, ofdeque.WithEmptySentinel[int](-1))
	res := verify.InsertRemoveTest(d, []int{1, 2, 3, 4, 5})
	require.True(t, res.Passed, res.Detail)
}

func TestNearEmptyTest(t *testing.T) {
	d := ofdeque.New[int](1, ofdeque.WithEmptySentinel[int](-1))
	res := verify.NearEmptyTest(d)
	require.True(t, res.Passed, res.Detail)
}
