// Package blockpool implements the per-thread, O(1), lock-free block
// allocator shared by OFDeque, MMDeque and the work-stealing deque variant.
//
// Grounded on cpp_harness/RAllocator.hpp and the BlockPool usage throughout
// deque/OFDeque.hpp and deque/MMDeque.hpp in the original source: each
// thread owns a free list of same-typed blocks; alloc pulls from the
// calling thread's list (or the system allocator when empty); freeBlock may
// be called by any thread but always pushes onto the *named* tid's list,
// so cross-thread retirement-driven frees are routed back to their owner.
//
// Type stability (retired blocks never change Go type) is automatic here:
// Pool is monomorphic in T, so there is no analogue of the original's
// void*-typed free list reuse hazard.
package blockpool

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pbnjay/memory"
)

// node is a Treiber-stack cell wrapping one free block. Cells are recycled
// through a sync.Pool, mirroring the teacher's chunk-recycling pattern in
// eventloop's ChunkedIngress, so steady-state alloc/free does no GC work
// beyond the caller's own block type.
type node[T any] struct {
	val  *T
	next atomic.Pointer[node[T]]
}

// Pool is a per-thread lock-free free-list allocator for *T.
type Pool[T any] struct {
	newFn    func() *T
	heads    []atomic.Pointer[node[T]]
	nodePool sync.Pool
}

// New returns a Pool sized for threadCount threads. newFn constructs a
// fresh zero-value block when a thread's free list is empty; it must
// return a block ready for the caller to populate (the pool never mutates
// returned blocks beyond linking/unlinking them).
func New[T any](threadCount int, newFn func() *T) *Pool[T] {
	if threadCount < 1 {
		threadCount = 1
	}
	p := &Pool[T]{
		newFn: newFn,
		heads: make([]atomic.Pointer[node[T]], threadCount),
	}
	p.nodePool.New = func() any { return new(node[T]) }
	return p
}

// Alloc returns a block owned by thread tid, taken from its free list, or
// freshly constructed via newFn when the list is empty.
func (p *Pool[T]) Alloc(tid int) *T {
	head := &p.heads[tid]
	for {
		n := head.Load()
		if n == nil {
			return p.newFn()
		}
		next := n.next.Load()
		if head.CompareAndSwap(n, next) {
			v := n.val
			n.val = nil
			n.next.Store(nil)
			p.nodePool.Put(n)
			return v
		}
	}
}

// FreeBlock pushes ptr onto thread tid's free list. tid need not be the
// caller's own thread id — cross-thread free (as happens when a hazard
// scan run by thread A reclaims a buffer allocated by thread B) is the
// expected usage and is why each per-thread list is a lock-free stack
// rather than a plain unsynchronized slice.
func (p *Pool[T]) FreeBlock(ptr *T, tid int) {
	if ptr == nil {
		return
	}
	n := p.nodePool.Get().(*node[T])
	n.val = ptr
	head := &p.heads[tid]
	for {
		cur := head.Load()
		n.next.Store(cur)
		if head.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Preheat pre-populates every thread's free list with up to k blocks,
// amortizing the system allocator calls that would otherwise happen on a
// benchmark run's first iterations.
//
// The total number of blocks preheated across all threads is capped at a
// quarter of free system memory divided by approxSizeOf(T); when that
// quotient is zero, no cap is applied. This is a bounded variant of the
// original's unconditional preheat.
func (p *Pool[T]) Preheat(k int) {
	if k <= 0 {
		return
	}
	var zero T
	blockSize := approxSizeOf(zero)
	budget := memory.FreeMemory() / 4
	maxBlocks := int(budget / blockSize)
	total := k * len(p.heads)
	if maxBlocks > 0 && total > maxBlocks {
		k = maxBlocks / len(p.heads)
	}
	for tid := range p.heads {
		for i := 0; i < k; i++ {
			p.FreeBlock(p.newFn(), tid)
		}
	}
}

// approxSizeOf returns a non-zero size estimate for T: unsafe.Sizeof(T),
// at least 64 bytes. Memory that T refers to (such as a slice's backing
// array) is not counted. It is used only to scale Preheat against
// available memory; it is not used for any correctness-relevant purpose.
func approxSizeOf[T any](v T) uint64 {
	const minSize = 64
	size := uint64(unsafe.Sizeof(v))
	if size < minSize {
		return minSize
	}
	return size
}
