// Package hazard implements the hazard-pointer reclamation substrate
// shared by OFDeque, MMDeque and the work-stealing deque variant.
//
// Grounded on cpp_harness/HazardTracker.{hpp,cpp} in the original source:
// an N x K table of per-thread, per-slot atomic pointers, plus a per-thread
// retired list that is scanned against the whole table every freq
// retirements.
package hazard

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/go-ofdeque/internal/logx"
)

// Freer frees a previously-retired block back to the block pool it came
// from. *blockpool.Pool[T] implements it directly; it is kept as an
// interface here so hazard stays independent of any one block type.
type Freer[T any] interface {
	FreeBlock(ptr *T, tid int)
}

// Tracker is a hazard-pointer table for blocks of type T.
type Tracker[T any] struct {
	threadCount   int
	slotsPerThread int
	freq          int

	slots []atomic.Pointer[T] // threadCount * slotsPerThread

	mu      []sync.Mutex // guards each thread's own retired list
	retired [][]*T
	cntrs   []int32

	pool Freer[T]
	log  *logx.Logger
}

// New returns a Tracker for threadCount threads, slotsPerThread hazard
// slots per thread (2 for OFDeque, 3 for MMDeque), scanning after every
// freq retirements by the owning thread.
func New[T any](threadCount, slotsPerThread, freq int, pool Freer[T]) *Tracker[T] {
	if freq < 1 {
		freq = slotsPerThread
	}
	t := &Tracker[T]{
		threadCount:    threadCount,
		slotsPerThread: slotsPerThread,
		freq:           freq,
		slots:          make([]atomic.Pointer[T], threadCount*slotsPerThread),
		mu:             make([]sync.Mutex, threadCount),
		retired:        make([][]*T, threadCount),
		cntrs:          make([]int32, threadCount),
		pool:           pool,
		log:            logx.Default(),
	}
	return t
}

// WithLogger swaps the tracker's structured logger.
func (t *Tracker[T]) WithLogger(l *logx.Logger) *Tracker[T] {
	if l != nil {
		t.log = l
	}
	return t
}

func (t *Tracker[T]) index(slot, tid int) int {
	return tid*t.slotsPerThread + slot
}

// Reserve publishes ptr into the given thread's hazard slot with release
// ordering, preventing its reclamation until cleared.
func (t *Tracker[T]) Reserve(ptr *T, slot, tid int) {
	t.slots[t.index(slot, tid)].Store(ptr)
}

// ClearSlot publishes nil into one hazard slot.
func (t *Tracker[T]) ClearSlot(slot, tid int) {
	t.slots[t.index(slot, tid)].Store(nil)
}

// ClearAll publishes nil into every hazard slot owned by tid. Every OFDeque
// and MMDeque operation calls this on its way out, regardless of outcome.
func (t *Tracker[T]) ClearAll(tid int) {
	base := tid * t.slotsPerThread
	for i := 0; i < t.slotsPerThread; i++ {
		t.slots[base+i].Store(nil)
	}
}

// Retire appends ptr to tid's retired list, triggering a scan once the
// thread's retirement counter reaches freq.
//
// A double-retire of the same pointer is a programming error and is
// checked by assertion in every build: Retire panics if ptr is already on
// tid's retired list.
func (t *Tracker[T]) Retire(ptr *T, tid int) {
	if ptr == nil {
		return
	}
	t.mu[tid].Lock()
	assertNotRetired(t.retired[tid], ptr)
	t.retired[tid] = append(t.retired[tid], ptr)
	t.cntrs[tid]++
	shouldScan := t.cntrs[tid] >= int32(t.freq)
	if shouldScan {
		t.cntrs[tid] = 0
	}
	t.mu[tid].Unlock()

	if shouldScan {
		t.Empty(tid)
	}
}

// Empty scans all N*K hazard slots and frees, via the configured Freer,
// every pointer in tid's retired list that no slot currently names.
//
// The original's empty() mutates its retired list while iterating it; this
// implementation instead builds the surviving (still-hazarded) subset and
// swaps it in, which is the same outcome the spec requires ("eventually
// every non-hazarded retired pointer is freed") without depending on any
// particular iterator-invalidation behavior.
func (t *Tracker[T]) Empty(tid int) {
	t.mu[tid].Lock()
	trash := t.retired[tid]
	t.retired[tid] = nil
	t.mu[tid].Unlock()

	if len(trash) == 0 {
		return
	}

	survivors := trash[:0]
	for _, ptr := range trash {
		if t.named(ptr) {
			survivors = append(survivors, ptr)
			continue
		}
		t.pool.FreeBlock(ptr, tid)
		t.log.Trace().Int("tid", tid).Log("hazard: freed retired block")
	}

	if len(survivors) == 0 {
		return
	}
	t.mu[tid].Lock()
	t.retired[tid] = append(survivors, t.retired[tid]...)
	t.mu[tid].Unlock()
}

// named reports whether ptr is currently published in any hazard slot,
// across all threads.
func (t *Tracker[T]) named(ptr *T) bool {
	for i := range t.slots {
		if t.slots[i].Load() == ptr {
			return true
		}
	}
	return false
}

func assertNotRetired[T any](list []*T, ptr *T) {
	for _, p := range list {
		if p == ptr {
			panic(fmt.Sprintf("hazard: double retire of %p", ptr))
		}
	}
}
