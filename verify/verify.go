// Package verify implements the FIFO/LIFO/liveness/allocator verification
// tests run against any dequeapi.Deque implementation.
//
// Grounded on deque/Tests.cpp (QueueVerificationTest, StackVerificationTest,
// PotatoTest) and cpp_harness/DefaultHarnessTests.{hpp,cpp} (the scripted
// sequential scenarios, supplemented per SPEC_FULL.md §5) in the original
// source.
package verify

import (
	"fmt"
	"sync"
	"time"

	"github.com/joeycumines/go-ofdeque/dequeapi"
	"github.com/joeycumines/go-ofdeque/internal/blockpool"
	"github.com/joeycumines/go-ofdeque/internal/uid"
)

// Result is the outcome of a single verification test run.
type Result struct {
	Passed bool
	Detail string
}

func fail(format string, args ...any) Result {
	return Result{Passed: false, Detail: fmt.Sprintf(format, args...)}
}

func pass() Result { return Result{Passed: true} }

// QueueVerificationTest checks FIFO ordering: each of threadCount
// producers RightPushes a strictly increasing per-thread UID sequence
// while the same threadCount goroutines LeftPop concurrently; for every
// UID a popping goroutine observes, its per-thread counter (via gen) must
// be strictly greater than the last counter that goroutine saw from that
// same producer.
//
// Grounded on deque/Tests.cpp's QueueVerificationTest::execute.
func QueueVerificationTest(d dequeapi.Deque[uint32], threadCount, opsPerThread int) Result {
	gen := uid.New(threadCount)
	var wg sync.WaitGroup
	wg.Add(threadCount)
	for tid := 0; tid < threadCount; tid++ {
		go func(tid int) {
			defer wg.Done()
			val := gen.Initial(tid)
			for i := 0; i < opsPerThread && val != 0; i++ {
				d.RightPush(val, tid)
				val = gen.Next(val, tid)
			}
		}(tid)
	}

	var mu sync.Mutex
	var violation error

	var wg2 sync.WaitGroup
	wg2.Add(threadCount)
	for tid := 0; tid < threadCount; tid++ {
		go func(tid int) {
			defer wg2.Done()
			lastSeen := make([]uint32, threadCount)
			for i := 0; i < opsPerThread; i++ {
				v := d.LeftPop(tid)
				if v == d.Empty() {
					continue
				}
				producer := gen.ID(v)
				count := gen.Count(v)
				mu.Lock()
				if count <= lastSeen[producer] {
					if violation == nil {
						violation = fmt.Errorf("producer %d: observed count %d after %d", producer, count, lastSeen[producer])
					}
				} else {
					lastSeen[producer] = count
				}
				mu.Unlock()
			}
		}(tid)
	}

	wg.Wait()
	wg2.Wait()

	if violation != nil {
		return fail("FIFO violation: %v", violation)
	}
	return pass()
}

// StackVerificationTest checks LIFO ordering in phases: each phase has
// every thread LeftPush opsPerPhase values then LeftPop opsPerPhase
// values, and within a single thread's own pop sequence the observed
// per-thread counters must be strictly decreasing (since a thread only
// ever sees its own pushes back, absent cross-thread stealing on this
// side — matching deque/Tests.cpp's StackVerificationTest phasing).
func StackVerificationTest(d dequeapi.Deque[uint32], threadCount, opsPerPhase, phases int) Result {
	gen := uid.New(threadCount)
	var wg sync.WaitGroup
	wg.Add(threadCount)
	errs := make([]error, threadCount)

	for tid := 0; tid < threadCount; tid++ {
		go func(tid int) {
			defer wg.Done()
			val := gen.Initial(tid)
			for p := 0; p < phases; p++ {
				pushed := make([]uint32, 0, opsPerPhase)
				for i := 0; i < opsPerPhase && val != 0; i++ {
					d.LeftPush(val, tid)
					pushed = append(pushed, val)
					val = gen.Next(val, tid)
				}
				last := ^uint32(0)
				for i := 0; i < len(pushed); i++ {
					v := d.LeftPop(tid)
					if v == d.Empty() {
						errs[tid] = fmt.Errorf("phase %d: unexpected empty pop", p)
						return
					}
					count := gen.Count(v)
					if count >= last {
						errs[tid] = fmt.Errorf("phase %d: LIFO violation, count %d after %d", p, count, last)
						return
					}
					last = count
				}
			}
		}(tid)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fail("%v", err)
		}
	}
	return pass()
}

// PotatoTest is a liveness smoke test: thread 0 starts hot. On its turn, a
// hot thread sleeps hotPotatoPenalty then RightPushes -(tid+1), a negative
// value; any thread whose pop observes a negative value becomes hot next.
// The test passes if some pop receives a potato at least once before
// duration elapses (the popper may be the thread that pushed it) — a deque
// that never delivers the pushed value to any popper indicates a lost
// update or livelock.
//
// Grounded on deque/Tests.cpp's PotatoTest.
func PotatoTest(d dequeapi.Deque[int64], threadCount int, duration, hotPotatoPenalty time.Duration) Result {
	hot := make([]bool, threadCount)
	hot[0] = true
	var mu sync.Mutex
	var handoffs int
	deadline := time.Now().Add(duration)

	var wg sync.WaitGroup
	wg.Add(threadCount)
	for tid := 0; tid < threadCount; tid++ {
		go func(tid int) {
			defer wg.Done()
			for time.Now().Before(deadline) {
				mu.Lock()
				isHot := hot[tid]
				mu.Unlock()
				if isHot {
					time.Sleep(hotPotatoPenalty)
					d.RightPush(-int64(tid+1), tid)
					mu.Lock()
					hot[tid] = false
					mu.Unlock()
				}
				if v := d.LeftPop(tid); v != d.Empty() && v < 0 {
					mu.Lock()
					hot[tid] = true
					handoffs++
					mu.Unlock()
				}
			}
		}(tid)
	}
	wg.Wait()

	if handoffs == 0 {
		return fail("potato never changed hands in %s", duration)
	}
	return pass()
}

// AllocatorChurnTest drives pool.Alloc/FreeBlock across threadCount
// goroutines for duration, then asserts no pointer identity was handed
// out twice while simultaneously outstanding — the I4 double-allocation
// property from spec.md §8 scenario 5.
func AllocatorChurnTest(pool *blockpool.Pool[int], threadCount int, duration time.Duration) Result {
	deadline := time.Now().Add(duration)
	var mu sync.Mutex
	outstanding := make(map[*int]int) // ptr -> owning tid, while held
	var violation error

	var wg sync.WaitGroup
	wg.Add(threadCount)
	for tid := 0; tid < threadCount; tid++ {
		go func(tid int) {
			defer wg.Done()
			for time.Now().Before(deadline) {
				p := pool.Alloc(tid)
				mu.Lock()
				if owner, dup := outstanding[p]; dup {
					if violation == nil {
						violation = fmt.Errorf("pointer %p double-allocated: held by tid %d, reissued to tid %d", p, owner, tid)
					}
				} else {
					outstanding[p] = tid
				}
				mu.Unlock()

				mu.Lock()
				delete(outstanding, p)
				mu.Unlock()
				pool.FreeBlock(p, tid)
			}
		}(tid)
	}
	wg.Wait()

	if violation != nil {
		return fail("%v", violation)
	}
	return pass()
}

// InsertRemoveTest is a single-threaded scripted sanity check: push a
// sequence onto one side, pop it back, and assert LIFO order holds for a
// deque driven entirely from one end by one thread.
//
// Grounded on cpp_harness/DefaultHarnessTests.cpp's sequential unit test.
func InsertRemoveTest(d dequeapi.Deque[int], values []int) Result {
	const tid = 0
	for _, v := range values {
		d.LeftPush(v, tid)
	}
	for i := len(values) - 1; i >= 0; i-- {
		got := d.LeftPop(tid)
		if got != values[i] {
			return fail("InsertRemoveTest: want %d, got %d at position %d", values[i], got, i)
		}
	}
	if got := d.LeftPop(tid); got != d.Empty() {
		return fail("InsertRemoveTest: expected empty after draining, got %d", got)
	}
	return pass()
}

// NearEmptyTest scripts the boundary condition of popping from a deque
// that has exactly one element, from both ends in turn.
func NearEmptyTest(d dequeapi.Deque[int]) Result {
	const tid = 0
	d.LeftPush(42, tid)
	if got := d.RightPop(tid); got != 42 {
		return fail("NearEmptyTest: want 42, got %d", got)
	}
	if got := d.LeftPop(tid); got != d.Empty() {
		return fail("NearEmptyTest: expected empty, got %d", got)
	}

	d.RightPush(7, tid)
	if got := d.LeftPop(tid); got != 7 {
		return fail("NearEmptyTest: want 7, got %d", got)
	}
	if got := d.RightPop(tid); got != d.Empty() {
		return fail("NearEmptyTest: expected empty, got %d", got)
	}
	return pass()
}
