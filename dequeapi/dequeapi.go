// Package dequeapi defines the capability-tagged interface the benchmark
// CLI and verification tests drive every rideable implementation through.
//
// The original harness used RContainer/RDeque/RQueue/RStack interface
// inheritance to describe which access patterns a rideable supports; per
// REDESIGN FLAGS item 2, that hierarchy is replaced here with a single
// flat Deque interface plus a Capability bitmask, since Go has no
// interface-inheritance-as-narrowing idiom and a bitmask is both simpler
// to test against and cheaper to extend with new access patterns.
package dequeapi

// Capability is a bitmask of the access patterns a Deque implementation
// supports. Neither the benchmark CLI nor the verification tests check it
// before running a scenario.
type Capability uint8

const (
	// Queue means RightPush/LeftPop (or LeftPush/RightPop) form a FIFO.
	Queue Capability = 1 << iota
	// Stack means LeftPush/LeftPop (or RightPush/RightPop) form a LIFO.
	Stack
	// Random means any mix of the four operations is supported without
	// restriction — true of both OFDeque and MMDeque.
	Random
)

// Has reports whether c includes every bit set in other.
func (c Capability) Has(other Capability) bool { return c&other == other }

// Deque is the operation surface every rideable implementation exposes to
// the benchmark CLI and verification tests: two-ended push/pop, each
// identified by the calling goroutine's thread id (a dense [0,threadCount)
// index assigned once at harness startup, not a goroutine ID).
type Deque[V comparable] interface {
	LeftPush(value V, tid int)
	RightPush(value V, tid int)
	LeftPop(tid int) V
	RightPop(tid int) V
	// Empty returns the sentinel value LeftPop/RightPop yield when the
	// deque has nothing to return on that side.
	Empty() V
}

// Rideable pairs a Deque with the Capability it advertises.
type Rideable[V comparable] struct {
	Deque[V]
	Capabilities Capability
}
