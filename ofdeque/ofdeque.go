// Package ofdeque implements OFDeque: a lock-free, two-ended, linked-buffer
// deque with per-side global/local hints, oracle-directed edge search,
// elimination back-off, and hazard-pointer reclamation.
//
// Grounded on deque/OFDeque.hpp in the original source. The buffer-internal
// two-CAS push/pop protocol, the oracle edge finder, and the boundary
// append/seal/remove logic are translated slot-for-slot; see buffer.go for
// the Slot/Buffer representation and sides.go for the per-thread
// side-context plumbing.
package ofdeque

import (
	"github.com/joeycumines/go-ofdeque/internal/blockpool"
	"github.com/joeycumines/go-ofdeque/internal/elim"
	"github.com/joeycumines/go-ofdeque/internal/hazard"
	"github.com/joeycumines/go-ofdeque/internal/logx"
)

// Deque is a lock-free obstruction-free double-ended queue of V.
type Deque[V comparable] struct {
	empty          V
	threadCount    int
	bufferSize     int
	elimination    bool
	scanCountStart int

	leftHint  hintRef[V]
	rightHint hintRef[V]

	leftBufferCache  []*buffer[V]
	rightBufferCache []*buffer[V]

	pool *blockpool.Pool[buffer[V]]
	haz  *hazard.Tracker[buffer[V]]

	leftElim  *elim.Table[V]
	rightElim *elim.Table[V]

	leftOff, rightOff offsets

	log *logx.Logger
}

// New constructs a Deque. BufferSize defaults to 1024; see the With*
// options for overriding it along with elimination and the empty sentinel.
func New[V comparable](threadCount int, opts ...Option[V]) *Deque[V] {
	if threadCount < 1 {
		threadCount = 1
	}
	cfg := config[V]{
		bufferSize:  1024,
		elimination: true,
		logger:      logx.Default(),
	}
	for _, o := range opts {
		o(&cfg)
	}

	d := &Deque[V]{
		empty:            cfg.empty,
		threadCount:      threadCount,
		bufferSize:       cfg.bufferSize,
		elimination:      cfg.elimination,
		scanCountStart:   threadCount,
		leftBufferCache:  make([]*buffer[V], threadCount),
		rightBufferCache: make([]*buffer[V], threadCount),
		leftOff:          offsetsFor(sideLeft, cfg.bufferSize),
		rightOff:         offsetsFor(sideRight, cfg.bufferSize),
		log:              cfg.logger,
	}

	bufferSize := cfg.bufferSize
	d.pool = blockpool.New[buffer[V]](threadCount, func() *buffer[V] { return newBuffer[V](bufferSize) })
	// Two hazard slots per thread: slot 0 names the currently-reserved
	// global-hint buffer; slot 1 alternates with slot 0 to name neighbor
	// buffers walked during the oracle's edge search (see sides.go).
	d.haz = hazard.New[buffer[V]](threadCount, 2, 2, d.pool).WithLogger(cfg.logger)
	d.leftElim = elim.New[V](threadCount)
	d.rightElim = elim.New[V](threadCount)

	initial := d.pool.Alloc(0)
	initial.fill(bufferSize / 2)
	d.leftHint.store(&globalHint[V]{buf: initial, count: 0})
	d.rightHint.store(&globalHint[V]{buf: initial, count: 0})

	return d
}

// LeftPush inserts value at the left end.
func (d *Deque[V]) LeftPush(value V, tid int) { d.doPush(d.sideCtx(sideLeft), value, tid) }

// RightPush inserts value at the right end.
func (d *Deque[V]) RightPush(value V, tid int) { d.doPush(d.sideCtx(sideRight), value, tid) }

// LeftPop removes and returns the leftmost value, or the configured empty
// sentinel if the deque was empty on that side at the linearization point.
func (d *Deque[V]) LeftPop(tid int) V { return d.doPop(d.sideCtx(sideLeft), tid) }

// RightPop removes and returns the rightmost value, or the empty sentinel.
func (d *Deque[V]) RightPop(tid int) V { return d.doPop(d.sideCtx(sideRight), tid) }

// Empty returns the sentinel value configured via WithEmptySentinel.
func (d *Deque[V]) Empty() V { return d.empty }
