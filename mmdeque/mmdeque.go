// Package mmdeque implements MMDeque: the Michael-Maged anchor/stabilize
// lock-free deque, sharing its reclamation substrate (internal/hazard,
// internal/blockpool) with ofdeque.
//
// Grounded on deque/MMDeque.hpp in the original source. The anchor there
// is a single machine word packing (left, right, status) via pointer-bit
// stealing; here it is an immutable *anchor[V] swapped whole via
// atomic.Pointer.CompareAndSwap, the same ABA-tagged-pointer translation
// ofdeque/buffer.go uses for its slots (see DESIGN.md).
package mmdeque

import (
	"sync/atomic"

	"github.com/joeycumines/go-ofdeque/internal/blockpool"
	"github.com/joeycumines/go-ofdeque/internal/hazard"
	"github.com/joeycumines/go-ofdeque/internal/logx"
)

// status is the anchor's stabilization state, mirroring MMDeque.hpp's
// Stable/LPush/RPush tags.
type status int8

const (
	stable status = iota
	lpush
	rpush
)

// node is a doubly-linked cell. prev and next are themselves atomic so a
// concurrent stabilize can install a missing back-link without a lock.
type node[V any] struct {
	value V
	prev  atomic.Pointer[node[V]]
	next  atomic.Pointer[node[V]]
}

// anchor names the deque's current left and right sentinNode-adjacent
// nodes plus whether a push on either end is still being stabilized.
type anchor[V any] struct {
	left, right *node[V]
	st          status
}

// Deque is a lock-free doubly-linked-list deque of V.
type Deque[V comparable] struct {
	empty V
	a     atomic.Pointer[anchor[V]]

	pool *blockpool.Pool[node[V]]
	haz  *hazard.Tracker[node[V]]

	log *logx.Logger
}

// Option configures a Deque at construction.
type Option[V comparable] func(*config[V])

type config[V any] struct {
	empty  V
	logger *logx.Logger
}

// WithEmptySentinel sets the value LeftPop/RightPop return on an empty
// deque.
func WithEmptySentinel[V comparable](empty V) Option[V] {
	return func(c *config[V]) { c.empty = empty }
}

// WithLogger overrides the structured logger used for retirement
// diagnostics.
func WithLogger[V comparable](l *logx.Logger) Option[V] {
	return func(c *config[V]) {
		if l != nil {
			c.logger = l
		}
	}
}

// New constructs an empty Deque for threadCount cooperating goroutines.
func New[V comparable](threadCount int, opts ...Option[V]) *Deque[V] {
	if threadCount < 1 {
		threadCount = 1
	}
	cfg := config[V]{logger: logx.Default()}
	for _, o := range opts {
		o(&cfg)
	}

	d := &Deque[V]{empty: cfg.empty, log: cfg.logger}
	d.pool = blockpool.New[node[V]](threadCount, func() *node[V] { return new(node[V]) })
	// Three hazard slots per thread are allocated. Operations use slot 0
	// for the anchor's end node on the operating side and slot 1 (pops
	// only) for the neighbor node the pop reads; slot 2 is not used.
	d.haz = hazard.New[node[V]](threadCount, 3, 3, d.pool).WithLogger(cfg.logger)

	sentinel := d.pool.Alloc(0)
	d.a.Store(&anchor[V]{left: sentinel, right: sentinel, st: stable})

	return d
}

func (d *Deque[V]) casAnchor(old, next *anchor[V]) bool {
	return d.a.CompareAndSwap(old, next)
}

// LeftPush inserts value at the left end.
func (d *Deque[V]) LeftPush(value V, tid int) {
	defer d.haz.ClearAll(tid)
	n := d.pool.Alloc(tid)
	*n = node[V]{value: value}

	for {
		a := d.a.Load()
		d.haz.Reserve(a.left, 0, tid)
		if a != d.a.Load() {
			continue
		}

		if a.left == a.right {
			next := &anchor[V]{left: n, right: n, st: stable}
			n.prev.Store(nil)
			n.next.Store(nil)
			a.left.prev.Store(n)
			a.left.next.Store(n)
			if d.casAnchor(a, next) {
				return
			}
			continue
		}

		if a.st == stable {
			n.next.Store(a.left)
			next := &anchor[V]{left: n, right: a.right, st: lpush}
			if d.casAnchor(a, next) {
				d.stabilizeLeft(next)
				return
			}
		} else {
			d.stabilize(a)
		}
	}
}

// RightPush inserts value at the right end.
func (d *Deque[V]) RightPush(value V, tid int) {
	defer d.haz.ClearAll(tid)
	n := d.pool.Alloc(tid)
	*n = node[V]{value: value}

	for {
		a := d.a.Load()
		d.haz.Reserve(a.right, 0, tid)
		if a != d.a.Load() {
			continue
		}

		if a.left == a.right {
			next := &anchor[V]{left: n, right: n, st: stable}
			n.prev.Store(nil)
			n.next.Store(nil)
			a.right.prev.Store(n)
			a.right.next.Store(n)
			if d.casAnchor(a, next) {
				return
			}
			continue
		}

		if a.st == stable {
			n.prev.Store(a.right)
			next := &anchor[V]{left: a.left, right: n, st: rpush}
			if d.casAnchor(a, next) {
				d.stabilizeRight(next)
				return
			}
		} else {
			d.stabilize(a)
		}
	}
}

// LeftPop removes and returns the leftmost value, or the empty sentinel.
func (d *Deque[V]) LeftPop(tid int) V {
	defer d.haz.ClearAll(tid)
	for {
		a := d.a.Load()
		d.haz.Reserve(a.left, 0, tid)
		if a != d.a.Load() {
			continue
		}

		if a.st != stable {
			d.stabilize(a)
			continue
		}

		if a.left == a.right {
			return d.empty
		}

		prev := a.left.prev.Load()
		d.haz.Reserve(prev, 1, tid)
		if a != d.a.Load() {
			continue
		}

		if prev == nil {
			d.stabilize(a)
			continue
		}

		var next *anchor[V]
		if prev == a.right {
			next = &anchor[V]{left: prev, right: prev, st: stable}
		} else {
			next = &anchor[V]{left: prev, right: a.right, st: stable}
		}

		if d.casAnchor(a, next) {
			v := a.left.value
			d.haz.Retire(a.left, tid)
			return v
		}
	}
}

// RightPop removes and returns the rightmost value, or the empty sentinel.
func (d *Deque[V]) RightPop(tid int) V {
	defer d.haz.ClearAll(tid)
	for {
		a := d.a.Load()
		d.haz.Reserve(a.right, 0, tid)
		if a != d.a.Load() {
			continue
		}

		if a.st != stable {
			d.stabilize(a)
			continue
		}

		if a.left == a.right {
			return d.empty
		}

		next := a.right.next.Load()
		d.haz.Reserve(next, 1, tid)
		if a != d.a.Load() {
			continue
		}

		if next == nil {
			d.stabilize(a)
			continue
		}

		var nextAnchor *anchor[V]
		if next == a.left {
			nextAnchor = &anchor[V]{left: next, right: next, st: stable}
		} else {
			nextAnchor = &anchor[V]{left: a.left, right: next, st: stable}
		}

		if d.casAnchor(a, nextAnchor) {
			v := a.right.value
			d.haz.Retire(a.right, tid)
			return v
		}
	}
}

// Empty returns the sentinel value configured via WithEmptySentinel.
func (d *Deque[V]) Empty() V { return d.empty }

// stabilize dispatches to the in-progress push's stabilizer, or is a
// no-op if a peer has already moved the anchor past the stale snapshot.
func (d *Deque[V]) stabilize(a *anchor[V]) {
	switch a.st {
	case lpush:
		d.stabilizeLeft(a)
	case rpush:
		d.stabilizeRight(a)
	}
}

// stabilizeLeft installs the missing back-link from a.left.next (the old
// left sentinel) to a.left, then clears the anchor's in-progress flag.
func (d *Deque[V]) stabilizeLeft(a *anchor[V]) {
	if d.a.Load() != a {
		return
	}
	oldLeft := a.left.next.Load()
	if oldLeft == nil {
		return
	}
	if d.a.Load() != a {
		return
	}
	oldLeft.prev.Store(a.left)
	if d.a.Load() != a {
		return
	}
	d.casAnchor(a, &anchor[V]{left: a.left, right: a.right, st: stable})
}

// stabilizeRight is stabilizeLeft's mirror for the right end.
func (d *Deque[V]) stabilizeRight(a *anchor[V]) {
	if d.a.Load() != a {
		return
	}
	oldRight := a.right.prev.Load()
	if oldRight == nil {
		return
	}
	if d.a.Load() != a {
		return
	}
	oldRight.next.Store(a.right)
	if d.a.Load() != a {
		return
	}
	d.casAnchor(a, &anchor[V]{left: a.left, right: a.right, st: stable})
}
