package ofdeque

import "sync/atomic"

// globalHint is a per-side (buffer, count) pair. Readers reserve the
// buffer in a hazard slot, then re-read the count to confirm no
// retirement happened during reservation — see reserveHint.
type globalHint[V any] struct {
	buf   *buffer[V]
	count uint32
}

// hintRef wraps the atomic pointer so CAS sites read naturally.
type hintRef[V any] struct {
	p atomic.Pointer[globalHint[V]]
}

func (h *hintRef[V]) load() *globalHint[V] { return h.p.Load() }
func (h *hintRef[V]) store(v *globalHint[V]) { h.p.Store(v) }

func (h *hintRef[V]) compareAndSwap(exp *globalHint[V], buf *buffer[V]) bool {
	next := &globalHint[V]{buf: buf, count: exp.count + 1}
	return h.p.CompareAndSwap(exp, next)
}

// edge is the boundary pair an oracle search lands on: the near slot at
// buf.slots[index], with the far slot at index+offsets.farDir.
type edge[V any] struct {
	buf   *buffer[V]
	index int
}

type oracleResult[V any] struct {
	hint *globalHint[V]
	edge edge[V]
}
