package ofdeque

import "github.com/joeycumines/go-ofdeque/internal/elim"

// sideCtx bundles everything a push/pop/oracle call needs for one side,
// replacing the original's template specialization on Side (REDESIGN
// FLAGS item 3) with a runtime-constructed table.
type sideCtx[V comparable] struct {
	side        side
	off         offsets
	hint        *hintRef[V]
	bufferCache []*buffer[V]
	elimTable   *elim.Table[V]
}

func (d *Deque[V]) sideCtx(s side) sideCtx[V] {
	if s == sideLeft {
		return sideCtx[V]{side: s, off: d.leftOff, hint: &d.leftHint, bufferCache: d.leftBufferCache, elimTable: d.leftElim}
	}
	return sideCtx[V]{side: s, off: d.rightOff, hint: &d.rightHint, bufferCache: d.rightBufferCache, elimTable: d.rightElim}
}

// oracle finds the current push/pop edge on c's side, retrying from
// scratch whenever the global hint changes mid-walk.
func (d *Deque[V]) oracle(c sideCtx[V], tid int) oracleResult[V] {
	for {
		hint := d.reserveHint(c, 0, tid)
		if e, ok := d.findEdge(c, hint, tid); ok {
			return oracleResult[V]{hint: hint, edge: e}
		}
	}
}

// reserveHint loads the side's global hint, hazard-reserves its buffer,
// then re-reads the hint to confirm no retirement raced the reservation.
func (d *Deque[V]) reserveHint(c sideCtx[V], slotIdx, tid int) *globalHint[V] {
	for {
		h := c.hint.load()
		d.haz.Reserve(h.buf, slotIdx, tid)
		if h.count == c.hint.load().count {
			return h
		}
	}
}

// findEdge walks slot types starting from buf/local-hint until the first
// edge is found, hopping to neighbor buffers via link slots as needed.
// Returns false if the global hint changed mid-walk, signaling the caller
// to restart from the oracle.
func (d *Deque[V]) findEdge(c sideCtx[V], hint *globalHint[V], tid int) (edge[V], bool) {
	off := c.off
	buf := hint.buf
	index := clampIndex(int(buf.localHint(c.side).Load()), d.bufferSize)
	nextHaz := 1

	for {
		switch index {
		case off.farLink:
			s := buf.load(index)
			if s.kind == off.farKind {
				index -= off.farDir
				continue
			}
			neighbor := s.link
			d.haz.Reserve(neighbor, nextHaz, tid)
			nextHaz = 1 - nextHaz
			if hint.count != c.hint.load().count {
				return edge[V]{}, false
			}
			typeFar := neighbor.load(off.nearValue).kind
			if typeFar == off.farKind || typeFar == kindSealed {
				return edge[V]{buf: buf, index: off.farValue}, true
			}
			buf = neighbor
			index = clampIndex(int(buf.localHint(c.side).Load()), d.bufferSize)

		case off.nearLink:
			s := buf.load(index)
			if s.kind == off.nearKind {
				if buf.load(index+off.farDir).kind == off.farKind {
					return edge[V]{buf: buf, index: index}, true
				}
				index += off.farDir
				continue
			}
			neighbor := s.link
			d.haz.Reserve(neighbor, nextHaz, tid)
			nextHaz = 1 - nextHaz
			if hint.count != c.hint.load().count {
				return edge[V]{}, false
			}
			typeFar := neighbor.load(off.farValue).kind
			if typeFar != off.farKind {
				return edge[V]{buf: neighbor, index: off.farValue}, true
			}
			buf = neighbor
			index = clampIndex(int(buf.localHint(c.side).Load()), d.bufferSize)

		default:
			k := buf.load(index).kind
			switch k {
			case off.farKind:
				index -= off.farDir
			case off.nearKind, kindValue:
				if buf.load(index+off.farDir).kind == off.farKind {
					return edge[V]{buf: buf, index: index}, true
				}
				index += off.farDir
			case kindSealed:
				switch index {
				case off.farValue:
					neighbor := buf.load(off.farLink).link
					d.haz.Reserve(neighbor, nextHaz, tid)
					nextHaz = 1 - nextHaz
					if hint.count != c.hint.load().count {
						return edge[V]{}, false
					}
					if neighbor.load(off.nearValue).kind == off.farKind {
						return edge[V]{buf: buf, index: index}, true
					}
					buf = neighbor
					index = clampIndex(int(buf.localHint(c.side).Load()), d.bufferSize)
				case off.nearValue:
					neighbor := buf.load(off.nearLink).link
					d.haz.Reserve(neighbor, nextHaz, tid)
					nextHaz = 1 - nextHaz
					if hint.count != c.hint.load().count {
						return edge[V]{}, false
					}
					typeFar := neighbor.load(off.farValue).kind
					if typeFar == off.nearKind || typeFar == kindValue {
						return edge[V]{buf: neighbor, index: off.farValue}, true
					}
					buf = neighbor
					index = clampIndex(int(buf.localHint(c.side).Load()), d.bufferSize)
				}
			}
		}
	}
}

// retire repairs both sides' global hints away from buf (which is about to
// become unreachable) before handing it to the hazard tracker.
func (d *Deque[V]) retire(buf *buffer[V], tid int) {
	d.updateHint(d.sideCtx(sideLeft), tid)
	d.updateHint(d.sideCtx(sideRight), tid)
	d.haz.Retire(buf, tid)
}

// updateHint advances c's global hint off of a sealed buffer, or
// acknowledges that another thread has already done so.
func (d *Deque[V]) updateHint(c sideCtx[V], tid int) {
	threshold := c.hint.load().count

	for {
		hint := c.hint.load()
		buf := hint.buf

		if buf.isSealed() == -1 {
			if hint.count > threshold {
				return
			}
		} else {
			next, ok := d.findActiveBuffer(c, hint, tid)
			if !ok {
				continue
			}
			buf = next
		}

		if c.hint.compareAndSwap(hint, buf) {
			return
		}
	}
}

// findActiveBuffer walks sealed-buffer links forward until it finds one
// that is not sealed, hazard-reserving each hop. Returns false if the
// global hint changed mid-walk.
func (d *Deque[V]) findActiveBuffer(c sideCtx[V], hint *globalHint[V], tid int) (*buffer[V], bool) {
	off := c.off
	nextHaz := 1
	buf := hint.buf

	for {
		sealedIndex := buf.isSealed()
		var link *buffer[V]
		switch sealedIndex {
		case -1:
			return buf, true
		case off.farValue:
			link = buf.load(off.farLink).link
		case off.nearValue:
			link = buf.load(off.nearLink).link
		default:
			return buf, true
		}

		d.haz.Reserve(link, nextHaz, tid)
		nextHaz = 1 - nextHaz

		if hint.count != c.hint.load().count {
			return nil, false
		}

		buf = link
	}
}
