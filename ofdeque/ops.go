package ofdeque

// doPush and doPop implement OFDeque's two-CAS push/pop protocol: an
// oracle-directed edge search, then an anchoring CAS (casSafe) on one slot
// of the edge followed by the claiming CAS on the other; a structural
// attempt that loses a race tries the elimination table before the next
// search. A
// push that lands exactly on the buffer's outermost value slot instead
// appends a fresh buffer (appendAndPush); a pop that drains a buffer's
// last slot on this side seals it and hands it to retire.

func oppositeSide(s side) side {
	if s == sideLeft {
		return sideRight
	}
	return sideLeft
}

// backoff doubles the elimination scan width, capped at threadCount, the
// same escalation DefaultHarnessTests.hpp's callers apply under
// contention.
func backoff(scanCount, threadCount int) int {
	scanCount *= 2
	if scanCount > threadCount {
		scanCount = threadCount
	}
	if scanCount < 1 {
		scanCount = 1
	}
	return scanCount
}

func (d *Deque[V]) doPush(c sideCtx[V], value V, tid int) {
	defer d.haz.ClearAll(tid)
	backoffScanCount := d.scanCountStart

	if d.elimination {
		c.elimTable.InsertPush(value, tid)
	}

	for {
		res := d.oracle(c, tid)
		buf, boundary := res.edge.buf, res.edge.index

		if boundary == c.off.farValue {
			if d.appendAndPush(c, buf, value, tid) {
				if d.elimination {
					c.elimTable.RemovePush(tid)
				}
				return
			}
		} else {
			target := boundary + c.off.farDir
			boundarySlot := buf.load(boundary)
			targetSlot := buf.load(target)
			if targetSlot.kind == c.off.farKind && buf.casSafe(boundary, boundarySlot) && buf.casValue(target, targetSlot, value) {
				buf.localHint(c.side).Store(int64(target))
				if d.elimination {
					c.elimTable.RemovePush(tid)
				}
				return
			}
		}

		// The structural attempt lost a race: give elimination a chance
		// to pair us with a waiting pop (our slot is still published
		// from before the loop, or re-published at the end of the
		// previous iteration), then check passively whether a peer
		// already paired with us, before looping back to the oracle.
		if d.elimination {
			if c.elimTable.TryEliminatePush(backoffScanCount, value, tid) {
				return
			}
			if c.elimTable.RemovePush(tid) {
				return
			}
			c.elimTable.InsertPush(value, tid)
		}

		backoffScanCount = backoff(backoffScanCount, d.threadCount)
	}
}

// appendAndPush links a freshly allocated buffer beyond buf's far link and
// seeds it with value at its near value slot, next to its back-link,
// extending the deque on c's side. Returns false if a buffer is already
// linked there, in which case the caller re-oracles and retries; if that
// buffer's near value slot is sealed, it is unlinked first.
func (d *Deque[V]) appendAndPush(c sideCtx[V], buf *buffer[V], value V, tid int) bool {
	linkSlot := buf.load(c.off.farLink)
	if linkSlot.kind != c.off.farKind {
		// The sealing pop has already retired that neighbor; only the link
		// to it is left to clear.
		if n := linkSlot.link; n != nil && n.load(c.off.nearValue).kind == kindSealed {
			buf.casKind(c.off.farLink, linkSlot, c.off.farKind)
		}
		return false
	}

	next := d.pool.Alloc(tid)
	next.fillAll(c.off.farKind)
	next.slots[c.off.nearLink].Store(&slot[V]{kind: kindValue, link: buf})
	next.slots[c.off.nearValue].Store(&slot[V]{kind: kindValue, value: value})
	next.localHint(c.side).Store(int64(c.off.nearValue))
	next.localHint(oppositeSide(c.side)).Store(int64(c.off.nearLink))

	if !buf.casLink(c.off.farLink, linkSlot, next) {
		return false
	}
	buf.localHint(c.side).Store(int64(c.off.farLink))
	return true
}

func (d *Deque[V]) doPop(c sideCtx[V], tid int) V {
	defer d.haz.ClearAll(tid)
	backoffScanCount := d.scanCountStart

	if d.elimination {
		c.elimTable.InsertPop(tid)
	}

	for {
		res := d.oracle(c, tid)
		buf, idx := res.edge.buf, res.edge.index
		s := buf.load(idx)

		if s.kind != kindValue {
			// Nothing to pop on this side right now. Give a concurrent
			// push one chance to pair with us via elimination before
			// reporting empty; either way our published slot is reset.
			if d.elimination {
				if v, ok := c.elimTable.TryEliminatePop(backoffScanCount, tid); ok {
					return v
				}
				if v, ok := c.elimTable.RemovePop(tid); ok {
					return v
				}
			}
			return d.empty
		}

		// Anchor on the far slot (still free, or the far link) before
		// claiming the near one.
		far := idx + c.off.farDir
		farSlot := buf.load(far)
		anchored := (farSlot.kind == c.off.farKind || far == c.off.farLink) && buf.casSafe(far, farSlot)

		if idx == c.off.nearValue {
			if anchored && buf.casKind(idx, s, kindSealed) {
				d.retire(buf, tid)
				if d.elimination {
					c.elimTable.RemovePop(tid)
				}
				return s.value
			}
		} else if anchored && buf.casKind(idx, s, c.off.farKind) {
			buf.localHint(c.side).Store(int64(idx))
			if d.elimination {
				c.elimTable.RemovePop(tid)
			}
			return s.value
		}

		// The structural attempt lost a race: give elimination a chance
		// to pair us with a waiting push, then check passively whether a
		// peer already paired with us, before looping back to the
		// oracle.
		if d.elimination {
			if v, ok := c.elimTable.TryEliminatePop(backoffScanCount, tid); ok {
				return v
			}
			if v, ok := c.elimTable.RemovePop(tid); ok {
				return v
			}
			c.elimTable.InsertPop(tid)
		}

		backoffScanCount = backoff(backoffScanCount, d.threadCount)
	}
}
