package tcp

// OOOQueue holds segments that arrived ahead of rcv.NXT, before the gap
// preceding them has been filled. It is a read-only collaborator for decode
// episodes that need to look past the in-order stream: the connection's main
// receive path is responsible for inserting and draining entries as gaps
// close, mirroring the Rxq/RcvdButNotConsumed split found in sliding-window
// reassembly implementations.
type OOOQueue struct {
	slots []oooSlot
}

type oooSlot struct {
	seq     Value
	flags   Flags
	payload []byte
}

// Reset discards all queued segments.
func (q *OOOQueue) Reset() {
	q.slots = q.slots[:0]
}

// Insert records a segment that arrived out of order. Segments are kept
// sorted by sequence number; a duplicate insert at the same sequence replaces
// the previous entry.
func (q *OOOQueue) Insert(seq Value, flags Flags, payload []byte) {
	for i := range q.slots {
		if q.slots[i].seq == seq {
			q.slots[i] = oooSlot{seq, flags, payload}
			return
		}
		if seq.LessThan(q.slots[i].seq) {
			q.slots = append(q.slots, oooSlot{})
			copy(q.slots[i+1:], q.slots[i:])
			q.slots[i] = oooSlot{seq, flags, payload}
			return
		}
	}
	q.slots = append(q.slots, oooSlot{seq, flags, payload})
}

// Drain removes and returns every slot whose sequence equals nxt, advancing
// nxt across each returned slot's payload so the caller can splice them into
// the in-order stream in a single pass. Stops at the first gap.
func (q *OOOQueue) Drain(nxt Value) (drained []oooSlot, newNXT Value) {
	newNXT = nxt
	n := 0
	for n < len(q.slots) && q.slots[n].seq == newNXT {
		newNXT = Add(newNXT, Size(len(q.slots[n].payload)))
		n++
	}
	drained = append(drained, q.slots[:n]...)
	q.slots = append(q.slots[:0], q.slots[n:]...)
	return drained, newNXT
}

// IterateFrom yields up to maxBytes of contiguous payload starting at seq,
// satisfying the tcp.TransportContext OOO-access contract the fec package
// decodes against: it stops at the first gap, at a segment carrying RST or
// SYN, or once maxBytes have been produced. short reports whether fewer than
// maxBytes were available, i.e. a gap or an RST/SYN was hit before maxBytes.
func (q *OOOQueue) IterateFrom(seq Value, maxBytes Size) (data []byte, short bool) {
	want := seq
	for _, s := range q.slots {
		if s.seq.LessThan(want) {
			continue
		}
		if s.seq != want || s.flags.HasAny(FlagRST|FlagSYN) {
			return data, true
		}
		remaining := int(maxBytes) - len(data)
		if remaining <= 0 {
			break
		}
		chunk := s.payload
		if len(chunk) > remaining {
			chunk = chunk[:remaining]
		}
		data = append(data, chunk...)
		want = Add(want, Size(len(s.payload)))
		if len(data) >= int(maxBytes) {
			break
		}
	}
	return data, Size(len(data)) < maxBytes
}
