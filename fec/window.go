package fec

import "github.com/licseu/net-tcp-fec/tcp"

// retained is a cloned reference to a delivered in-order data segment, kept
// past delivery purely for possible XOR recovery. Its payload is never
// handed back out to the upper layer.
type retained struct {
	seq     tcp.Value
	flags   tcp.Flags
	payload []byte
}

func (r retained) last() tcp.Value { return tcp.Add(r.seq, tcp.Size(len(r.payload))) }

// window is a bounded FIFO reference window: a soft-byte-limited retention
// of recently delivered segments, evicted from the head, never split. Same
// bounded-retention discipline as internal.Ring's byte accounting, but over
// a slice of segment-shaped entries rather than raw bytes, since recovery
// needs to know where one segment ends and the next begins to detect gaps
// during range iteration.
type window struct {
	entries []retained
	bytes   int
	limit   tcp.Size
}

// retain appends a clone of seg's reference to the tail of the window, then
// evicts from the head while the byte budget is exceeded. Empty-payload
// segments are never retained (§4.2). Returns the number of bytes evicted
// by this call, if any.
func (w *window) retain(seg tcp.Segment, payload []byte) (evicted int) {
	if len(payload) == 0 {
		return 0
	}
	w.entries = append(w.entries, retained{seq: seg.SEQ, flags: seg.Flags, payload: payload})
	w.bytes += len(payload)
	for len(w.entries) > 1 && tcp.Size(w.bytes-len(w.entries[0].payload)) >= w.limit {
		n := len(w.entries[0].payload)
		w.bytes -= n
		evicted += n
		w.entries = w.entries[1:]
	}
	return evicted
}

// purge drops all retained references.
func (w *window) purge() {
	w.entries = nil
	w.bytes = 0
}

// iterateFrom yields up to maxBytes contiguous payload bytes starting at
// seq. It skips segments entirely before seq, starts at the correct offset
// if seq falls in a segment's interior, and stops at a gap, at a segment
// carrying RST or SYN, or once maxBytes have been produced. short reports
// whether fewer than maxBytes bytes were produced.
func (w *window) iterateFrom(seq tcp.Value, maxBytes tcp.Size) (data []byte, short bool) {
	want := seq
	for _, e := range w.entries {
		if e.last().LessThanEq(want) {
			continue // entirely before seq (or before want after prior iterations)
		}
		if want.LessThan(e.seq) {
			return data, true // gap
		}
		if e.flags.HasAny(tcp.FlagRST | tcp.FlagSYN) {
			return data, true
		}
		offset := int(tcp.Sizeof(e.seq, want))
		chunk := e.payload[offset:]
		remaining := int(maxBytes) - len(data)
		if remaining <= 0 {
			break
		}
		if len(chunk) > remaining {
			chunk = chunk[:remaining]
		}
		data = append(data, chunk...)
		want = tcp.Add(want, tcp.Size(len(chunk)))
		if len(data) >= int(maxBytes) {
			break
		}
	}
	return data, tcp.Size(len(data)) < maxBytes
}
