package tcp

import (
	"errors"
	"log/slog"
)

// Handler implements TransportContext directly: it is the object a
// FECHandler is handed at every HandleEncoded/ReactToACK/Retain call site, and
// it owns the OOOQueue, SACKTracker and congestion-control accessors those
// calls need.
var _ TransportContext = (*Handler)(nil)

func (h *Handler) RecvNext() Value { return h.scb.RecvNext() }
func (h *Handler) SendNext() Value { return h.scb.snd.NXT }

func (h *Handler) HighSeq() Value       { return h.scb.HighSeq() }
func (h *Handler) SetHighSeq(v Value)   { h.scb.SetHighSeq(v) }
func (h *Handler) CWND() Size           { return h.scb.CWND() }
func (h *Handler) SetCWND(cwnd Size)    { h.scb.SetCWND(cwnd) }
func (h *Handler) SSThresh() Size       { return h.scb.SSThresh() }

func (h *Handler) IterateOOOFrom(seq Value, maxBytes Size) ([]byte, bool) {
	return h.ooq.IterateFrom(seq, maxBytes)
}

func (h *Handler) TrimAgainstSACK(seq Value, length Size) Size {
	return h.sack.TrimAgainstSACK(seq, length)
}

func (h *Handler) MarkLost(seq, end Value) {
	h.bufTx.MarkLost(seq, end)
}

// SubmitRecovered hands a segment synthesized by the FEC engine to the
// connection's normal receive path, as if it had arrived from the network
// in-order. It bypasses Recv's frame parsing and FEC dispatch entirely since
// the segment was never actually encoded on the wire.
func (h *Handler) SubmitRecovered(seg Segment, payload []byte) error {
	if len(payload) > h.bufRx.Free() {
		return errors.New("rx buffer full")
	}
	prevState := h.scb.State()
	err := h.scb.Recv(seg)
	if err != nil {
		return err
	}
	if seg.DATALEN != 0 {
		_, err = h.bufRx.Write(payload)
		if err != nil {
			return err
		}
		if h.fec != nil {
			h.fec.Retain(seg, payload, h)
		}
	}
	if prevState != h.scb.State() {
		h.info("tcp.Handler:rx-fec-recovered-statechange", slog.String("old", prevState.String()), slog.String("new", h.scb.State().String()))
	}
	return nil
}

func (h *Handler) RequestImmediateACK() {
	h.scb.RequestImmediateACK()
}
