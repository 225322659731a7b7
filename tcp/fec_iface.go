package tcp

// TransportContext is the capability set the host transport exposes to a
// FECHandler at each entry point: the connection's in-order sequence
// counter, its out-of-order and SACK collaborators, congestion-control
// hooks, and the primitives needed to hand a synthesized segment back into
// the normal receive path. It is passed explicitly by the caller rather than
// reached for through a global, so a FECHandler never touches connection
// state it wasn't handed.
type TransportContext interface {
	// RecvNext returns the connection's current in-order sequence counter.
	RecvNext() Value
	// SendNext returns the connection's next sequence number to send,
	// used to set high_seq when gating repeated cwnd reductions.
	SendNext() Value
	// HighSeq and SetHighSeq read and write the sequence number up to which
	// further RECOVERY_SUCCESSFUL-triggered cwnd reductions are suppressed.
	HighSeq() Value
	SetHighSeq(Value)
	// CWND and SetCWND read and write the congestion window.
	CWND() Size
	SetCWND(Size)
	// SSThresh invokes the current congestion-control module's ssthresh
	// computation; the FECHandler applies min(cwnd, ssthresh) itself.
	SSThresh() Size
	// IterateOOOFrom reads up to maxBytes of contiguous payload starting at
	// seq from the out-of-order reassembly queue. short reports whether a
	// gap, RST or SYN was hit before maxBytes bytes were produced.
	IterateOOOFrom(seq Value, maxBytes Size) (data []byte, short bool)
	// TrimAgainstSACK returns how many trailing bytes of [seq, seq+length)
	// a SACK block already covers.
	TrimAgainstSACK(seq Value, length Size) Size
	// MarkLost marks every unacked, not-yet-SACKed segment in the
	// retransmission queue fully inside [seq, end) as lost.
	MarkLost(seq, end Value)
	// SubmitRecovered hands a synthesized in-order segment to the
	// established-state receive entry point as if it had just arrived.
	SubmitRecovered(seg Segment, payload []byte) error
	// RequestImmediateACK asks the transport to emit an ACK for the current
	// connection without waiting for the normal ACK-coalescing delay.
	RequestImmediateACK()
}

// FECHandler is the contract Handler dispatches into when it recognizes the
// FEC experimental option on an incoming segment, or needs to react to FEC
// flags on an incoming ACK. *fec.Engine implements this interface; Handler
// never imports package fec directly, so the dependency runs one way.
type FECHandler interface {
	// Retain is called exactly once per in-order data segment, at the
	// moment it is delivered to the upper layer.
	Retain(seg Segment, payload []byte, ctx TransportContext)
	// HandleEncoded processes a segment whose FEC option carries ENCODED.
	// consumed reports whether the segment was fully handled by the FEC
	// engine (decoded, or dropped) and should not reach the normal
	// data-queue logic.
	HandleEncoded(optData []byte, seg Segment, payload []byte, ctx TransportContext) (consumed bool)
	// ReactToACK processes the FEC flags, if any, carried by an incoming
	// ACK, before the transport's own SACK processing runs.
	ReactToACK(optData []byte, seg Segment, state State, ctx TransportContext)
	// PendingFlags returns the FEC flag byte that should be stamped onto
	// the next outgoing segment's FEC option, clearing its one-shot pending
	// bits; bookkeeping bits such as RECOVERY_CWR may stay set.
	PendingFlags() uint8
	// StampOption writes the outgoing FEC option to dst and returns the
	// number of bytes written, 0 if there is nothing to stamp.
	StampOption(dst []byte) int
	// Disable tears down all FEC state for the connection: used on
	// explicit teardown and under memory pressure.
	Disable()
}
