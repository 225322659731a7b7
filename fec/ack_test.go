package fec

import (
	"testing"

	"github.com/licseu/net-tcp-fec/tcp"
)

func TestReactToACKReducesCWNDOnRecoverySuccessful(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	ctx := &fakeTransport{
		cwnd:     10000,
		ssthresh: 4000,
		highSeq:  0,
		sendNext: 9000,
	}

	var optBuf [shortOptionLen]byte
	PutShort(optBuf[:], flagRecoverySuccessful)
	seg := tcp.Segment{Flags: tcp.FlagACK, ACK: 5000}

	e.ReactToACK(optBuf[2:], seg, tcp.StateEstablished, ctx)

	if ctx.CWND() != 4000 {
		t.Fatalf("want cwnd reduced to ssthresh 4000, got %d", ctx.CWND())
	}
	if ctx.HighSeq() != 9000 {
		t.Fatalf("want high_seq advanced to snd_nxt, got %d", ctx.HighSeq())
	}
}

func TestReactToACKSuppressesRepeatReductionUntilHighSeqAcked(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	ctx := &fakeTransport{cwnd: 10000, ssthresh: 4000, highSeq: 6000, sendNext: 9000}

	var optBuf [shortOptionLen]byte
	PutShort(optBuf[:], flagRecoverySuccessful)
	seg := tcp.Segment{Flags: tcp.FlagACK, ACK: 5000} // ACK is behind high_seq

	e.ReactToACK(optBuf[2:], seg, tcp.StateEstablished, ctx)

	if ctx.CWND() != 10000 {
		t.Fatalf("want cwnd untouched while ack is behind high_seq, got %d", ctx.CWND())
	}
}

func TestReactToACKRecoveryCWRClearsPendingSuccessful(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	e.flag |= flagRecoverySuccessful

	var optBuf [shortOptionLen]byte
	PutShort(optBuf[:], flagRecoveryCWR)
	ctx := &fakeTransport{}
	seg := tcp.Segment{Flags: tcp.FlagACK}

	e.ReactToACK(optBuf[2:], seg, tcp.StateEstablished, ctx)

	if e.flag.HasAny(flagRecoverySuccessful) {
		t.Fatal("want RECOVERY_SUCCESSFUL cleared on peer's RECOVERY_CWR")
	}
}

func TestReactToACKRecoveryFailedMarksLost(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	ctx := &fakeTransport{}

	var optBuf [12]byte
	PutRecoveryFailed(optBuf[:], 0, 500, 40)
	seg := tcp.Segment{Flags: tcp.FlagACK}

	e.ReactToACK(optBuf[2:], seg, tcp.StateEstablished, ctx)

	if len(ctx.markedLost) != 1 {
		t.Fatalf("want exactly one MarkLost call, got %d", len(ctx.markedLost))
	}
	got := ctx.markedLost[0]
	if got.seq != 500 || got.end != 540 {
		t.Fatalf("want marked lost range [500,540), got [%d,%d)", got.seq, got.end)
	}
}

func TestReactToACKNoOptionIsNoOp(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	ctx := &fakeTransport{cwnd: 10000}
	seg := tcp.Segment{Flags: tcp.FlagFIN | tcp.FlagACK}

	e.ReactToACK(nil, seg, tcp.StateLastAck, ctx)

	if ctx.CWND() != 10000 || len(ctx.markedLost) != 0 {
		t.Fatal("want no side effects when the ACK carries no FEC option")
	}
}

func TestReactToACKDisabledEngineIsNoOp(t *testing.T) {
	e := NewEngine(nil)
	ctx := &fakeTransport{cwnd: 10000}

	var optBuf [shortOptionLen]byte
	PutShort(optBuf[:], flagRecoverySuccessful)
	e.ReactToACK(optBuf[2:], tcp.Segment{Flags: tcp.FlagACK}, tcp.StateEstablished, ctx)

	if ctx.CWND() != 10000 {
		t.Fatal("want disabled engine to ignore ACK reaction entirely")
	}
}
