package fec

import (
	"bytes"
	"testing"

	"github.com/licseu/net-tcp-fec/tcp"
)

func TestHandleEncodedIgnoresShortFormOption(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	ctx := &fakeTransport{}

	var optBuf [shortOptionLen]byte
	PutShort(optBuf[:], flagRecoverySuccessful)

	consumed := e.HandleEncoded(optBuf[2:], tcp.Segment{SEQ: 100, DATALEN: 4}, []byte("data"), ctx)
	if consumed {
		t.Fatal("want short-form FEC option to fall through, not be consumed")
	}
}

func TestHandleEncodedDropsMalformedOption(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	ctx := &fakeTransport{}

	consumed := e.HandleEncoded([]byte{0xAA, 0xAA, 0x00}, tcp.Segment{SEQ: 100}, nil, ctx)
	if !consumed {
		t.Fatal("want malformed option dropped (consumed)")
	}
	if !e.warnedMissingOption {
		t.Fatal("want missing-option warning latched")
	}
}

func TestHandleEncodedRecoversAndSynthesizes(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})

	block1 := []byte("aaaa")
	block2 := []byte("bbbb")
	parity := xorBytes(block1, block2)
	e.win.retain(tcp.Segment{SEQ: 100}, block1)

	ctx := &fakeTransport{recvNext: 104}

	var optBuf [12]byte
	PutEncoded(optBuf[:], 0, 100, 8)

	seg := tcp.Segment{SEQ: 1000, DATALEN: tcp.Size(len(parity)), WND: 4096}
	consumed := e.HandleEncoded(optBuf[2:], seg, parity, ctx)
	if !consumed {
		t.Fatal("want ENCODED parity segment consumed")
	}
	if len(ctx.submitted) != 1 {
		t.Fatalf("want exactly one recovered segment submitted, got %d", len(ctx.submitted))
	}
	sub := ctx.submitted[0]
	if sub.seg.SEQ != 104 {
		t.Fatalf("want recovered segment at seq 104, got %d", sub.seg.SEQ)
	}
	if !bytes.Equal(sub.payload, block2) {
		t.Fatalf("want recovered payload %q, got %q", block2, sub.payload)
	}
	if e.PendingFlags()&uint8(flagRecoverySuccessful) == 0 {
		t.Fatal("want RECOVERY_SUCCESSFUL pending after synthesis")
	}
}

func TestHandleEncodedSynthesizeSkipsFullySACKCovered(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})

	block1 := []byte("aaaa")
	block2 := []byte("bbbb")
	parity := xorBytes(block1, block2)
	e.win.retain(tcp.Segment{SEQ: 100}, block1)

	ctx := &fakeTransport{
		recvNext:  104,
		sackCover: []sackRange{{seq: 104, len: 4}},
	}
	var optBuf [12]byte
	PutEncoded(optBuf[:], 0, 100, 8)

	e.HandleEncoded(optBuf[2:], tcp.Segment{DATALEN: tcp.Size(len(parity))}, parity, ctx)
	if len(ctx.submitted) != 0 {
		t.Fatalf("want no submission when fully SACK-covered, got %d", len(ctx.submitted))
	}
}

func TestHandleEncodedTwoMissingBlocksRequestsImmediateACK(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})

	block1 := []byte("aaaa")
	block2 := []byte("bbbb")
	block3 := []byte("cccc")
	parity := xorBytes(xorBytes(block1, block2), block3)
	e.win.retain(tcp.Segment{SEQ: 100}, block1)
	// block2 and block3 both missing.
	ctx := &fakeTransport{recvNext: 104}

	var optBuf [12]byte
	PutEncoded(optBuf[:], 0, 100, 12)

	consumed := e.HandleEncoded(optBuf[2:], tcp.Segment{DATALEN: tcp.Size(len(parity))}, parity, ctx)
	if !consumed {
		t.Fatal("want unrecoverable parity segment consumed")
	}
	if ctx.immedACKs != 1 {
		t.Fatalf("want exactly one immediate ACK requested, got %d", ctx.immedACKs)
	}
	if e.PendingFlags()&uint8(flagRecoveryFailed) == 0 {
		t.Fatal("want RECOVERY_FAILED pending")
	}
}

func TestEngineDisablesAfterRepeatedTransientFailures(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL, MaxConsecutiveFailures: 2})
	ctx := &fakeTransport{recvNext: 0}

	var optBuf [12]byte
	PutEncoded(optBuf[:], 0, 100, 12)
	// Zero-length parity payload triggers ErrLinearization on every call.
	for i := 0; i < 2; i++ {
		e.HandleEncoded(optBuf[2:], tcp.Segment{}, nil, ctx)
	}
	if e.Type() != NONE {
		t.Fatalf("want engine disabled after %d consecutive transient failures, got type %s", 2, e.Type())
	}
}
