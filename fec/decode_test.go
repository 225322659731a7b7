package fec

import (
	"bytes"
	"testing"

	"github.com/licseu/net-tcp-fec/tcp"
)

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func TestDecodeNoLossWhenEverythingPresent(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})

	block1 := []byte("aaaa")
	block2 := []byte("bbbb")
	block3 := []byte("cccc")
	parity := xorBytes(xorBytes(block1, block2), block3)

	e.win.retain(tcp.Segment{SEQ: 100}, block1)
	e.win.retain(tcp.Segment{SEQ: 104}, block2)
	e.win.retain(tcp.Segment{SEQ: 108}, block3)

	ctx := &fakeTransport{recvNext: 112}
	result, _, err := e.decode(ctx, parity, 100, 12)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if result != NoLoss {
		t.Fatalf("want NoLoss, got %s", result)
	}
}

func TestDecodeRecoversSingleMissingBlockXORAll(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})

	block1 := []byte("aaaa")
	block2 := []byte("bbbb") // missing: only reachable via OOO queue
	block3 := []byte("cccc")
	parity := xorBytes(xorBytes(block1, block2), block3)

	e.win.retain(tcp.Segment{SEQ: 100}, block1)
	// block2 never retained: it is the gap.
	ctx := &fakeTransport{
		recvNext: 104, // contiguous delivery stalled at the gap
		ooo:      []retained{{seq: 108, payload: block3}},
	}

	result, rec, err := e.decode(ctx, parity, 100, 12)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if result != LossRecovered {
		t.Fatalf("want LossRecovered, got %s", result)
	}
	if rec.Seq != 104 {
		t.Fatalf("want recovered block at seq 104, got %d", rec.Seq)
	}
	if !bytes.Equal(rec.Payload, block2) {
		t.Fatalf("want recovered payload %q, got %q", block2, rec.Payload)
	}
}

func TestDecodeRecoversSingleMissingBlockXORSkip1(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_SKIP_1})

	// XOR_SKIP_1: blocks alternate encoded/skipped starting with encoded.
	// Only the encoded blocks (1st, 3rd) participate in the parity.
	encoded1 := []byte("aaaa")
	skipped := []byte("ssss") // never read, never checked
	encoded2 := []byte("cccc") // missing
	parity := xorBytes(encoded1, encoded2)

	e.win.retain(tcp.Segment{SEQ: 100}, encoded1)
	e.win.retain(tcp.Segment{SEQ: 104}, skipped)
	// encoded2 at seq 108 is missing from both window and OOO.
	ctx := &fakeTransport{recvNext: 108}

	result, rec, err := e.decode(ctx, parity, 100, 12)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if result != LossRecovered {
		t.Fatalf("want LossRecovered, got %s", result)
	}
	if rec.Seq != 108 {
		t.Fatalf("want recovered block at seq 108, got %d", rec.Seq)
	}
	if !bytes.Equal(rec.Payload, encoded2) {
		t.Fatalf("want recovered payload %q, got %q", encoded2, rec.Payload)
	}
}

func TestDecodeFailsOnTwoMissingBlocks(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})

	block1 := []byte("aaaa")
	block2 := []byte("bbbb")
	block3 := []byte("cccc")
	parity := xorBytes(xorBytes(block1, block2), block3)

	e.win.retain(tcp.Segment{SEQ: 100}, block1)
	// block2 and block3 both missing.
	ctx := &fakeTransport{recvNext: 104}

	result, _, err := e.decode(ctx, parity, 100, 12)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if result != LossUnrecovered {
		t.Fatalf("want LossUnrecovered with two missing blocks, got %s", result)
	}
}

func TestDecodeShortCircuitsWhenEncodedRangeAlreadyAcked(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	ctx := &fakeTransport{recvNext: 200}

	result, _, err := e.decode(ctx, make([]byte, 4), 100, 12)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if result != NoLoss {
		t.Fatalf("want NoLoss when encoded range already below rcv_nxt, got %s", result)
	}
}
