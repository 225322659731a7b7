package fec

import (
	"testing"

	"github.com/licseu/net-tcp-fec/tcp"
)

func TestMemoryPressurePruneDisablesAndPurges(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	e.win.retain(tcp.Segment{SEQ: 1}, []byte("data"))

	e.MemoryPressurePrune()

	if e.Type() != NONE {
		t.Fatalf("want engine disabled, got %s", e.Type())
	}
	if e.QueuedBytes() != 0 {
		t.Fatalf("want window purged, got %d queued bytes", e.QueuedBytes())
	}
}

func TestMemoryPressurePruneOnDisabledEngineIsNoOp(t *testing.T) {
	e := NewEngine(nil)
	e.MemoryPressurePrune() // must not panic on the zero-value engine
	if e.Type() != NONE {
		t.Fatalf("want NONE, got %s", e.Type())
	}
}

func TestEpisodeChangesAcrossEnableCalls(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	first := e.Episode()
	e.Disable()
	e.Enable(Config{Type: XOR_ALL})
	second := e.Episode()

	if first == "" || second == "" {
		t.Fatal("want non-empty episode IDs")
	}
	if first == second {
		t.Fatal("want a fresh episode ID on every Enable")
	}
}

func TestStampOptionRoundTripsRecoverySuccessful(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	e.flag |= flagRecoverySuccessful

	var buf [12]byte
	n := e.StampOption(buf[:])
	if n != shortOptionLen {
		t.Fatalf("want short form (%d bytes) for a non-failure flag set, got %d", shortOptionLen, n)
	}
	opt, err := DecodeOption(buf[2:n])
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !opt.Flags.HasAny(flagRecoverySuccessful) {
		t.Fatal("want RECOVERY_SUCCESSFUL round-tripped through StampOption")
	}
	// PendingFlags is consumed by the first StampOption call.
	if e.flag.HasAny(flagRecoverySuccessful) {
		t.Fatal("want pending flag cleared after stamping")
	}
}

func TestStampOptionUsesLongFormOnRecoveryFailed(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	e.flag |= flagRecoveryFailed
	e.lostSeq = 777
	e.lostLen = 64

	var buf [12]byte
	n := e.StampOption(buf[:])
	if n != 12 {
		t.Fatalf("want long form (12 bytes) on RECOVERY_FAILED, got %d", n)
	}
	opt, err := DecodeOption(buf[2:n])
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if opt.LostSeq != 777 || opt.LostLen != 64 {
		t.Fatalf("want (777, 64), got (%d, %d)", opt.LostSeq, opt.LostLen)
	}
}

func TestStampOptionDisabledEngineWritesNothing(t *testing.T) {
	e := NewEngine(nil)
	var buf [12]byte
	n := e.StampOption(buf[:])
	if n != 0 {
		t.Fatalf("want 0 bytes written for a disabled engine, got %d", n)
	}
}
