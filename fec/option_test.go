package fec

import (
	"testing"

	"github.com/licseu/net-tcp-fec/tcp"
)

func TestDecodeOptionShortForm(t *testing.T) {
	var buf [shortOptionLen]byte
	PutShort(buf[:], flagRecoverySuccessful|flagRecoveryCWR)

	opt, err := DecodeOption(buf[2:])
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !opt.SawFEC {
		t.Fatal("want SawFEC true")
	}
	if !opt.Flags.HasAny(flagRecoverySuccessful) || !opt.Flags.HasAny(flagRecoveryCWR) {
		t.Fatalf("want both flags preserved, got %08b", opt.Flags)
	}
	if opt.Flags.HasAny(flagEncoded) {
		t.Fatal("want ENCODED unset on short form")
	}
}

func TestDecodeOptionLongFormEncoded(t *testing.T) {
	var buf [12]byte
	PutEncoded(buf[:], 0, Value(12345), Size(1460))

	opt, err := DecodeOption(buf[2:])
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !opt.Flags.HasAny(flagEncoded) {
		t.Fatal("want ENCODED set")
	}
	if opt.EncSeq != 12345 {
		t.Fatalf("want enc_seq 12345, got %d", opt.EncSeq)
	}
	if opt.EncLen != 1460 {
		t.Fatalf("want enc_len 1460, got %d", opt.EncLen)
	}
}

func TestDecodeOptionLongFormRecoveryFailed(t *testing.T) {
	var buf [12]byte
	PutRecoveryFailed(buf[:], 0, Value(99), Size(500))

	opt, err := DecodeOption(buf[2:])
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !opt.Flags.HasAny(flagRecoveryFailed) {
		t.Fatal("want RECOVERY_FAILED set")
	}
	if opt.LostSeq != 99 || opt.LostLen != 500 {
		t.Fatalf("want (99, 500), got (%d, %d)", opt.LostSeq, opt.LostLen)
	}
}

func TestDecodeOptionRejectsBadMagic(t *testing.T) {
	data := []byte{0x00, 0x00, byte(flagEncoded)}
	_, err := DecodeOption(data)
	if err != errBadMagic {
		t.Fatalf("want errBadMagic, got %v", err)
	}
}

func TestDecodeOptionRejectsShort(t *testing.T) {
	_, err := DecodeOption([]byte{0xFE})
	if err != errShortOption {
		t.Fatalf("want errShortOption, got %v", err)
	}
}

func TestRewriteLongToShort(t *testing.T) {
	opt := make([]byte, 12)
	PutEncoded(opt, flagRecoveryCWR, Value(1), Size(2))

	err := RewriteLongToShort(opt)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if opt[1] != shortOptionLen {
		t.Fatalf("want length byte rewritten to %d, got %d", shortOptionLen, opt[1])
	}
	gotFlags := pendingFlags(opt[4])
	if gotFlags.HasAny(flagEncoded) {
		t.Fatal("want ENCODED cleared")
	}
	if !gotFlags.HasAny(flagRecoveryCWR) {
		t.Fatal("want unrelated flags preserved")
	}
	for i := shortOptionLen; i < len(opt); i++ {
		if tcp.OptionKind(opt[i]) != tcp.OptNop {
			t.Fatalf("want tail padded with NOP, byte %d = %#x", i, opt[i])
		}
	}
}

func TestRewriteLongToShortRejectsWrongKind(t *testing.T) {
	opt := make([]byte, 12)
	PutEncoded(opt, 0, Value(1), Size(2))
	opt[0] = byte(tcp.OptNop)

	err := RewriteLongToShort(opt)
	if err != errNotLongOption {
		t.Fatalf("want errNotLongOption, got %v", err)
	}
}
