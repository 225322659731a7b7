package fec

import (
	"encoding/binary"

	"github.com/licseu/net-tcp-fec/tcp"
)

// magic disambiguates the FEC option from any other user of the RFC 6994
// experimental option kind.
const magic uint16 = 0xFEC5

// pendingFlags is the FEC option's 8-bit flag field.
type pendingFlags uint8

const (
	flagEncoded Flags = 1 << iota
	flagRecoverySuccessful
	flagRecoveryCWR
	flagRecoveryFailed
)

// Flags is the FEC option's flag field, exported so callers composing
// diagnostics can inspect it.
type Flags = pendingFlags

func (f pendingFlags) HasAny(mask pendingFlags) bool { return f&mask != 0 }

// shortOptionLen is the wire length of the short-form option (kind, len,
// magic:16, flags:8).
const shortOptionLen = 5

// ParsedOption is the transient, per-segment result of decoding a segment's
// FEC option.
type ParsedOption struct {
	SawFEC  bool
	Flags   pendingFlags
	EncSeq  tcp.Value
	EncLen  tcp.Size
	LostSeq tcp.Value
	LostLen tcp.Size
}

// DecodeOption parses the FEC option's data bytes (the option payload after
// kind and length, i.e. starting at the magic field) into a ParsedOption.
// Short form carries only flags; long form additionally carries enc_seq:32 +
// enc_len:24, or lost_seq:32 + lost_len:24 when RECOVERY_FAILED is set.
func DecodeOption(data []byte) (ParsedOption, error) {
	if len(data) < 3 {
		return ParsedOption{}, errShortOption
	}
	gotMagic := binary.BigEndian.Uint16(data[0:2])
	if gotMagic != magic {
		return ParsedOption{}, errBadMagic
	}
	p := ParsedOption{SawFEC: true, Flags: pendingFlags(data[2])}
	rest := data[3:]
	switch {
	case p.Flags.HasAny(flagEncoded):
		if len(rest) < 7 {
			return ParsedOption{}, errShortOption
		}
		p.EncSeq = tcp.Value(binary.BigEndian.Uint32(rest[0:4]))
		p.EncLen = tcp.Size(uint24(rest[4:7]))
	case p.Flags.HasAny(flagRecoveryFailed):
		if len(rest) < 7 {
			return ParsedOption{}, errShortOption
		}
		p.LostSeq = tcp.Value(binary.BigEndian.Uint32(rest[0:4]))
		p.LostLen = tcp.Size(uint24(rest[4:7]))
	}
	return p, nil
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

// PutShort encodes a short-form FEC option (flags only) into dst, returning
// the number of bytes written. dst must have length ≥ 5.
func PutShort(dst []byte, flags pendingFlags) int {
	dst[0] = byte(tcp.OptExperimental)
	dst[1] = shortOptionLen
	binary.BigEndian.PutUint16(dst[2:4], magic)
	dst[4] = byte(flags)
	return shortOptionLen
}

// PutEncoded encodes a long-form ENCODED FEC option into dst, returning the
// number of bytes written. dst must have length ≥ 12.
func PutEncoded(dst []byte, flags pendingFlags, encSeq tcp.Value, encLen tcp.Size) int {
	const n = 12
	dst[0] = byte(tcp.OptExperimental)
	dst[1] = n
	binary.BigEndian.PutUint16(dst[2:4], magic)
	dst[4] = byte(flags | flagEncoded)
	binary.BigEndian.PutUint32(dst[5:9], uint32(encSeq))
	putUint24(dst[9:12], uint32(encLen))
	return n
}

// PutRecoveryFailed encodes a long-form RECOVERY_FAILED FEC option into dst,
// returning the number of bytes written. dst must have length ≥ 12.
func PutRecoveryFailed(dst []byte, flags pendingFlags, lostSeq tcp.Value, lostLen tcp.Size) int {
	const n = 12
	dst[0] = byte(tcp.OptExperimental)
	dst[1] = n
	binary.BigEndian.PutUint16(dst[2:4], magic)
	dst[4] = byte(flags | flagRecoveryFailed)
	binary.BigEndian.PutUint32(dst[5:9], uint32(lostSeq))
	putUint24(dst[9:12], uint32(lostLen))
	return n
}

// RewriteLongToShort rewrites a long-form FEC option in place to the short
// form: it clears the ENCODED flag, preserves the remaining flag bits, and
// overwrites the now-unused enc_seq/enc_len bytes with NOP padding so the
// enclosing option buffer's total length is unchanged. opt must
// be the full on-wire option bytes including the kind/length header, and
// must already have been validated as a long-form FEC option (length 12).
func RewriteLongToShort(opt []byte) error {
	if len(opt) < 12 || tcp.OptionKind(opt[0]) != tcp.OptExperimental {
		return errNotLongOption
	}
	flags := pendingFlags(opt[4]) &^ flagEncoded
	opt[1] = shortOptionLen
	opt[4] = byte(flags)
	for i := shortOptionLen; i < len(opt); i++ {
		opt[i] = byte(tcp.OptNop)
	}
	return nil
}
