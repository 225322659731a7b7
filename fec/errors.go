package fec

import "errors"

var (
	errShortOption   = errors.New("fec: option too short to decode")
	errBadMagic      = errors.New("fec: magic mismatch, not an FEC option")
	errNotLongOption = errors.New("fec: option is not a long-form FEC option")

	// ErrUnknownCodingType names a coding scheme this engine does not
	// implement. No function in this package returns it: Enable accepts any
	// CodingType, and decoding treats every type other than XOR_SKIP_1 the
	// way it treats XOR_ALL.
	ErrUnknownCodingType = errors.New("fec: unknown coding type")
	// ErrAllocation marks a transient failure to allocate the decode
	// episode's working buffer.
	ErrAllocation = errors.New("fec: allocation failure")
	// ErrLinearization marks a transient failure to make a segment's
	// payload byte-addressable ahead of XOR decoding.
	ErrLinearization = errors.New("fec: linearization failure")
)
