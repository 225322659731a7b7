package fec

import "github.com/licseu/net-tcp-fec/tcp"

// Result is the outcome of a decode episode.
type Result uint8

const (
	NoLoss Result = iota
	LossRecovered
	LossUnrecovered
)

func (r Result) String() string {
	switch r {
	case NoLoss:
		return "NO_LOSS"
	case LossRecovered:
		return "LOSS_RECOVERED"
	case LossUnrecovered:
		return "LOSS_UNRECOVERED"
	default:
		return "Result(?)"
	}
}

// Recovered describes the missing block a decode episode reconstructed.
type Recovered struct {
	Seq     tcp.Value
	Len     tcp.Size
	Payload []byte
}

// decode implements the §4.3 XOR recovery kernel for a parity segment whose
// payload is the running XOR of every encoded block in [encSeq, encSeq+encLen),
// aligned to encSeq. Every encoded block folds into the same mss-sized
// accumulator at offset 0 — the parity payload is one MSS-sized rollup, not
// one slot per block — so recovering a missing block is simply XORing every
// other encoded block's bytes out of that rollup.
//
// For XOR_ALL every block in range participates. For XOR_SKIP_1 every other
// block (starting with the second) is skipped: it was never encoded and is
// neither read nor checked. At most one encoded block may be found missing;
// a second missing encoded block fails the episode.
func (e *Engine) decode(ctx tcp.TransportContext, parity []byte, encSeq tcp.Value, encLen tcp.Size) (Result, Recovered, error) {
	rcvNxt := ctx.RecvNext()
	endSeq := tcp.Add(encSeq, encLen)
	if endSeq.LessThanEq(rcvNxt) {
		return NoLoss, Recovered{}, nil
	}
	mss := tcp.Size(len(parity))
	if mss == 0 {
		return LossUnrecovered, Recovered{}, ErrLinearization
	}
	acc := make([]byte, len(parity))
	copy(acc, parity)

	skipBlock := e.typ == XOR_SKIP_1
	encodedTurn := true
	haveMissing := false
	var missSeq tcp.Value
	var missLen tcp.Size

	next := encSeq
	for next.LessThan(endSeq) {
		blockLen := mss
		if remaining := tcp.Sizeof(next, endSeq); remaining < blockLen {
			blockLen = remaining
		}
		if encodedTurn {
			data, ok := e.readEncodedBlock(ctx, next, blockLen)
			if ok {
				xorInto(acc[:blockLen], data)
			} else if !haveMissing {
				haveMissing = true
				missSeq, missLen = next, blockLen
			} else {
				return LossUnrecovered, Recovered{}, nil
			}
		}
		next = tcp.Add(next, blockLen)
		if skipBlock {
			encodedTurn = !encodedTurn
		}
	}

	if !haveMissing {
		return NoLoss, Recovered{}, nil
	}
	return LossRecovered, Recovered{
		Seq:     missSeq,
		Len:     missLen,
		Payload: acc[:missLen],
	}, nil
}

// readEncodedBlock reads an encoded block's bytes, trying the reference
// window first (it holds delivered in-order data) and the out-of-order
// queue second (it holds data that arrived ahead of rcv_nxt). A segment
// carrying RST or SYN terminates either source as if at a gap (§4.3).
func (e *Engine) readEncodedBlock(ctx tcp.TransportContext, seq tcp.Value, length tcp.Size) ([]byte, bool) {
	data, short := e.win.iterateFrom(seq, length)
	if !short {
		return data, true
	}
	data, short = ctx.IterateOOOFrom(seq, length)
	return data, !short
}

func xorInto(dst, src []byte) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] ^= src[i]
	}
}
