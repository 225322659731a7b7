package fec

import (
	"log/slog"

	"github.com/licseu/net-tcp-fec/tcp"
)

// HandleEncoded implements tcp.FECHandler: it is invoked when an incoming
// segment carries an ENCODED FEC option. consumed reports whether the
// segment was fully handled here (decoded or dropped) and must not reach the
// normal data-queue logic — the parity segment itself never carries
// deliverable payload.
func (e *Engine) HandleEncoded(optData []byte, seg tcp.Segment, payload []byte, ctx tcp.TransportContext) (consumed bool) {
	if e.typ == NONE {
		return false
	}
	opt, err := DecodeOption(optData)
	if err != nil {
		e.onMissingOption(seg)
		return true // drop: malformed FEC option, MissingOptionOnEncodedClaim
	}
	if !opt.Flags.HasAny(flagEncoded) {
		return false // short-form option; not a parity segment, let it flow through normally
	}

	result, rec, err := e.decode(ctx, payload, opt.EncSeq, opt.EncLen)
	if err != nil {
		e.onTransientFailure(err)
		return true
	}
	e.consecutiveFailures = 0

	switch result {
	case NoLoss:
		e.observeDecode(result)
		return true
	case LossRecovered:
		e.synthesize(ctx, rec, seg.WND)
		e.observeDecode(result)
		return true
	default: // LossUnrecovered
		e.lostSeq = ctx.RecvNext()
		e.lostLen = tcp.Sizeof(ctx.RecvNext(), tcp.Add(opt.EncSeq, opt.EncLen))
		e.flag |= flagRecoveryFailed
		ctx.RequestImmediateACK()
		e.observeDecode(result)
		return true
	}
}

// synthesize implements §4.4: trims the recovered block against current SACK
// coverage, submits what remains to the host transport's in-order receive
// path, and marks RECOVERY_SUCCESSFUL pending on success.
func (e *Engine) synthesize(ctx tcp.TransportContext, rec Recovered, wnd tcp.Size) {
	trimmed := ctx.TrimAgainstSACK(rec.Seq, rec.Len)
	if trimmed >= rec.Len {
		return // fully covered by an existing SACK block; nothing to submit.
	}
	rec.Len -= trimmed
	payload := rec.Payload[:rec.Len]
	seg := tcp.Segment{SEQ: rec.Seq, DATALEN: rec.Len, WND: wnd}
	err := ctx.SubmitRecovered(seg, payload)
	if err != nil {
		e.debug("fec:synth-reject", slog.String("err", err.Error()))
		return
	}
	e.flag |= flagRecoverySuccessful
}

func (e *Engine) onMissingOption(seg tcp.Segment) {
	if !e.warnedMissingOption {
		e.warnedMissingOption = true
		e.warn("fec:missing-option-on-encoded-claim", slog.Uint64("seq", uint64(seg.SEQ)))
	}
}

func (e *Engine) onTransientFailure(err error) {
	e.consecutiveFailures++
	e.debug("fec:decode-transient-failure", slog.String("err", err.Error()))
	if e.consecutiveFailures >= e.maxConsecutiveFailures {
		e.warn("fec:disable-after-repeated-failures", slog.Uint64("consecutive", uint64(e.consecutiveFailures)))
		e.Disable()
	}
}

func (e *Engine) observeDecode(result Result) {
	e.debug("fec:decode", slog.String("result", result.String()))
	if e.metrics != nil {
		e.metrics.observeDecode(result)
	}
}
