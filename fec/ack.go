package fec

import (
	"log/slog"

	"github.com/licseu/net-tcp-fec/tcp"
)

// lastAckMissingOptionWorkaround names the narrow condition under which a
// FIN|ACK segment in LAST_ACK state is expected to arrive without an FEC
// option: it is not treated as MissingOptionOnEncodedClaim, it simply falls
// through to the host transport's ordinary ACK path below.
func lastAckMissingOptionWorkaround(seg tcp.Segment, state tcp.State) bool {
	return state == tcp.StateLastAck && seg.Flags.HasAll(tcp.FlagFIN|tcp.FlagACK)
}

// ReactToACK implements tcp.FECHandler: it is invoked from the host
// transport's ACK-processing path, before SACK processing, for every
// incoming ACK on a FEC-enabled connection.
func (e *Engine) ReactToACK(optData []byte, seg tcp.Segment, state tcp.State, ctx tcp.TransportContext) {
	if e.typ == NONE {
		return
	}
	ack := seg.ACK
	opt, err := DecodeOption(optData)
	if err != nil || !opt.SawFEC {
		_ = lastAckMissingOptionWorkaround(seg, state) // no FEC flags either way: nothing to react to.
		return
	}

	if opt.Flags.HasAny(flagRecoveryCWR) {
		e.flag &^= flagRecoverySuccessful
	}

	if opt.Flags.HasAny(flagRecoveryFailed) {
		ctx.MarkLost(opt.LostSeq, tcp.Add(opt.LostSeq, opt.LostLen))
		e.debug("fec:ack-recovery-failed", slog.Uint64("lostseq", uint64(opt.LostSeq)), slog.Uint64("lostlen", uint64(opt.LostLen)))
		return
	}

	if opt.Flags.HasAny(flagRecoverySuccessful) && !e.flag.HasAny(flagRecoveryCWR) && ctx.HighSeq().LessThan(ack) {
		ssthresh := ctx.SSThresh()
		cwnd := ctx.CWND()
		if ssthresh < cwnd {
			cwnd = ssthresh
		}
		ctx.SetCWND(cwnd)
		ctx.SetHighSeq(ctx.SendNext())
		e.flag |= flagRecoveryCWR
		if e.metrics != nil {
			e.metrics.observeCWNDReduction()
		}
		e.debug("fec:ack-recovery-successful-cwnd-reduced", slog.Uint64("cwnd", uint64(cwnd)))
	}
}
