// Package fec implements a receiver-side Forward Error Correction engine for
// package tcp. A sender may transmit parity packets whose payload is the XOR
// of several recent data segments; on loss of a data segment the receiver
// reconstructs the missing bytes from the parity packet plus the surviving
// segments, avoiding a round trip.
package fec

import (
	"log/slog"

	"github.com/licseu/net-tcp-fec/internal"
	"github.com/licseu/net-tcp-fec/tcp"
	"github.com/rs/xid"
)

// CodingType selects the coding scheme a connection's FEC state uses.
type CodingType uint8

const (
	// NONE disables FEC on the connection.
	NONE CodingType = iota
	// XOR_ALL is the contiguous coding scheme: every block in the encoded
	// range participates, block_skip = 0.
	XOR_ALL
	// XOR_SKIP_1 is the 1-interleaved coding scheme: one unencoded block is
	// skipped between every pair of encoded blocks, block_skip = 1.
	XOR_SKIP_1
)

func (t CodingType) String() string {
	switch t {
	case NONE:
		return "NONE"
	case XOR_ALL:
		return "XOR_ALL"
	case XOR_SKIP_1:
		return "XOR_SKIP_1"
	default:
		return "CodingType(?)"
	}
}

// Config configures a call to Engine.Enable. The zero value of every field
// means "use the package default".
type Config struct {
	Type                   CodingType
	QueueLimit             int
	MaxConsecutiveFailures int
	Metrics                *Metrics
}

const (
	defaultQueueLimit             = 16 * 1024
	defaultMaxConsecutiveFailures = 4
)

// logger is the package-local structured-logging helper, mirroring the
// pattern used throughout package tcp.
type logger struct{ log *slog.Logger }

func (l logger) error(msg string, attrs ...slog.Attr) { internal.LogAttrs(l.log, slog.LevelError, msg, attrs...) }
func (l logger) warn(msg string, attrs ...slog.Attr)  { internal.LogAttrs(l.log, slog.LevelWarn, msg, attrs...) }
func (l logger) debug(msg string, attrs ...slog.Attr) { internal.LogAttrs(l.log, slog.LevelDebug, msg, attrs...) }
func (l logger) trace(msg string, attrs ...slog.Attr) { internal.LogAttrs(l.log, internal.LevelTrace, msg, attrs...) }

// Engine is the per-connection FEC state machine. The zero value is a
// disabled Engine with no logger; NewEngine sets the logger and Enable
// activates it.
type Engine struct {
	logger
	episode xid.ID
	metrics *Metrics

	typ  CodingType
	flag pendingFlags

	win window

	maxConsecutiveFailures int
	consecutiveFailures    int
	warnedMissingOption    bool

	lostSeq tcp.Value
	lostLen tcp.Size
}

var _ tcp.FECHandler = (*Engine)(nil)

// NewEngine constructs a disabled Engine. Call Enable to activate it for a
// connection, typically right after the handshake completes.
func NewEngine(log *slog.Logger) *Engine {
	return &Engine{logger: logger{log: log}}
}

// SetLogger replaces the Engine's logger.
func (e *Engine) SetLogger(log *slog.Logger) { e.logger = logger{log: log} }

// Type returns the coding scheme currently in effect, NONE if disabled.
func (e *Engine) Type() CodingType { return e.typ }

// Retain implements tcp.FECHandler: it is called exactly once per in-order
// data segment, at the moment it is delivered to the upper layer.
func (e *Engine) Retain(seg tcp.Segment, payload []byte, ctx tcp.TransportContext) {
	if e.typ == NONE || seg.DATALEN == 0 {
		return
	}
	evicted := e.win.retain(seg, payload)
	if e.metrics != nil {
		e.metrics.observeRetain(e.win.bytes)
		if evicted > 0 {
			e.metrics.observeEviction(evicted)
		}
	}
	e.trace("fec:retain", slog.Uint64("seq", uint64(seg.SEQ)), slog.Int("len", len(payload)), slog.Int("queued", e.win.bytes))
}

// PendingFlags returns the FEC flag byte to stamp on the next outgoing
// segment's FEC option, clearing RECOVERY_SUCCESSFUL and RECOVERY_FAILED.
// RECOVERY_CWR is returned but stays set.
func (e *Engine) PendingFlags() uint8 {
	f := e.flag
	e.flag &^= flagRecoverySuccessful | flagRecoveryFailed
	return uint8(f)
}

// StampOption writes the outgoing FEC option to dst and returns the number
// of bytes written, 0 if FEC is disabled or dst is too small. A pending
// RECOVERY_FAILED takes the long form carrying (lost_seq, lost_len); every
// other case, including the no-flags-pending steady state, takes the short
// form so the peer always has the coding type's option present to parse.
func (e *Engine) StampOption(dst []byte) int {
	if e.typ == NONE {
		return 0
	}
	flags := pendingFlags(e.PendingFlags())
	if flags.HasAny(flagRecoveryFailed) {
		if len(dst) < 12 {
			return 0
		}
		return PutRecoveryFailed(dst, flags, e.lostSeq, e.lostLen)
	}
	if len(dst) < shortOptionLen {
		return 0
	}
	return PutShort(dst, flags)
}

// Disable tears down all FEC state for the connection, per §4.6: used on
// explicit teardown and under memory pressure.
func (e *Engine) Disable() {
	if e.typ == NONE {
		return
	}
	e.debug("fec:disable", slog.String("episode", e.episode.String()))
	e.typ = NONE
	e.flag = 0
	e.lostLen = 0
	e.win.purge()
	e.consecutiveFailures = 0
	e.warnedMissingOption = false
	if e.metrics != nil {
		e.metrics.observeDisable()
	}
}

// Enable activates FEC on the connection with the given configuration.
func (e *Engine) Enable(cfg Config) {
	limit := cfg.QueueLimit
	if limit <= 0 {
		limit = defaultQueueLimit
	}
	maxFail := cfg.MaxConsecutiveFailures
	if maxFail <= 0 {
		maxFail = defaultMaxConsecutiveFailures
	}
	e.typ = cfg.Type
	e.flag = 0
	e.lostLen = 0
	e.consecutiveFailures = 0
	e.warnedMissingOption = false
	e.maxConsecutiveFailures = maxFail
	e.metrics = cfg.Metrics
	e.win = window{limit: tcp.Size(limit)}
	e.episode = xid.New()
	e.debug("fec:enable", slog.String("type", e.typ.String()), slog.String("episode", e.episode.String()))
}

// InheritFromListener activates a child connection's FEC state from its
// parent listener's negotiated configuration, per §4.6's inheritance rule.
// high_seq is initialized to snd_nxt so the first RECOVERY_SUCCESSFUL
// triggers exactly one window reduction rather than being treated as a
// duplicate of a prior episode.
func (e *Engine) InheritFromListener(cfg Config, ctx tcp.TransportContext) {
	e.Enable(cfg)
	ctx.SetHighSeq(ctx.SendNext())
}
