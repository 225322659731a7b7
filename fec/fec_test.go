package fec

import (
	"testing"

	"github.com/licseu/net-tcp-fec/tcp"
)

// fakeTransport is a minimal tcp.TransportContext test double. It keeps
// enough state to exercise the engine without a real Handler/ControlBlock.
type fakeTransport struct {
	recvNext Value
	sendNext Value
	highSeq  Value
	cwnd     Size
	ssthresh Size

	ooo       []retained
	sackCover []sackRange

	markedLost []lostRange
	submitted  []submission
	immedACKs  int
}

type Value = tcp.Value
type Size = tcp.Size

type sackRange struct {
	seq Value
	len Size
}

type lostRange struct{ seq, end Value }

type submission struct {
	seg     tcp.Segment
	payload []byte
}

func (f *fakeTransport) RecvNext() Value     { return f.recvNext }
func (f *fakeTransport) SendNext() Value     { return f.sendNext }
func (f *fakeTransport) HighSeq() Value      { return f.highSeq }
func (f *fakeTransport) SetHighSeq(v Value)  { f.highSeq = v }
func (f *fakeTransport) CWND() Size          { return f.cwnd }
func (f *fakeTransport) SetCWND(c Size)      { f.cwnd = c }
func (f *fakeTransport) SSThresh() Size      { return f.ssthresh }
func (f *fakeTransport) RequestImmediateACK() { f.immedACKs++ }

func (f *fakeTransport) IterateOOOFrom(seq Value, maxBytes Size) ([]byte, bool) {
	w := window{entries: f.ooo}
	return w.iterateFrom(seq, maxBytes)
}

func (f *fakeTransport) TrimAgainstSACK(seq Value, length Size) Size {
	var trimmed Size
	for _, s := range f.sackCover {
		if s.seq.LessThanEq(seq) && seq.LessThan(tcp.Add(s.seq, s.len)) {
			covered := tcp.Sizeof(seq, tcp.Add(s.seq, s.len))
			if covered > trimmed {
				trimmed = covered
			}
		}
	}
	if trimmed > length {
		trimmed = length
	}
	return trimmed
}

func (f *fakeTransport) MarkLost(seq, end Value) {
	f.markedLost = append(f.markedLost, lostRange{seq, end})
}

func (f *fakeTransport) SubmitRecovered(seg tcp.Segment, payload []byte) error {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	f.submitted = append(f.submitted, submission{seg: seg, payload: cp})
	f.recvNext = tcp.Add(f.recvNext, tcp.Size(len(payload)))
	return nil
}

var _ tcp.TransportContext = (*fakeTransport)(nil)

func TestEngineEnableDisableLifecycle(t *testing.T) {
	e := NewEngine(nil)
	if e.Type() != NONE {
		t.Fatalf("zero value engine should be NONE, got %s", e.Type())
	}
	e.Enable(Config{Type: XOR_ALL})
	if e.Type() != XOR_ALL {
		t.Fatalf("want XOR_ALL after Enable, got %s", e.Type())
	}
	if e.MaxConsecutiveFailures() != defaultMaxConsecutiveFailures {
		t.Fatalf("want default failure threshold %d, got %d", defaultMaxConsecutiveFailures, e.MaxConsecutiveFailures())
	}
	e.Disable()
	if e.Type() != NONE {
		t.Fatalf("want NONE after Disable, got %s", e.Type())
	}
	if e.QueuedBytes() != 0 || e.QueuedSegments() != 0 {
		t.Fatalf("want window purged after Disable, got %d bytes %d segments", e.QueuedBytes(), e.QueuedSegments())
	}
}

func TestEngineRetainEvictsUnderByteLimit(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL, QueueLimit: 10})
	ctx := &fakeTransport{}
	seq := Value(1000)
	for i := 0; i < 5; i++ {
		payload := []byte{byte(i), byte(i), byte(i), byte(i)}
		e.Retain(tcp.Segment{SEQ: seq, DATALEN: tcp.Size(len(payload))}, payload, ctx)
		seq = tcp.Add(seq, tcp.Size(len(payload)))
	}
	if e.QueuedBytes() > 10+4 {
		t.Fatalf("want queued bytes bounded near limit, got %d", e.QueuedBytes())
	}
	if e.QueuedSegments() == 0 {
		t.Fatalf("want at least one retained segment")
	}
}

func TestEngineRetainSkipsEmptyPayload(t *testing.T) {
	e := NewEngine(nil)
	e.Enable(Config{Type: XOR_ALL})
	ctx := &fakeTransport{}
	e.Retain(tcp.Segment{SEQ: 100, DATALEN: 0}, nil, ctx)
	if e.QueuedSegments() != 0 {
		t.Fatalf("want empty-payload segment never retained, got %d entries", e.QueuedSegments())
	}
}

func TestInheritFromListenerSetsHighSeq(t *testing.T) {
	e := NewEngine(nil)
	ctx := &fakeTransport{sendNext: 5000}
	e.InheritFromListener(Config{Type: XOR_SKIP_1}, ctx)
	if e.Type() != XOR_SKIP_1 {
		t.Fatalf("want inherited coding type, got %s", e.Type())
	}
	if ctx.HighSeq() != 5000 {
		t.Fatalf("want high_seq initialized to snd_nxt, got %d", ctx.HighSeq())
	}
}
