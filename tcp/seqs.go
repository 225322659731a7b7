package tcp

// Value is a TCP sequence or acknowledgement number. Arithmetic on Value wraps
// around the 32-bit sequence space as specified by RFC 9293; comparisons use
// signed-difference semantics rather than plain integer ordering.
type Value uint32

// Size is a length of data measured in the TCP sequence space: window sizes,
// segment payload lengths and other byte counts that participate in sequence
// arithmetic.
type Size uint32

// Add returns v advanced by sz sequence positions, wrapping as needed.
func Add(v Value, sz Size) Value {
	return v + Value(sz)
}

// Sizeof returns the number of sequence positions between a (inclusive) and
// b (exclusive), i.e. the size of segment [a,b). Result is meaningless if b
// precedes a by more than half the sequence space.
func Sizeof(a, b Value) Size {
	return Size(b - a)
}

// LessThan reports whether v precedes w in the sequence space (v < w, mod 2^32).
func (v Value) LessThan(w Value) bool {
	return int32(v-w) < 0
}

// LessThanEq reports whether v precedes or equals w in the sequence space.
func (v Value) LessThanEq(w Value) bool {
	return v == w || v.LessThan(w)
}

// InWindow reports whether v lies in [start, start+sz). A zero-sized window
// never contains any value.
func (v Value) InWindow(start Value, sz Size) bool {
	if sz == 0 {
		return false
	}
	return Sizeof(start, v) < sz
}

// UpdateForward advances v by sz in place, used to move rcv.NXT/snd.NXT
// forward as a segment is consumed.
func (v *Value) UpdateForward(sz Size) {
	*v = Add(*v, sz)
}
