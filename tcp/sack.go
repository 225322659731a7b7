package tcp

// SACKTracker holds the current selective-ACK ranges the connection has
// reported to (or learned about from) the peer. It is a minimal read/insert
// collaborator: the full SACK generation policy belongs to the connection's
// main receive path and is out of scope here.
type SACKTracker struct {
	ranges []sackRange
}

type sackRange struct {
	start, end Value // [start, end)
}

// Reset discards all SACK ranges.
func (s *SACKTracker) Reset() {
	s.ranges = s.ranges[:0]
}

// Insert records [seq, seq+length) as SACKed, merging with any overlapping
// or adjacent existing range.
func (s *SACKTracker) Insert(seq Value, length Size) {
	if length == 0 {
		return
	}
	start, end := seq, Add(seq, length)
	merged := false
	for i := range s.ranges {
		r := &s.ranges[i]
		if end.LessThan(r.start) || r.end.LessThan(start) {
			continue
		}
		if start.LessThan(r.start) {
			r.start = start
		}
		if r.end.LessThan(end) {
			r.end = end
		}
		merged = true
		break
	}
	if !merged {
		s.ranges = append(s.ranges, sackRange{start, end})
	}
}

// TrimAgainstSACK returns the number of trailing bytes of [seq, seq+length)
// that a SACK range fully covers, so the caller can shorten a recovered
// segment and avoid a duplicate-SACK storm (§4.4 step 1). Only a SACK block
// covering the segment's tail is considered, matching the synthesizer's
// truncation rule.
func (s *SACKTracker) TrimAgainstSACK(seq Value, length Size) Size {
	end := Add(seq, length)
	var trimmed Size
	for _, r := range s.ranges {
		if r.end.LessThanEq(seq) || end.LessThanEq(r.start) {
			continue
		}
		if r.end != end {
			continue // only a SACK block covering the tail triggers a trim
		}
		covered := Sizeof(r.start, r.end)
		if covered > length {
			covered = length
		}
		if covered > trimmed {
			trimmed = covered
		}
	}
	return trimmed
}
