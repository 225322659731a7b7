package fec

// MaxConsecutiveFailures returns the configured failure threshold, mostly
// useful for tests asserting the disable-on-repeat policy.
func (e *Engine) MaxConsecutiveFailures() int { return e.maxConsecutiveFailures }

// ConsecutiveFailures returns the current streak of allocation/linearization
// failures since the last successful decode.
func (e *Engine) ConsecutiveFailures() int { return e.consecutiveFailures }

// Episode returns the engine's correlation ID, assigned at Enable time and
// stable for the engine's lifetime until the next Enable call.
func (e *Engine) Episode() string { return e.episode.String() }

// MemoryPressurePrune implements the transport-signaled branch of §7's
// MemoryPressurePrune error kind: releasing retained references by disabling
// FEC on the connection is not an error reported to the peer, it is simply
// how the engine gives back memory when the host transport prunes its
// receive buffers.
func (e *Engine) MemoryPressurePrune() {
	if e.typ == NONE {
		return
	}
	e.debug("fec:memory-pressure-prune")
	e.Disable()
}

// QueuedBytes returns the current size of the reference window, for
// observability and tests of the eviction scenario (§8 scenario 6).
func (e *Engine) QueuedBytes() int { return e.win.bytes }

// QueuedSegments returns the number of retained segment references.
func (e *Engine) QueuedSegments() int { return len(e.win.entries) }
