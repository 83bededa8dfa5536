package buffer

// AcceptWindow is a fixed-size circular buffer of accept/reject outcomes
// for one Metropolis block. The step-size tuner reads the rolling
// acceptance rate from it during the adaptation phase.
type AcceptWindow struct {
	buffer    []bool // actual storage
	pos       int    // current position in buffer
	BufSize   int    // BufSize is the fixed number of outcomes maintained in memory
	Count     int    // Count is the number of outcomes in memory. Will always be <= BufSize
	TotalSeen int64  // TotalSeen is the total number of times Add has been called
	accepted  int    // accepted outcomes currently in the window
}

// NewAcceptWindow creates a new circular window holding totalSize outcomes.
func NewAcceptWindow(totalSize int) *AcceptWindow {
	if totalSize < 1 {
		totalSize = 1
	}

	return &AcceptWindow{
		buffer:  make([]bool, totalSize),
		pos:     0,
		BufSize: totalSize,
		Count:   0,
	}
}

// Add appends the given outcome, overwriting the oldest entry.
func (w *AcceptWindow) Add(accepted bool) {
	w.TotalSeen++

	if w.Count == w.BufSize && w.buffer[w.pos] {
		w.accepted-- // evicted outcome was an accept
	}

	w.buffer[w.pos] = accepted
	if accepted {
		w.accepted++
	}

	w.pos = (w.pos + 1) % w.BufSize

	w.Count++
	if w.Count > w.BufSize {
		w.Count = w.BufSize // max out
	}
}

// Full returns true once BufSize outcomes have been recorded.
func (w *AcceptWindow) Full() bool {
	return w.Count >= w.BufSize
}

// Rate returns the acceptance fraction over the outcomes currently in the
// window. Returns 0 before any outcome has been recorded.
func (w *AcceptWindow) Rate() float64 {
	if w.Count == 0 {
		return 0
	}
	return float64(w.accepted) / float64(w.Count)
}

// Reset forgets the window contents but not TotalSeen.
func (w *AcceptWindow) Reset() {
	for i := range w.buffer {
		w.buffer[i] = false
	}
	w.pos = 0
	w.Count = 0
	w.accepted = 0
}
