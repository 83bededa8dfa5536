package sampler

import (
	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/buffer"
)

// Adaptation targets. Steps scale multiplicatively toward an acceptance
// rate in [adaptLo, adaptHi]; once frozen the chain is time-homogeneous.
const (
	adaptLo     = 0.3
	adaptHi     = 0.5
	adaptGrow   = 1.2
	adaptShrink = 0.8
	adaptWindow = 50
)

// stepTuner adapts one Metropolis block's proposal standard deviation
// from a rolling window of accept/reject outcomes. After freeze the step
// never changes again.
type stepTuner struct {
	step   float64
	window *buffer.AcceptWindow
	frozen bool
}

func newStepTuner(step float64) *stepTuner {
	return &stepTuner{
		step:   step,
		window: buffer.NewAcceptWindow(adaptWindow),
	}
}

// record notes one proposal outcome and rescales the step once per full
// window while adaptation is live.
func (s *stepTuner) record(accepted bool) {
	if s.frozen {
		return
	}

	s.window.Add(accepted)
	if !s.window.Full() {
		return
	}

	rate := s.window.Rate()
	switch {
	case rate < adaptLo:
		s.step *= adaptShrink
	case rate > adaptHi:
		s.step *= adaptGrow
	default:
		return // in band, leave the step and keep the window rolling
	}
	s.window.Reset()
}

// freeze ends adaptation permanently.
func (s *stepTuner) freeze() {
	s.frozen = true
}
