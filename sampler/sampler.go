// Package sampler is the purpose-built MCMC engine for the integrated
// acoustic / point-count abundance model: a fixed-order sweep over
// Metropolis and Gibbs parameter blocks plus the discrete latent
// abundance, with burn-in step-size adaptation, posterior-predictive fit
// accumulation, and a fixed-capacity retained-sample table.
package sampler

import (
	"github.com/pkg/errors"

	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/model"
)

// Config is the full run configuration for one or more chains.
type Config struct {
	Chains int   // independent chains to run
	Iters  int   // total sweeps per chain, burn-in included
	BurnIn int   // sweeps discarded; adaptation happens only here
	Thin   int   // retain every Thin-th post-burn-in sweep
	Seed   int64 // chain c uses Seed+c for its own stream

	Variant model.Variant

	// InitStep is the starting Metropolis proposal standard deviation
	// for every continuous block (adapted per block during burn-in).
	InitStep float64

	// PriorOnly drops every data-layer contribution so parameters are
	// sampled from their priors. Used by prior-predictive checks.
	PriorOnly bool
}

// withDefaults fills the optional proposal step. Chain count, iteration
// budget, and thinning must be explicit; bad values there are fatal.
func (c Config) withDefaults() Config {
	if c.InitStep == 0 {
		c.InitStep = 0.5
	}
	return c
}

// Check returns an error for any fatal configuration problem.
func (c Config) Check() error {
	if c.Chains < 1 {
		return errors.Errorf("Config requires at least 1 chain, got %d", c.Chains)
	}
	if c.Iters < 1 {
		return errors.Errorf("Config requires at least 1 iteration, got %d", c.Iters)
	}
	if c.BurnIn < 0 || c.BurnIn >= c.Iters {
		return errors.Errorf("Burn-in %d must lie in [0, iterations=%d)", c.BurnIn, c.Iters)
	}
	if c.Thin < 1 {
		return errors.Errorf("Thinning interval must be positive, got %d", c.Thin)
	}
	if c.InitStep <= 0 {
		return errors.Errorf("Initial proposal step must be positive, got %f", c.InitStep)
	}
	return nil
}

// Retained returns the number of sweeps a chain will record.
func (c Config) Retained() int {
	return (c.Iters - c.BurnIn + c.Thin - 1) / c.Thin
}

// BlockDiag reports one update block's acceptance behavior over the
// post-adaptation phase, plus its final (frozen) proposal step.
type BlockDiag struct {
	Name     string
	Proposed int64
	Accepted int64
	Step     float64
}

// Rate returns the empirical post-adaptation acceptance rate.
func (b BlockDiag) Rate() float64 {
	if b.Proposed == 0 {
		return 0
	}
	return float64(b.Accepted) / float64(b.Proposed)
}
