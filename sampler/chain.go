package sampler

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/model"
	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/rand"
)

// Chain is one MCMC chain: its own parameter state, its own seeded
// generator, and its own retained-sample table. A chain is strictly
// sequential; independent chains share nothing mutable.
type Chain struct {
	cfg     Config
	data    *model.Data
	variant model.Variant
	gen     *rand.Generator
	par     *model.Params

	blocks   []*metroBlock
	phiTuner *stepTuner
	siteOf   []int // owning site per flat acoustic index

	table *Table
	fit   *PostPred
	sweep int

	phiProposed, phiAccepted int64
	nProposed, nAccepted     int64
}

// NewChain builds a ready-to-run chain. Data is validated once here;
// initial parameter state is drawn from the chain's own stream unless a
// start state is supplied.
func NewChain(cfg Config, d *model.Data, seed int64, start *model.Params) (*Chain, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	if err := d.Check(); err != nil {
		return nil, errors.Wrap(err, "Data failed validation before sampling")
	}

	c := &Chain{
		cfg:     cfg,
		data:    d,
		variant: cfg.Variant,
		gen:     rand.NewGenerator(seed),
	}

	if start != nil {
		c.par = start.Clone()
	} else {
		c.par = model.InitParams(d, cfg.Variant, c.gen)
	}

	c.siteOf = make([]int, d.TotalAcoustic())
	for i := 0; i < d.NSites; i++ {
		for t := d.AcousticOffset[i]; t < d.AcousticOffset[i+1]; t++ {
			c.siteOf[t] = i
		}
	}

	c.blocks = c.newBlocks()
	c.phiTuner = newStepTuner(cfg.InitStep)
	c.table = NewTable(c.colNames(), cfg.Retained())
	c.fit = &PostPred{}

	return c, nil
}

// Run advances the chain through the configured iteration budget.
// Cancellation is honored only at sweep boundaries, so the retained table
// always holds whole sweeps.
func (c *Chain) Run(ctx context.Context) error {
	for c.sweep = 0; c.sweep < c.cfg.Iters; c.sweep++ {
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "Chain stopped at sweep boundary %d", c.sweep)
		default:
		}

		if c.sweep == c.cfg.BurnIn {
			c.freezeTuners()
		}

		c.runSweep()

		if c.sweep >= c.cfg.BurnIn && (c.sweep-c.cfg.BurnIn)%c.cfg.Thin == 0 {
			if err := c.table.Append(c.rowValues()); err != nil {
				return errors.Wrap(err, "Retained-sample table append failed")
			}
			if !c.cfg.PriorOnly {
				c.fit.Accumulate(c.data, c.par, c.variant, c.siteOf, c.gen)
			}
		}
	}
	return nil
}

// runSweep visits every block exactly once in fixed order. Later blocks
// see the values drawn earlier in the same sweep.
func (c *Chain) runSweep() {
	for _, b := range c.blocks {
		c.updateMetro(b)
	}

	if c.variant == model.VariantDayEffect {
		c.updateDayEffects()
		c.updateTauDay()
		c.updatePhiVis()
	}

	if !c.cfg.PriorOnly {
		c.updateN()
	}
}

func (c *Chain) freezeTuners() {
	for _, b := range c.blocks {
		b.tuner.freeze()
	}
	c.phiTuner.freeze()
}

// colNames fixes the retained-table column order for the active variant:
// the scalar parameters, then (day variant) the day effects, then the
// latent N trajectory. Per-visit dispersion values are not retained.
func (c *Chain) colNames() []string {
	cols := []string{"beta0", "beta1", "alpha0", "alpha1"}
	if c.variant == model.VariantCovariate {
		cols = append(cols, "alpha2")
	}
	cols = append(cols, "gamma0", "gamma1", "phi0", "phi1", "omega")
	if c.variant == model.VariantDayEffect {
		cols = append(cols, "a.phi", "tau.day")
		for dd := 0; dd < c.data.NDays; dd++ {
			cols = append(cols, fmt.Sprintf("day[%d]", dd))
		}
	}
	for i := 0; i < c.data.NSites; i++ {
		cols = append(cols, fmt.Sprintf("N[%d]", i))
	}
	return cols
}

func (c *Chain) rowValues() []float64 {
	p := c.par
	row := []float64{p.Beta0, p.Beta1, p.Alpha0, p.Alpha1}
	if c.variant == model.VariantCovariate {
		row = append(row, p.Alpha2)
	}
	row = append(row, p.Gamma0, p.Gamma1, p.Phi0, p.Phi1, p.Omega)
	if c.variant == model.VariantDayEffect {
		row = append(row, p.APhi, p.TauDay)
		row = append(row, p.DayEff...)
	}
	for _, n := range p.N {
		row = append(row, float64(n))
	}
	return row
}

// Table returns the retained-sample table.
func (c *Chain) Table() *Table {
	return c.table
}

// Fit returns the posterior-predictive fit summary.
func (c *Chain) Fit() FitSummary {
	return c.fit.Summary()
}

// Params exposes the current state, mainly for checks and tests.
func (c *Chain) Params() *model.Params {
	return c.par
}

// Diagnostics reports post-burn-in acceptance per block, including the
// shared per-visit dispersion walker and the latent-N kernel.
func (c *Chain) Diagnostics() []BlockDiag {
	out := make([]BlockDiag, 0, len(c.blocks)+2)
	for _, b := range c.blocks {
		out = append(out, BlockDiag{Name: b.name, Proposed: b.proposed, Accepted: b.accepted, Step: b.tuner.step})
	}
	if c.variant == model.VariantDayEffect {
		out = append(out, BlockDiag{Name: "phi.vis", Proposed: c.phiProposed, Accepted: c.phiAccepted, Step: c.phiTuner.step})
	}
	if !c.cfg.PriorOnly {
		out = append(out, BlockDiag{Name: "N", Proposed: c.nProposed, Accepted: c.nAccepted})
	}
	return out
}

// ChainResult is one completed chain's output.
type ChainResult struct {
	Chain int
	Table *Table
	Fit   FitSummary
	Diags []BlockDiag
}

// Run executes cfg.Chains independent chains concurrently and returns
// their results in chain order. Chain c seeds its generator with
// cfg.Seed+c, so a whole run is reproducible. Merging happens only after
// every chain has finished.
func Run(ctx context.Context, cfg Config, d *model.Data) ([]*ChainResult, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	results := make([]*ChainResult, cfg.Chains)
	errs := make([]error, cfg.Chains)

	var wg sync.WaitGroup
	for ci := 0; ci < cfg.Chains; ci++ {
		wg.Add(1)
		go func(ci int) {
			defer wg.Done()

			ch, err := NewChain(cfg, d, cfg.Seed+int64(ci), nil)
			if err != nil {
				errs[ci] = err
				return
			}
			if err := ch.Run(ctx); err != nil {
				errs[ci] = errors.Wrapf(err, "Chain %d failed", ci)
				return
			}
			results[ci] = &ChainResult{
				Chain: ci,
				Table: ch.Table(),
				Fit:   ch.Fit(),
				Diags: ch.Diagnostics(),
			}
		}(ci)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
