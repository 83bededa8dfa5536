package sampler

import (
	"math"

	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/dist"
	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/model"
)

// metroBlock is one random-walk Metropolis update: a scalar parameter, a
// proposal on the unconstrained scale (log for positive-support
// parameters), its prior, and the data layers its full conditional
// depends on. Everything else in the joint density cancels in the ratio.
type metroBlock struct {
	name     string
	tuner    *stepTuner
	logScale bool

	get      func(*model.Params) float64
	set      func(*model.Params, float64)
	logPrior func(float64) float64
	logLik   func(*Chain) float64

	proposed int64 // post-burn-in only
	accepted int64
}

// Layer sums used by the block full conditionals. Each reads the current
// chain state; in prior-only mode the data layers vanish.

func (c *Chain) abundLik() float64 {
	if c.cfg.PriorOnly {
		return 0
	}
	ll := 0.0
	for i := 0; i < c.data.NSites; i++ {
		ll += dist.PoissonLogPMF(c.par.N[i], model.Lambda(c.data, c.par, i))
	}
	return ll
}

func (c *Chain) hurdleLik() float64 {
	if c.cfg.PriorOnly {
		return 0
	}
	ll := 0.0
	for t := range c.data.Y {
		pa := model.DetectProb(c.data, c.par, c.variant, t, c.par.N[c.siteOf[t]])
		ll += dist.BernoulliLogPMF(c.data.Y[t], pa)
	}
	return ll
}

func (c *Chain) vocalLik() float64 {
	if c.cfg.PriorOnly {
		return 0
	}
	ll := 0.0
	for t := range c.data.Y {
		if c.data.Y[t] != 1 {
			continue
		}
		mu := model.VocalRate(c.data, c.par, c.variant, t, c.par.N[c.siteOf[t]])
		ll += dist.ZTPoissonLogPMF(c.data.V[t], mu)
	}
	return ll
}

func (c *Chain) countLik() float64 {
	if c.cfg.PriorOnly {
		return 0
	}
	ll := 0.0
	for i := 0; i < c.data.NSites; i++ {
		for t := c.data.CountOffset[i]; t < c.data.CountOffset[i+1]; t++ {
			ll += dist.BinomialLogPMF(c.data.C[t], c.par.N[i], model.CountDetectProb(c.data, c.par, t))
		}
	}
	return ll
}

func (c *Chain) valLik() float64 {
	if c.cfg.PriorOnly {
		return 0
	}
	return model.LogLikValidation(c.data, c.par)
}

// phiPriorSum is the Gamma(a,a) prior mass of all per-visit dispersion
// values; it is the only term the dispersion-shape full conditional sees.
func (c *Chain) phiPriorSum() float64 {
	ll := 0.0
	for _, phi := range c.par.PhiVis {
		ll += model.LogPriorPhiVis(phi, c.par.APhi)
	}
	return ll
}

// newBlocks builds the Metropolis blocks in their fixed sweep order.
func (c *Chain) newBlocks() []*metroBlock {
	step := c.cfg.InitStep

	blocks := []*metroBlock{
		{
			name: "beta0", tuner: newStepTuner(step),
			get:      func(p *model.Params) float64 { return p.Beta0 },
			set:      func(p *model.Params, v float64) { p.Beta0 = v },
			logPrior: model.LogPriorCoef,
			logLik:   (*Chain).abundLik,
		},
		{
			name: "beta1", tuner: newStepTuner(step),
			get:      func(p *model.Params) float64 { return p.Beta1 },
			set:      func(p *model.Params, v float64) { p.Beta1 = v },
			logPrior: model.LogPriorCoef,
			logLik:   (*Chain).abundLik,
		},
		{
			name: "alpha0", tuner: newStepTuner(step),
			get:      func(p *model.Params) float64 { return p.Alpha0 },
			set:      func(p *model.Params, v float64) { p.Alpha0 = v },
			logPrior: model.LogPriorIntercept,
			logLik:   (*Chain).hurdleLik,
		},
		{
			name: "alpha1", tuner: newStepTuner(step), logScale: true,
			get:      func(p *model.Params) float64 { return p.Alpha1 },
			set:      func(p *model.Params, v float64) { p.Alpha1 = v },
			logPrior: func(v float64) float64 { return model.LogPriorPositive(v, model.Alpha1Max) },
			logLik:   (*Chain).hurdleLik,
		},
	}

	if c.variant == model.VariantCovariate {
		blocks = append(blocks, &metroBlock{
			name: "alpha2", tuner: newStepTuner(step),
			get:      func(p *model.Params) float64 { return p.Alpha2 },
			set:      func(p *model.Params, v float64) { p.Alpha2 = v },
			logPrior: model.LogPriorCoef,
			logLik:   (*Chain).hurdleLik,
		})
	}

	blocks = append(blocks,
		&metroBlock{
			name: "gamma0", tuner: newStepTuner(step),
			get:      func(p *model.Params) float64 { return p.Gamma0 },
			set:      func(p *model.Params, v float64) { p.Gamma0 = v },
			logPrior: model.LogPriorCoef,
			logLik:   func(c *Chain) float64 { return c.vocalLik() + c.valLik() },
		},
		&metroBlock{
			name: "gamma1", tuner: newStepTuner(step),
			get:      func(p *model.Params) float64 { return p.Gamma1 },
			set:      func(p *model.Params, v float64) { p.Gamma1 = v },
			logPrior: model.LogPriorCoef,
			logLik:   func(c *Chain) float64 { return c.vocalLik() + c.valLik() },
		},
		&metroBlock{
			name: "phi0", tuner: newStepTuner(step),
			get:      func(p *model.Params) float64 { return p.Phi0 },
			set:      func(p *model.Params, v float64) { p.Phi0 = v },
			logPrior: model.LogPriorIntercept,
			logLik:   (*Chain).countLik,
		},
		&metroBlock{
			name: "phi1", tuner: newStepTuner(step),
			get:      func(p *model.Params) float64 { return p.Phi1 },
			set:      func(p *model.Params, v float64) { p.Phi1 = v },
			logPrior: model.LogPriorCoef,
			logLik:   (*Chain).countLik,
		},
		&metroBlock{
			name: "omega", tuner: newStepTuner(step), logScale: true,
			get:      func(p *model.Params) float64 { return p.Omega },
			set:      func(p *model.Params, v float64) { p.Omega = v },
			logPrior: func(v float64) float64 { return model.LogPriorPositive(v, model.OmegaMax) },
			logLik:   (*Chain).vocalLik,
		},
	)

	if c.variant == model.VariantDayEffect {
		blocks = append(blocks, &metroBlock{
			name: "a.phi", tuner: newStepTuner(step), logScale: true,
			get:      func(p *model.Params) float64 { return p.APhi },
			set:      func(p *model.Params, v float64) { p.APhi = v },
			logPrior: func(v float64) float64 { return model.LogPriorPositive(v, model.APhiMax) },
			logLik:   (*Chain).phiPriorSum,
		})
	}

	return blocks
}

// updateMetro performs one random-walk Metropolis step for a block. A
// proposal whose posterior density is non-finite is rejected outright,
// never surfaced as a fault.
func (c *Chain) updateMetro(b *metroBlock) {
	cur := b.get(c.par)
	curT := cur
	if b.logScale {
		curT = math.Log(cur)
	}

	propT := curT + b.tuner.step*c.gen.NormFloat64()
	prop := propT
	jac := 0.0
	if b.logScale {
		prop = math.Exp(propT)
		jac = propT - curT // d(log x) Jacobian for the log-scale walk
	}

	curDens := b.logPrior(cur) + b.logLik(c)
	b.set(c.par, prop)
	propDens := b.logPrior(prop) + b.logLik(c)

	logA := propDens - curDens + jac
	accepted := !math.IsInf(propDens, -1) && !math.IsNaN(logA) &&
		(logA >= 0 || c.gen.Float64() < math.Exp(logA))
	if !accepted {
		b.set(c.par, cur)
	}

	b.tuner.record(accepted)
	if c.sweep >= c.cfg.BurnIn {
		b.proposed++
		if accepted {
			b.accepted++
		}
	}
}

// updateDayEffects draws each day random effect from its Normal-Normal
// full conditional against the day-attributed logit-scale working
// residuals (weight p(1-p), working response eta + (y-p)/w), combined
// with the Normal(0, 1/TauDay) prior. In prior-only mode the data term
// vanishes and the draw is from the prior.
func (c *Chain) updateDayEffects() {
	nd := c.data.NDays
	sumW := make([]float64, nd)
	sumWR := make([]float64, nd)

	if !c.cfg.PriorOnly {
		for t := range c.data.Y {
			dd := c.data.Day[t]
			base := c.par.Alpha0 + c.par.Alpha1*float64(c.par.N[c.siteOf[t]])
			eta := base + c.par.DayEff[dd]
			p := dist.LogitInv(eta)
			w := p * (1 - p)
			if w < 1e-6 {
				w = 1e-6
			}
			r := eta + (float64(c.data.Y[t])-p)/w - base
			sumW[dd] += w
			sumWR[dd] += w * r
		}
	}

	for dd := 0; dd < nd; dd++ {
		prec := c.par.TauDay + sumW[dd]
		mean := sumWR[dd] / prec
		c.par.DayEff[dd] = mean + c.gen.NormFloat64()/math.Sqrt(prec)
	}
}

// updateTauDay is the exact Gamma conjugate draw for the day-effect
// precision against the effect residual sum of squares.
func (c *Chain) updateTauDay() {
	ss := 0.0
	for _, g := range c.par.DayEff {
		ss += g * g
	}
	shape := model.TauShape + float64(len(c.par.DayEff))/2
	rate := model.TauRate + ss/2
	c.par.TauDay = dist.Gamma(c.gen, shape, rate)
}

// updatePhiVis walks each per-visit dispersion value on the log scale.
// The full conditional is the Gamma(a,a) prior times the visit's own
// zero-truncated Poisson term (only when a detection occurred there). One
// shared tuner adapts a common step for the whole field.
func (c *Chain) updatePhiVis() {
	for t := range c.par.PhiVis {
		cur := c.par.PhiVis[t]
		propT := math.Log(cur) + c.phiTuner.step*c.gen.NormFloat64()
		prop := math.Exp(propT)

		curDens := model.LogPriorPhiVis(cur, c.par.APhi) + c.phiVocalTerm(t, cur)
		propDens := model.LogPriorPhiVis(prop, c.par.APhi) + c.phiVocalTerm(t, prop)

		logA := propDens - curDens + propT - math.Log(cur)
		accepted := !math.IsInf(propDens, -1) && !math.IsNaN(logA) &&
			(logA >= 0 || c.gen.Float64() < math.Exp(logA))
		if accepted {
			c.par.PhiVis[t] = prop
		}

		c.phiTuner.record(accepted)
		if c.sweep >= c.cfg.BurnIn {
			c.phiProposed++
			if accepted {
				c.phiAccepted++
			}
		}
	}
}

// phiVocalTerm is the vocalization-layer term at visit t evaluated with
// dispersion phi in place of the stored value.
func (c *Chain) phiVocalTerm(t int, phi float64) float64 {
	if c.cfg.PriorOnly || c.data.Y[t] != 1 {
		return 0
	}
	n := c.par.N[c.siteOf[t]]
	mu := model.TruePosRate(c.data, c.par, t)*float64(n)*phi + c.par.Omega
	return dist.ZTPoissonLogPMF(c.data.V[t], mu)
}

// updateN visits each site's latent abundance with a small symmetric
// integer kernel (+/-1 with mass 0.4 each, +/-2 with mass 0.1 each).
// Proposals below zero are rejected, and the acceptance ratio differences
// every layer that references N at that site.
func (c *Chain) updateN() {
	for i := 0; i < c.data.NSites; i++ {
		var delta int
		switch u := c.gen.Float64(); {
		case u < 0.1:
			delta = -2
		case u < 0.5:
			delta = -1
		case u < 0.9:
			delta = 1
		default:
			delta = 2
		}

		if c.sweep >= c.cfg.BurnIn {
			c.nProposed++
		}

		nProp := c.par.N[i] + delta
		if nProp < 0 {
			continue
		}

		curLL := model.LogLikSiteN(c.data, c.par, c.variant, i, c.par.N[i])
		propLL := model.LogLikSiteN(c.data, c.par, c.variant, i, nProp)

		logA := propLL - curLL
		if math.IsInf(propLL, -1) || math.IsNaN(logA) {
			continue
		}
		if logA >= 0 || c.gen.Float64() < math.Exp(logA) {
			c.par.N[i] = nProp
			if c.sweep >= c.cfg.BurnIn {
				c.nAccepted++
			}
		}
	}
}
