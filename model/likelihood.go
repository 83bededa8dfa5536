package model

import (
	"math"

	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/dist"
)

// Layers carries the per-layer log-likelihood contributions. The abundance
// term is the Poisson prior on the latent N, which the Update Engine treats
// as part of the joint target alongside the three observation layers and
// the validation layer.
type Layers struct {
	Abundance  float64
	Hurdle     float64
	Vocal      float64
	Count      float64
	Validation float64
}

// Total returns the joint log-likelihood.
func (l Layers) Total() float64 {
	return l.Abundance + l.Hurdle + l.Vocal + l.Count + l.Validation
}

// Lambda returns the expected abundance at site i.
func Lambda(d *Data, p *Params, i int) float64 {
	return math.Exp(p.Beta0 + p.Beta1*d.XLambda[i])
}

// DetectProb returns the acoustic detection probability p.a at flat
// acoustic index t, with abundance n at the owning site.
func DetectProb(d *Data, p *Params, variant Variant, t, n int) float64 {
	eta := p.Alpha0 + p.Alpha1*float64(n)
	switch variant {
	case VariantCovariate:
		eta += p.Alpha2 * d.X2[t]
	case VariantDayEffect:
		eta += p.DayEff[d.Day[t]]
	}
	return dist.LogitInv(eta)
}

// TruePosRate returns the true-positive rate delta at flat acoustic index t.
func TruePosRate(d *Data, p *Params, t int) float64 {
	return dist.LogitInv(p.Gamma0 + p.Gamma1*d.X3[t])
}

// VocalRate returns the zero-truncated Poisson rate mu at flat acoustic
// index t given abundance n: true positives delta*n (scaled by the
// per-visit dispersion in the day-effect variant) plus false positives
// Omega.
func VocalRate(d *Data, p *Params, variant Variant, t, n int) float64 {
	mu := TruePosRate(d, p, t) * float64(n)
	if variant == VariantDayEffect {
		mu *= p.PhiVis[t]
	}
	return mu + p.Omega
}

// CountDetectProb returns the point-count detection probability at flat
// count index t.
func CountDetectProb(d *Data, p *Params, t int) float64 {
	return dist.LogitInv(p.Phi0 + p.Phi1*d.X4[t])
}

// LogLik evaluates every layer at the current state. Pure; the store is
// never touched. Degenerate arguments surface as -Inf contributions, not
// as faults.
func LogLik(d *Data, p *Params, variant Variant) Layers {
	var l Layers
	for i := 0; i < d.NSites; i++ {
		l.Abundance += dist.PoissonLogPMF(p.N[i], Lambda(d, p, i))
		l.Hurdle += logLikHurdleSite(d, p, variant, i, p.N[i])
		l.Vocal += logLikVocalSite(d, p, variant, i, p.N[i])
		l.Count += logLikCountSite(d, p, i, p.N[i])
	}
	l.Validation = LogLikValidation(d, p)
	return l
}

// LogLikSiteN returns the sum of every term that references the latent
// abundance at site i, evaluated at abundance n. This is the quantity the
// N Metropolis step differences between proposal and current value: the
// abundance prior plus the hurdle, vocalization, and count layers at that
// site. The validation layer conditions on v and delta only, so it cancels.
func LogLikSiteN(d *Data, p *Params, variant Variant, i, n int) float64 {
	if n < 0 {
		return math.Inf(-1)
	}
	ll := dist.PoissonLogPMF(n, Lambda(d, p, i))
	ll += logLikHurdleSite(d, p, variant, i, n)
	ll += logLikVocalSite(d, p, variant, i, n)
	ll += logLikCountSite(d, p, i, n)
	return ll
}

func logLikHurdleSite(d *Data, p *Params, variant Variant, i, n int) float64 {
	ll := 0.0
	for t := d.AcousticOffset[i]; t < d.AcousticOffset[i+1]; t++ {
		ll += dist.BernoulliLogPMF(d.Y[t], DetectProb(d, p, variant, t, n))
	}
	return ll
}

func logLikVocalSite(d *Data, p *Params, variant Variant, i, n int) float64 {
	ll := 0.0
	for t := d.AcousticOffset[i]; t < d.AcousticOffset[i+1]; t++ {
		if d.Y[t] != 1 {
			continue
		}
		ll += dist.ZTPoissonLogPMF(d.V[t], VocalRate(d, p, variant, t, n))
	}
	return ll
}

func logLikCountSite(d *Data, p *Params, i, n int) float64 {
	ll := 0.0
	for t := d.CountOffset[i]; t < d.CountOffset[i+1]; t++ {
		ll += dist.BinomialLogPMF(d.C[t], n, CountDetectProb(d, p, t))
	}
	return ll
}

// LogLikValidation evaluates the manual-validation layer: for each record,
// a binomial mass for the verified true positives K out of v at rate
// delta, and a hypergeometric mass for the k true positives found among
// the n inspected detections.
func LogLikValidation(d *Data, p *Params) float64 {
	ll := 0.0
	for _, val := range d.Val {
		t := d.AIdx(val.Site, val.Visit)
		v := d.V[t]
		delta := TruePosRate(d, p, t)
		ll += dist.BinomialLogPMF(val.K, v, delta)
		ll += dist.HypergeomLogPMF(val.KSub, val.N, val.K, v)
	}
	return ll
}
