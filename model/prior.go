package model

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/dist"
	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/rand"
)

// Prior hyperparameters. Linear coefficients get Normal(0, variance 100).
// The detection intercepts get Uniform(0,1) on the probability scale,
// which induces a standard logistic density on the logit scale. Alpha1 and
// Omega are positivity-constrained with wide uniforms, the day precision
// gets the usual vague Gamma, and the dispersion shape a wide uniform.
const (
	CoefPriorSD = 10.0
	Alpha1Max   = 1000.0
	OmegaMax    = 1000.0
	APhiMax     = 100.0
	TauShape    = 0.01
	TauRate     = 0.01
)

// LogPriorCoef is the log prior density for an unconstrained regression
// coefficient.
func LogPriorCoef(x float64) float64 {
	return dist.NormalLogPDF(x, 0, CoefPriorSD)
}

// LogPriorIntercept is the log prior density for a logit-scale intercept
// whose probability-scale value is Uniform(0,1).
func LogPriorIntercept(x float64) float64 {
	return dist.LogisticLogPDF(x)
}

// LogPriorPositive is the log prior density for a Uniform(0,max)
// positivity-constrained parameter.
func LogPriorPositive(x, max float64) float64 {
	if x <= 0 || x >= max {
		return math.Inf(-1)
	}
	return -math.Log(max)
}

// LogPriorPhiVis is the log prior density of one per-visit dispersion
// value under the current shape hyperparameter.
func LogPriorPhiVis(phi, aPhi float64) float64 {
	return dist.GammaLogPDF(phi, aPhi, aPhi)
}

// LogPrior is the joint log prior density over all continuous parameters
// in the active variant. The latent N prior is the abundance layer and is
// accounted for in the likelihood evaluator, not here.
func LogPrior(p *Params, variant Variant) float64 {
	lp := LogPriorCoef(p.Beta0) + LogPriorCoef(p.Beta1)
	lp += LogPriorIntercept(p.Alpha0)
	lp += LogPriorPositive(p.Alpha1, Alpha1Max)
	lp += LogPriorCoef(p.Gamma0) + LogPriorCoef(p.Gamma1)
	lp += LogPriorIntercept(p.Phi0)
	lp += LogPriorCoef(p.Phi1)
	lp += LogPriorPositive(p.Omega, OmegaMax)

	switch variant {
	case VariantCovariate:
		lp += LogPriorCoef(p.Alpha2)
	case VariantDayEffect:
		lp += LogPriorPositive(p.APhi, APhiMax)
		for _, phi := range p.PhiVis {
			lp += LogPriorPhiVis(phi, p.APhi)
		}
		lp += dist.GammaLogPDF(p.TauDay, TauShape, TauRate)
		sd := 1 / math.Sqrt(p.TauDay)
		for _, g := range p.DayEff {
			lp += dist.NormalLogPDF(g, 0, sd)
		}
	}

	return lp
}

// InitParams draws a starting state. Coefficients start at modest draws
// rather than from the full diffuse priors (a Uniform(0,1000) start for
// Omega would wedge the chain in a region of -Inf likelihood for most
// datasets); every start value is inside its prior support. N starts at
// one more than the largest observed count at the site.
func InitParams(d *Data, variant Variant, gen *rand.Generator) *Params {
	stdNorm := distuv.Normal{Mu: 0, Sigma: 1, Src: gen}

	p := &Params{
		Beta0:  stdNorm.Rand(),
		Beta1:  stdNorm.Rand(),
		Alpha0: dist.Logit(dist.Uniform(gen, 0.1, 0.9)),
		Alpha1: dist.Uniform(gen, 0.05, 1),
		Gamma0: stdNorm.Rand(),
		Gamma1: stdNorm.Rand(),
		Phi0:   dist.Logit(dist.Uniform(gen, 0.1, 0.9)),
		Phi1:   stdNorm.Rand(),
		Omega:  dist.Uniform(gen, 0.05, 1),
	}

	switch variant {
	case VariantCovariate:
		p.Alpha2 = stdNorm.Rand()
	case VariantDayEffect:
		p.APhi = dist.Uniform(gen, 0.5, 2)
		p.PhiVis = make([]float64, d.TotalAcoustic())
		for t := range p.PhiVis {
			p.PhiVis[t] = dist.Gamma(gen, p.APhi, p.APhi)
		}
		p.TauDay = dist.Gamma(gen, 2, 1)
		sd := 1 / math.Sqrt(p.TauDay)
		p.DayEff = make([]float64, d.NDays)
		for dd := range p.DayEff {
			p.DayEff[dd] = dist.Normal(gen, 0, sd)
		}
	}

	p.N = make([]int, d.NSites)
	for i := range p.N {
		n := 1
		for t := d.CountOffset[i]; t < d.CountOffset[i+1]; t++ {
			if d.C[t]+1 > n {
				n = d.C[t] + 1
			}
		}
		p.N[i] = n
	}

	return p
}
