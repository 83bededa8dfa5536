package model

import (
	"math"

	"github.com/pkg/errors"

	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/dist"
	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/rand"
)

// SimConfig describes a dataset to draw from the generative model. Truth
// supplies the fixed parameter values; its PhiVis, DayEff, and N fields
// are filled in by Simulate (N can be preset to pin the latent abundance).
type SimConfig struct {
	NSites         int
	AcousticVisits int // acoustic visits per site
	CountVisits    int // point-count visits per site
	NDays          int
	Variant        Variant

	// Inspect is the number of detections manually inspected per
	// detection-positive visit (capped at v). Zero disables validation.
	Inspect int

	Truth *Params
}

// Simulate draws one complete dataset from the generative model at the
// supplied true parameters. The same distributions the likelihood
// evaluator scores are used here, so a model fitted to its own simulated
// output should show Bayesian p-values near 0.5.
func Simulate(cfg SimConfig, gen *rand.Generator) (*Data, *Params, error) {
	if cfg.NSites < 1 || cfg.AcousticVisits < 0 || cfg.CountVisits < 0 {
		return nil, nil, errors.Errorf("Invalid simulation shape: %d sites, %d acoustic, %d count visits",
			cfg.NSites, cfg.AcousticVisits, cfg.CountVisits)
	}
	if cfg.Truth == nil {
		return nil, nil, errors.New("Simulation requires true parameter values")
	}
	if cfg.NDays < 1 {
		cfg.NDays = 1
	}

	p := cfg.Truth.Clone()
	nAc := cfg.NSites * cfg.AcousticVisits
	nCt := cfg.NSites * cfg.CountVisits

	d := &Data{
		NSites:         cfg.NSites,
		XLambda:        make([]float64, cfg.NSites),
		AcousticOffset: make([]int, cfg.NSites+1),
		Y:              make([]int, nAc),
		V:              make([]int, nAc),
		X2:             make([]float64, nAc),
		X3:             make([]float64, nAc),
		Day:            make([]int, nAc),
		NDays:          cfg.NDays,
		CountOffset:    make([]int, cfg.NSites+1),
		C:              make([]int, nCt),
		X4:             make([]float64, nCt),
	}

	for i := 0; i <= cfg.NSites; i++ {
		d.AcousticOffset[i] = i * cfg.AcousticVisits
		d.CountOffset[i] = i * cfg.CountVisits
	}
	for i := range d.XLambda {
		d.XLambda[i] = gen.NormFloat64()
	}
	for t := 0; t < nAc; t++ {
		d.X2[t] = gen.NormFloat64()
		d.X3[t] = gen.NormFloat64()
		d.Day[t] = t % cfg.NDays
	}
	for t := 0; t < nCt; t++ {
		d.X4[t] = gen.NormFloat64()
	}

	if cfg.Variant == VariantDayEffect {
		if p.TauDay <= 0 {
			p.TauDay = 1
		}
		if p.APhi <= 0 {
			p.APhi = 1
		}
		sd := 1 / math.Sqrt(p.TauDay)
		p.DayEff = make([]float64, cfg.NDays)
		for dd := range p.DayEff {
			p.DayEff[dd] = dist.Normal(gen, 0, sd)
		}
		p.PhiVis = make([]float64, nAc)
		for t := range p.PhiVis {
			p.PhiVis[t] = dist.Gamma(gen, p.APhi, p.APhi)
		}
	}

	// Latent abundance: keep any preset values, draw the rest
	if len(p.N) != cfg.NSites {
		p.N = make([]int, cfg.NSites)
		for i := range p.N {
			p.N[i] = dist.Poisson(gen, Lambda(d, p, i))
		}
	}

	// Acoustic layer
	for i := 0; i < cfg.NSites; i++ {
		for t := d.AcousticOffset[i]; t < d.AcousticOffset[i+1]; t++ {
			d.Y[t] = dist.Bernoulli(gen, DetectProb(d, p, cfg.Variant, t, p.N[i]))
			if d.Y[t] == 1 {
				d.V[t] = dist.ZTPoisson(gen, VocalRate(d, p, cfg.Variant, t, p.N[i]))
			}
		}
	}

	// Point counts
	for i := 0; i < cfg.NSites; i++ {
		for t := d.CountOffset[i]; t < d.CountOffset[i+1]; t++ {
			d.C[t] = dist.Binomial(gen, p.N[i], CountDetectProb(d, p, t))
		}
	}

	// Manual validation of every detection-positive visit
	if cfg.Inspect > 0 {
		for i := 0; i < cfg.NSites; i++ {
			for j := 0; j < cfg.AcousticVisits; j++ {
				t := d.AIdx(i, j)
				if d.Y[t] != 1 {
					continue
				}
				v := d.V[t]
				k := dist.Binomial(gen, v, TruePosRate(d, p, t))
				n := cfg.Inspect
				if n > v {
					n = v
				}
				kSub := dist.Hypergeom(gen, n, k, v)
				d.Val = append(d.Val, Validation{Site: i, Visit: j, K: k, KSub: kSub, N: n})
			}
		}
	}

	if err := d.Check(); err != nil {
		return nil, nil, errors.Wrap(err, "Simulated dataset failed its own validation")
	}

	return d, p, nil
}
