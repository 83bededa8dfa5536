package model

// Variant selects which of the two published model structures is active.
type Variant int

const (
	// VariantCovariate puts a second covariate (Alpha2 * X2) in the
	// acoustic detection logit and has no day effect or per-visit
	// dispersion.
	VariantCovariate Variant = iota

	// VariantDayEffect replaces Alpha2 with a day-level random effect in
	// the detection logit and adds multiplicative per-visit dispersion
	// Phi to the vocalization rate.
	VariantDayEffect
)

func (v Variant) String() string {
	switch v {
	case VariantCovariate:
		return "covariate"
	case VariantDayEffect:
		return "day-effect"
	}
	return "unknown"
}

// Params is the full continuous-parameter and latent-abundance state of
// one chain at one sweep. The Update Engine mutates a Params in place,
// one block at a time.
type Params struct {
	Beta0, Beta1 float64 // abundance regression

	Alpha0 float64 // acoustic detection intercept (Uniform(0,1) prior on its probability scale)
	Alpha1 float64 // abundance effect on detection, positive
	Alpha2 float64 // detection covariate effect (covariate variant only)

	Gamma0, Gamma1 float64 // true-positive rate regression

	Phi0, Phi1 float64 // count detection regression (Uniform(0,1) prior on Phi0's probability scale)

	Omega float64 // false-positive vocalization rate, positive

	// Day-effect variant only
	APhi   float64   // dispersion shape hyperparameter
	PhiVis []float64 // per acoustic visit dispersion, Gamma(APhi, APhi)
	DayEff []float64 // day random effects, Normal(0, 1/TauDay)
	TauDay float64   // day effect precision

	N []int // latent abundance per site
}

// Clone returns a deep copy, used when a retained sweep is recorded and
// when chains are seeded from a common start.
func (p *Params) Clone() *Params {
	cp := *p
	cp.PhiVis = append([]float64(nil), p.PhiVis...)
	cp.DayEff = append([]float64(nil), p.DayEff...)
	cp.N = append([]int(nil), p.N...)
	return &cp
}
