package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/rand"
)

// Poisson draws a Poisson(mu) count. mu <= 0 returns 0.
func Poisson(gen *rand.Generator, mu float64) int {
	if mu <= 0 {
		return 0
	}
	p := distuv.Poisson{Lambda: mu, Src: gen}
	return int(p.Rand())
}

// ZTPoisson draws from a Poisson(mu) truncated to v >= 1 by inverting the
// truncated CDF, so the result can never be zero. The first truncated mass
// mu/(e^mu - 1) is evaluated through expm1 to stay exact for small mu.
func ZTPoisson(gen *rand.Generator, mu float64) int {
	if mu <= 0 {
		return 1
	}

	// at large rates truncation is irrelevant and inversion is slow
	if mu > 500 {
		v := Poisson(gen, mu)
		if v < 1 {
			v = 1
		}
		return v
	}

	u := gen.Float64()
	pv := mu / math.Expm1(mu) // truncated mass at v=1
	cdf := pv
	v := 1
	for u > cdf && v < 1<<20 {
		v++
		pv *= mu / float64(v)
		cdf += pv
	}
	return v
}

// Bernoulli draws 0 or 1 with success probability p.
func Bernoulli(gen *rand.Generator, p float64) int {
	if gen.Float64() < p {
		return 1
	}
	return 0
}

// Binomial draws the number of successes in n trials with success
// probability p. n in this model is a small latent abundance, so the
// direct trial loop is fine.
func Binomial(gen *rand.Generator, n int, p float64) int {
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	k := 0
	for i := 0; i < n; i++ {
		if gen.Float64() < p {
			k++
		}
	}
	return k
}

// Hypergeom draws the number of successes when n items are inspected
// without replacement from a population of size total containing succ
// successes. Sequential draws keep the support constraints exact.
func Hypergeom(gen *rand.Generator, n, succ, total int) int {
	if n > total {
		n = total
	}
	k := 0
	for i := 0; i < n; i++ {
		if total <= 0 {
			break
		}
		if gen.Float64() < float64(succ)/float64(total) {
			k++
			succ--
		}
		total--
	}
	return k
}

// Gamma draws from Gamma(shape, rate).
func Gamma(gen *rand.Generator, shape, rate float64) float64 {
	g := distuv.Gamma{Alpha: shape, Beta: rate, Src: gen}
	return g.Rand()
}

// Normal draws from Normal(mu, sd).
func Normal(gen *rand.Generator, mu, sd float64) float64 {
	return mu + sd*gen.NormFloat64()
}

// Uniform draws from Uniform(lo, hi).
func Uniform(gen *rand.Generator, lo, hi float64) float64 {
	return lo + (hi-lo)*gen.Float64()
}
