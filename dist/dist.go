// Package dist provides the numerically stable distribution kernels the
// sampler is built on: logit-scale transforms, truncated-Poisson and
// hypergeometric log-masses, and the guard conventions for invalid
// arguments. Every log-mass returns -Inf (never NaN, never a panic) for
// arguments outside the distribution's support, so a Metropolis step can
// treat any degenerate proposal as a plain rejection.
package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// Logit returns log(p/(1-p)). Returns +/-Inf at the boundary.
func Logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// LogitInv is the inverse logit (logistic) function, computed in the
// branch that never exponentiates a large positive argument.
func LogitInv(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Log1pExp returns log(1+e^x) without overflow for large x.
func Log1pExp(x float64) float64 {
	if x > 35 {
		return x
	}
	if x < -35 {
		return math.Exp(x)
	}
	return math.Log1p(math.Exp(x))
}

// Log1mExp returns log(1-e^(-a)) for a > 0, switching between the log1p
// and expm1 forms to avoid cancellation when a is small (Maechler 2012).
func Log1mExp(a float64) float64 {
	if a <= 0 {
		return math.Inf(-1)
	}
	if a <= math.Ln2 {
		return math.Log(-math.Expm1(-a))
	}
	return math.Log1p(-math.Exp(-a))
}

// LogSigmoid returns log(invlogit(x)) stably for any x.
func LogSigmoid(x float64) float64 {
	return -Log1pExp(-x)
}

// LogisticLogPDF is the log-density at x of the standard logistic
// distribution. This is the density induced on an intercept by a
// Uniform(0,1) prior on its probability scale.
func LogisticLogPDF(x float64) float64 {
	return LogSigmoid(x) + LogSigmoid(-x)
}

// lnFactorial returns log(k!).
func lnFactorial(k int) float64 {
	v, _ := math.Lgamma(float64(k) + 1)
	return v
}

// BernoulliLogPMF is the log-mass of y in {0,1} with success probability p.
func BernoulliLogPMF(y int, p float64) float64 {
	if y != 0 && y != 1 {
		return math.Inf(-1)
	}
	if p <= 0 || p >= 1 {
		// degenerate success probabilities only support the matching outcome
		if (p == 0 && y == 0) || (p == 1 && y == 1) {
			return 0
		}
		return math.Inf(-1)
	}
	if y == 1 {
		return math.Log(p)
	}
	return math.Log1p(-p)
}

// PoissonLogPMF is the log-mass of count k under rate mu.
func PoissonLogPMF(k int, mu float64) float64 {
	if k < 0 || mu <= 0 || math.IsInf(mu, 1) || math.IsNaN(mu) {
		return math.Inf(-1)
	}
	return float64(k)*math.Log(mu) - mu - lnFactorial(k)
}

// ZTPoissonLogPMF is the log-mass of v under a Poisson with rate mu
// truncated to v >= 1. The normalizer log(1-e^(-mu)) uses Log1mExp so the
// mass stays finite when mu is near zero.
func ZTPoissonLogPMF(v int, mu float64) float64 {
	if v < 1 || mu <= 0 || math.IsInf(mu, 1) || math.IsNaN(mu) {
		return math.Inf(-1)
	}
	return float64(v)*math.Log(mu) - mu - lnFactorial(v) - Log1mExp(mu)
}

// BinomialLogPMF is the log-mass of k successes in n trials with success
// probability p.
func BinomialLogPMF(k, n int, p float64) float64 {
	if k < 0 || n < 0 || k > n {
		return math.Inf(-1)
	}
	if p <= 0 || p >= 1 {
		if (p == 0 && k == 0) || (p == 1 && k == n) {
			return 0
		}
		return math.Inf(-1)
	}
	lc := combin.LogGeneralizedBinomial(float64(n), float64(k))
	return lc + float64(k)*math.Log(p) + float64(n-k)*math.Log1p(-p)
}

// HypergeomLogPMF is the log-mass of drawing k successes when n items are
// inspected without replacement from a population of size total containing
// succ successes.
func HypergeomLogPMF(k, n, succ, total int) float64 {
	if total < 0 || succ < 0 || succ > total || n < 0 || n > total {
		return math.Inf(-1)
	}
	if k < 0 || k > succ || k > n || n-k > total-succ {
		return math.Inf(-1)
	}
	return combin.LogGeneralizedBinomial(float64(succ), float64(k)) +
		combin.LogGeneralizedBinomial(float64(total-succ), float64(n-k)) -
		combin.LogGeneralizedBinomial(float64(total), float64(n))
}

// NormalLogPDF is the log-density of x under Normal(mu, sd).
func NormalLogPDF(x, mu, sd float64) float64 {
	if sd <= 0 {
		return math.Inf(-1)
	}
	z := (x - mu) / sd
	return -0.5*z*z - math.Log(sd) - 0.5*math.Log(2*math.Pi)
}

// GammaLogPDF is the log-density of x under Gamma(shape, rate).
func GammaLogPDF(x, shape, rate float64) float64 {
	if x <= 0 || shape <= 0 || rate <= 0 {
		return math.Inf(-1)
	}
	lg, _ := math.Lgamma(shape)
	return shape*math.Log(rate) - lg + (shape-1)*math.Log(x) - rate*x
}
