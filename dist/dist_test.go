package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogitRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, p := range []float64{0.001, 0.1, 0.3, 0.5, 0.9, 0.999} {
		assert.InDelta(p, LogitInv(Logit(p)), 1e-12)
	}
}

// Inverse logit must be finite and ordered even at extreme arguments,
// since Alpha1*N can grow very large during early burn-in.
func TestLogitInvStability(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.5, LogitInv(0))
	assert.InDelta(1.0, LogitInv(800), 1e-12)
	assert.InDelta(0.0, LogitInv(-800), 1e-12)
	assert.False(math.IsNaN(LogitInv(1e308)))
	assert.False(math.IsNaN(LogitInv(-1e308)))
}

func TestLog1mExp(t *testing.T) {
	assert := assert.New(t)

	// against the naive formula where it is accurate
	for _, a := range []float64{0.8, 1, 2, 10} {
		naive := math.Log(1 - math.Exp(-a))
		assert.InDelta(naive, Log1mExp(a), 1e-12)
	}

	// small-argument branch: log(1-e^-a) ~= log(a) - a/2 for small a
	for _, a := range []float64{1e-8, 1e-6, 1e-4} {
		approx := math.Log(a) - a/2
		assert.InDelta(approx, Log1mExp(a), 1e-6)
		assert.False(math.IsInf(Log1mExp(a), 0))
	}

	assert.True(math.IsInf(Log1mExp(0), -1))
	assert.True(math.IsInf(Log1mExp(-1), -1))
}

// The zero-truncated Poisson mass must sum to one over v >= 1.
func TestZTPoissonNormalization(t *testing.T) {
	assert := assert.New(t)

	for _, mu := range []float64{0.01, 0.5, 1, 3, 12} {
		sum := 0.0
		for v := 1; v < 200; v++ {
			sum += math.Exp(ZTPoissonLogPMF(v, mu))
		}
		assert.InDelta(1.0, sum, 1e-9)
	}

	assert.True(math.IsInf(ZTPoissonLogPMF(0, 1), -1))
	assert.True(math.IsInf(ZTPoissonLogPMF(3, 0), -1))
	assert.True(math.IsInf(ZTPoissonLogPMF(3, -2), -1))
	assert.True(math.IsInf(ZTPoissonLogPMF(3, math.Inf(1)), -1))
	assert.True(math.IsInf(ZTPoissonLogPMF(3, math.NaN()), -1))
}

func TestBinomialLogPMF(t *testing.T) {
	assert := assert.New(t)

	// Binomial(2, 0.5) masses: 0.25, 0.5, 0.25
	assert.InDelta(math.Log(0.25), BinomialLogPMF(0, 2, 0.5), 1e-12)
	assert.InDelta(math.Log(0.5), BinomialLogPMF(1, 2, 0.5), 1e-12)
	assert.InDelta(math.Log(0.25), BinomialLogPMF(2, 2, 0.5), 1e-12)

	// outside support
	assert.True(math.IsInf(BinomialLogPMF(3, 2, 0.5), -1))
	assert.True(math.IsInf(BinomialLogPMF(-1, 2, 0.5), -1))

	// degenerate probabilities
	assert.Equal(0.0, BinomialLogPMF(0, 4, 0))
	assert.Equal(0.0, BinomialLogPMF(4, 4, 1))
	assert.True(math.IsInf(BinomialLogPMF(1, 4, 0), -1))
}

func TestBernoulliLogPMF(t *testing.T) {
	assert := assert.New(t)

	assert.InDelta(math.Log(0.3), BernoulliLogPMF(1, 0.3), 1e-12)
	assert.InDelta(math.Log(0.7), BernoulliLogPMF(0, 0.3), 1e-12)
	assert.True(math.IsInf(BernoulliLogPMF(2, 0.3), -1))
	assert.Equal(0.0, BernoulliLogPMF(0, 0))
	assert.Equal(0.0, BernoulliLogPMF(1, 1))
	assert.True(math.IsInf(BernoulliLogPMF(1, 0), -1))
}

func TestHypergeomLogPMF(t *testing.T) {
	assert := assert.New(t)

	// Population 5 with 3 successes, inspect 2:
	// P(k=0) = C(3,0)C(2,2)/C(5,2) = 1/10
	// P(k=1) = C(3,1)C(2,1)/C(5,2) = 6/10
	// P(k=2) = C(3,2)C(2,0)/C(5,2) = 3/10
	assert.InDelta(math.Log(0.1), HypergeomLogPMF(0, 2, 3, 5), 1e-12)
	assert.InDelta(math.Log(0.6), HypergeomLogPMF(1, 2, 3, 5), 1e-12)
	assert.InDelta(math.Log(0.3), HypergeomLogPMF(2, 2, 3, 5), 1e-12)

	sum := 0.0
	for k := 0; k <= 2; k++ {
		sum += math.Exp(HypergeomLogPMF(k, 2, 3, 5))
	}
	assert.InDelta(1.0, sum, 1e-12)

	// impossible draws
	assert.True(math.IsInf(HypergeomLogPMF(3, 2, 3, 5), -1))  // k > n
	assert.True(math.IsInf(HypergeomLogPMF(2, 4, 1, 5), -1))  // k > succ
	assert.True(math.IsInf(HypergeomLogPMF(0, 4, 3, 5), -1))  // too many failures
	assert.True(math.IsInf(HypergeomLogPMF(1, 2, 6, 5), -1))  // succ > total
	assert.True(math.IsInf(HypergeomLogPMF(-1, 2, 3, 5), -1)) // negative k
}

func TestLogisticLogPDF(t *testing.T) {
	assert := assert.New(t)

	// symmetric, mode at 0 with density 1/4
	assert.InDelta(math.Log(0.25), LogisticLogPDF(0), 1e-12)
	assert.InDelta(LogisticLogPDF(3), LogisticLogPDF(-3), 1e-12)
	assert.False(math.IsNaN(LogisticLogPDF(750)))
	assert.False(math.IsNaN(LogisticLogPDF(-750)))
}

func TestNormalGammaLogPDF(t *testing.T) {
	assert := assert.New(t)

	// standard normal at 0: -0.5*log(2*pi)
	assert.InDelta(-0.5*math.Log(2*math.Pi), NormalLogPDF(0, 0, 1), 1e-12)
	assert.True(math.IsInf(NormalLogPDF(0, 0, 0), -1))

	// Gamma(1, r) is Exponential(r): log density = log r - r x
	assert.InDelta(math.Log(2)-2*1.5, GammaLogPDF(1.5, 1, 2), 1e-12)
	assert.True(math.IsInf(GammaLogPDF(-1, 1, 1), -1))
	assert.True(math.IsInf(GammaLogPDF(1, 0, 1), -1))
}
