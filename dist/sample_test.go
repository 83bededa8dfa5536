package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/rand"
)

// Round-trip property for the truncation: a sampled v is never 0, for
// rates small enough that the untruncated Poisson is almost always 0.
func TestZTPoissonNeverZero(t *testing.T) {
	assert := assert.New(t)

	gen := rand.NewGenerator(11)
	for _, mu := range []float64{1e-6, 0.01, 0.5, 2, 20} {
		for i := 0; i < 5000; i++ {
			v := ZTPoisson(gen, mu)
			assert.GreaterOrEqual(v, 1)
		}
	}
}

func TestZTPoissonMean(t *testing.T) {
	assert := assert.New(t)

	gen := rand.NewGenerator(12)
	const n = 100000
	mu := 3.0
	want := mu / (1 - math.Exp(-mu))

	sum := 0
	for i := 0; i < n; i++ {
		sum += ZTPoisson(gen, mu)
	}
	assert.InDelta(want, float64(sum)/n, 0.05)
}

func TestBinomialBounds(t *testing.T) {
	assert := assert.New(t)

	gen := rand.NewGenerator(13)
	for i := 0; i < 2000; i++ {
		k := Binomial(gen, 7, 0.4)
		assert.True(k >= 0 && k <= 7)
	}
	assert.Equal(0, Binomial(gen, 0, 0.5))
	assert.Equal(5, Binomial(gen, 5, 1))
	assert.Equal(0, Binomial(gen, 5, 0))
}

// Sequential hypergeometric draws can never exceed the inspected count or
// the number of successes in the population.
func TestHypergeomBounds(t *testing.T) {
	assert := assert.New(t)

	gen := rand.NewGenerator(14)
	for i := 0; i < 5000; i++ {
		succ := gen.Intn(10)
		total := succ + gen.Intn(10)
		n := gen.Intn(total + 2) // may exceed total; sampler must cap
		k := Hypergeom(gen, n, succ, total)

		assert.GreaterOrEqual(k, 0)
		assert.LessOrEqual(k, succ)
		if n < total {
			assert.LessOrEqual(k, n)
		}
	}
}

func TestPoissonGammaSane(t *testing.T) {
	assert := assert.New(t)

	gen := rand.NewGenerator(15)

	const n = 50000
	sum := 0
	for i := 0; i < n; i++ {
		sum += Poisson(gen, 4)
	}
	assert.InDelta(4.0, float64(sum)/n, 0.05)
	assert.Equal(0, Poisson(gen, 0))

	var gsum float64
	for i := 0; i < n; i++ {
		g := Gamma(gen, 2, 4) // mean shape/rate = 0.5
		assert.Greater(g, 0.0)
		gsum += g
	}
	assert.InDelta(0.5, gsum/n, 0.01)
}

func TestSamplersDeterministic(t *testing.T) {
	assert := assert.New(t)

	g1 := rand.NewGenerator(77)
	g2 := rand.NewGenerator(77)
	for i := 0; i < 500; i++ {
		assert.Equal(ZTPoisson(g1, 2.5), ZTPoisson(g2, 2.5))
		assert.Equal(Binomial(g1, 6, 0.3), Binomial(g2, 6, 0.3))
		assert.Equal(Hypergeom(g1, 3, 4, 9), Hypergeom(g2, 3, 4, 9))
		assert.Equal(Poisson(g1, 1.7), Poisson(g2, 1.7))
		assert.Equal(Gamma(g1, 1.1, 2.2), Gamma(g2, 1.1, 2.2))
	}
}
