package rand

import (
	"math"

	"github.com/seehuhn/mt19937"
)

// A Generator is a seedable Mersenne twister stream. Every chain owns
// exactly one Generator, so two runs with the same seed reproduce the same
// sample table. It satisfies math/rand/v2.Source (and therefore the Src
// field of the gonum distuv distributions) via Uint64.
type Generator struct {
	mt *mt19937.MT19937

	// cached second deviate from the polar normal method
	haveNorm bool
	normVal  float64
}

// NewGenerator returns a new PRNG stream based on the given seed.
func NewGenerator(seed int64) *Generator {
	mt := mt19937.New()
	mt.Seed(seed)
	return &Generator{mt: mt}
}

// Uint64 returns the next raw 64-bit value from the twister.
func (g *Generator) Uint64() uint64 {
	return g.mt.Uint64()
}

// Int63 provides the same interface as Go's math/rand.
func (g *Generator) Int63() int64 {
	return g.mt.Int63()
}

// Int63n returns a uniform int64 in [0, n).
func (g *Generator) Int63n(n int64) int64 {
	if n <= 0 {
		panic("invalid argument to Int63n")
	}

	if n&(n-1) == 0 { // n is power of two, can mask
		return g.Int63() & (n - 1)
	}

	max := int64((1 << 63) - 1 - (1<<63)%uint64(n))
	v := g.Int63()
	for v > max {
		v = g.Int63()
	}

	return v % n
}

// Intn returns a uniform int in [0, n).
func (g *Generator) Intn(n int) int {
	return int(g.Int63n(int64(n)))
}

// Float64 uses the simpler 53-bit implementation since we don't have the
// same backward-compat requirements as the standard library.
func (g *Generator) Float64() float64 {
	return float64(g.Int63n(1<<53)) / (1 << 53)
}

// NormFloat64 returns a standard normal deviate using the Marsaglia polar
// method. Deviates come in pairs; the spare is cached.
func (g *Generator) NormFloat64() float64 {
	if g.haveNorm {
		g.haveNorm = false
		return g.normVal
	}

	for {
		u := 2*g.Float64() - 1
		v := 2*g.Float64() - 1
		s := u*u + v*v
		if s >= 1 || s == 0 {
			continue
		}
		f := math.Sqrt(-2 * math.Log(s) / s)
		g.normVal = v * f
		g.haveNorm = true
		return u * f
	}
}
