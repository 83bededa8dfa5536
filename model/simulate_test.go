package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/dist"
	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/rand"
)

func simTruth() *Params {
	return &Params{
		Beta0:  0.5,
		Beta1:  0.2,
		Alpha0: dist.Logit(0.3),
		Alpha1: 0.1,
		Gamma0: 1.0,
		Phi0:   0,
		Omega:  0.5,
	}
}

func TestSimulateValidDataset(t *testing.T) {
	assert := assert.New(t)

	cfg := SimConfig{
		NSites:         20,
		AcousticVisits: 4,
		CountVisits:    3,
		NDays:          4,
		Variant:        VariantCovariate,
		Inspect:        5,
		Truth:          simTruth(),
	}

	d, truth, err := Simulate(cfg, rand.NewGenerator(3))
	assert.NoError(err)
	assert.NoError(d.Check())
	assert.Equal(20, d.NSites)
	assert.Equal(80, d.TotalAcoustic())
	assert.Equal(60, d.TotalCount())
	assert.Len(truth.N, 20)

	for _, n := range truth.N {
		assert.GreaterOrEqual(n, 0)
	}

	// vocalization counts exist exactly where the hurdle fired
	for t := range d.Y {
		if d.Y[t] == 1 {
			assert.GreaterOrEqual(d.V[t], 1)
		} else {
			assert.Equal(0, d.V[t])
		}
	}

	// every validation record satisfies k <= K <= v
	assert.NotEmpty(d.Val)
	for _, val := range d.Val {
		v := d.V[d.AIdx(val.Site, val.Visit)]
		assert.LessOrEqual(val.K, v)
		assert.LessOrEqual(val.KSub, val.K)
		assert.LessOrEqual(val.KSub, val.N)
	}
}

func TestSimulatePresetAbundance(t *testing.T) {
	assert := assert.New(t)

	truth := simTruth()
	truth.N = []int{3, 5}
	cfg := SimConfig{
		NSites:         2,
		AcousticVisits: 4,
		CountVisits:    3,
		Variant:        VariantCovariate,
		Inspect:        5,
		Truth:          truth,
	}

	d, got, err := Simulate(cfg, rand.NewGenerator(4))
	assert.NoError(err)
	assert.Equal([]int{3, 5}, got.N)

	// counts can never exceed the fixed latent abundance
	for i := 0; i < d.NSites; i++ {
		for t := d.CountOffset[i]; t < d.CountOffset[i+1]; t++ {
			assert.LessOrEqual(d.C[t], got.N[i])
		}
	}
}

func TestSimulateDayVariant(t *testing.T) {
	assert := assert.New(t)

	truth := simTruth()
	truth.APhi = 2
	truth.TauDay = 4
	cfg := SimConfig{
		NSites:         10,
		AcousticVisits: 4,
		CountVisits:    2,
		NDays:          4,
		Variant:        VariantDayEffect,
		Inspect:        3,
		Truth:          truth,
	}

	d, got, err := Simulate(cfg, rand.NewGenerator(5))
	assert.NoError(err)
	assert.NoError(d.Check())
	assert.Len(got.DayEff, 4)
	assert.Len(got.PhiVis, d.TotalAcoustic())
	for _, phi := range got.PhiVis {
		assert.Greater(phi, 0.0)
	}
}

func TestSimulateDeterminism(t *testing.T) {
	assert := assert.New(t)

	cfg := SimConfig{
		NSites:         8,
		AcousticVisits: 3,
		CountVisits:    2,
		Variant:        VariantCovariate,
		Inspect:        4,
		Truth:          simTruth(),
	}

	d1, p1, err1 := Simulate(cfg, rand.NewGenerator(9))
	d2, p2, err2 := Simulate(cfg, rand.NewGenerator(9))
	assert.NoError(err1)
	assert.NoError(err2)
	assert.Equal(d1, d2)
	assert.Equal(p1.N, p2.N)
}

func TestSimulateBadConfig(t *testing.T) {
	assert := assert.New(t)

	_, _, err := Simulate(SimConfig{NSites: 0, Truth: simTruth()}, rand.NewGenerator(1))
	assert.Error(err)

	_, _, err = Simulate(SimConfig{NSites: 2, AcousticVisits: 1, CountVisits: 1}, rand.NewGenerator(1))
	assert.Error(err)
}
