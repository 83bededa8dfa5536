package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// goodData builds a small valid store: 2 sites with ragged visit counts.
func goodData() *Data {
	return &Data{
		NSites:  2,
		XLambda: []float64{0.5, -0.3},

		AcousticOffset: []int{0, 2, 3},
		Y:              []int{1, 0, 1},
		V:              []int{3, 0, 2},
		X2:             []float64{0.1, -0.2, 0.4},
		X3:             []float64{0.0, 0.3, -0.1},
		Day:            []int{0, 1, 0},
		NDays:          2,

		CountOffset: []int{0, 1, 3},
		C:           []int{2, 0, 4},
		X4:          []float64{0.2, -0.5, 0.1},

		Val: []Validation{
			{Site: 0, Visit: 0, K: 2, KSub: 1, N: 2},
			{Site: 1, Visit: 0, K: 1, KSub: 1, N: 1},
		},
	}
}

func TestDataGoodCheck(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(goodData().Check())
}

func TestDataRaggedAccessors(t *testing.T) {
	assert := assert.New(t)

	d := goodData()
	assert.Equal(2, d.J(0))
	assert.Equal(1, d.J(1))
	assert.Equal(1, d.NCount(0))
	assert.Equal(2, d.NCount(1))
	assert.Equal(2, d.AIdx(1, 0))
	assert.Equal(2, d.CIdx(1, 1))
	assert.Equal(3, d.TotalAcoustic())
	assert.Equal(3, d.TotalCount())
}

// Each mutation must trip exactly the invariant it violates.
func TestDataBadCheck(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		name   string
		mutate func(*Data)
	}{
		{"no sites", func(d *Data) { d.NSites = 0 }},
		{"covariate length", func(d *Data) { d.XLambda = d.XLambda[:1] }},
		{"offset table short", func(d *Data) { d.AcousticOffset = d.AcousticOffset[:2] }},
		{"offset not from zero", func(d *Data) { d.AcousticOffset[0] = 1 }},
		{"offset decreasing", func(d *Data) { d.CountOffset[1] = 3; d.CountOffset[2] = 1 }},
		{"offset wrong total", func(d *Data) { d.AcousticOffset[2] = 5 }},
		{"acoustic array mismatch", func(d *Data) { d.V = d.V[:2] }},
		{"count array mismatch", func(d *Data) { d.X4 = d.X4[:1] }},
		{"non-binary hurdle", func(d *Data) { d.Y[1] = 2 }},
		{"detection without vocalizations", func(d *Data) { d.V[0] = 0 }},
		{"day out of range", func(d *Data) { d.Day[2] = 7 }},
		{"negative count", func(d *Data) { d.C[1] = -1 }},
		{"validation site out of range", func(d *Data) { d.Val[0].Site = 5 }},
		{"validation visit out of range", func(d *Data) { d.Val[1].Visit = 1 }},
		{"validation on non-detection", func(d *Data) { d.Val[0].Visit = 1 }},
		{"K exceeds v", func(d *Data) { d.Val[0].K = 4 }},
		{"inspected exceeds v", func(d *Data) { d.Val[0].N = 4 }},
		{"k exceeds K", func(d *Data) { d.Val[0].KSub = 3; d.Val[0].K = 2; d.Val[0].N = 3 }},
		{"k exceeds inspected", func(d *Data) { d.Val[0].KSub = 2; d.Val[0].N = 1 }},
	}

	for _, c := range cases {
		d := goodData()
		c.mutate(d)
		assert.Error(d.Check(), c.name)
	}
}
