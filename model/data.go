// Package model holds the data store, parameter state, likelihood
// evaluator, priors, and generative simulator for the integrated
// acoustic / point-count abundance model. Everything here is pure: the
// sampler package owns all mutation and randomness ordering.
package model

import (
	"github.com/pkg/errors"
)

// Data is the read-only store for one fitted dataset. Ragged per-site
// visit records are flattened into value slices with per-site offset
// tables (offset[i] .. offset[i+1] spans site i), so lengths are
// bounds-checkable without nested containers.
//
// Data is populated once before sampling and never mutated afterward.
type Data struct {
	NSites  int
	XLambda []float64 // abundance covariate per site

	// Acoustic (ARU) visits
	AcousticOffset []int     // len NSites+1
	Y              []int     // hurdle indicator, 0/1
	V              []int     // vocalization count, defined only when Y=1
	X2             []float64 // detection covariate
	X3             []float64 // true-positive-rate covariate
	Day            []int     // day index for the day random effect
	NDays          int

	// Point-count visits
	CountOffset []int // len NSites+1
	C           []int
	X4          []float64 // count detection covariate

	// Manual validation join rows
	Val []Validation
}

// Validation links one acoustic visit to its manually verified counts:
// of the V automated detections, K were verified as true positives, and
// of N inspected detections, KSub belonged to the K true positives.
type Validation struct {
	Site  int
	Visit int // acoustic visit index within Site
	K     int
	KSub  int
	N     int
}

// J returns the number of acoustic visits at site i.
func (d *Data) J(i int) int {
	return d.AcousticOffset[i+1] - d.AcousticOffset[i]
}

// NCount returns the number of point-count visits at site i.
func (d *Data) NCount(i int) int {
	return d.CountOffset[i+1] - d.CountOffset[i]
}

// AIdx returns the flat index of acoustic visit j at site i.
func (d *Data) AIdx(i, j int) int {
	return d.AcousticOffset[i] + j
}

// CIdx returns the flat index of count visit j at site i.
func (d *Data) CIdx(i, j int) int {
	return d.CountOffset[i] + j
}

// TotalAcoustic returns the total number of acoustic visits.
func (d *Data) TotalAcoustic() int {
	return len(d.Y)
}

// TotalCount returns the total number of point-count visits.
func (d *Data) TotalCount() int {
	return len(d.C)
}

// Check validates every structural invariant of the store. It is run once
// before sampling; any error here is fatal and names the offending index.
func (d *Data) Check() error {
	if d.NSites < 1 {
		return errors.Errorf("Data must have at least 1 site, got %d", d.NSites)
	}
	if len(d.XLambda) != d.NSites {
		return errors.Errorf("XLambda has %d entries for %d sites", len(d.XLambda), d.NSites)
	}

	if err := checkOffsets("acoustic", d.AcousticOffset, d.NSites, len(d.Y)); err != nil {
		return err
	}
	if err := checkOffsets("count", d.CountOffset, d.NSites, len(d.C)); err != nil {
		return err
	}

	na := len(d.Y)
	if len(d.V) != na || len(d.X2) != na || len(d.X3) != na || len(d.Day) != na {
		return errors.Errorf("Acoustic arrays disagree: Y=%d V=%d X2=%d X3=%d Day=%d",
			len(d.Y), len(d.V), len(d.X2), len(d.X3), len(d.Day))
	}
	if len(d.X4) != len(d.C) {
		return errors.Errorf("Count arrays disagree: C=%d X4=%d", len(d.C), len(d.X4))
	}

	for t := 0; t < na; t++ {
		if d.Y[t] != 0 && d.Y[t] != 1 {
			return errors.Errorf("Y[%d]=%d is not a 0/1 hurdle indicator", t, d.Y[t])
		}
		if d.Y[t] == 1 && d.V[t] < 1 {
			return errors.Errorf("V[%d]=%d but Y[%d]=1 requires V >= 1", t, d.V[t], t)
		}
		if d.Day[t] < 0 || d.Day[t] >= d.NDays {
			return errors.Errorf("Day[%d]=%d outside [0,%d)", t, d.Day[t], d.NDays)
		}
	}

	for t, c := range d.C {
		if c < 0 {
			return errors.Errorf("C[%d]=%d is negative", t, c)
		}
	}

	for r, val := range d.Val {
		if val.Site < 0 || val.Site >= d.NSites {
			return errors.Errorf("Val[%d] references site %d outside [0,%d)", r, val.Site, d.NSites)
		}
		if val.Visit < 0 || val.Visit >= d.J(val.Site) {
			return errors.Errorf("Val[%d] references visit %d but site %d has %d acoustic visits",
				r, val.Visit, val.Site, d.J(val.Site))
		}
		t := d.AIdx(val.Site, val.Visit)
		if d.Y[t] != 1 {
			return errors.Errorf("Val[%d] references visit (%d,%d) with no detection", r, val.Site, val.Visit)
		}
		v := d.V[t]
		if val.K < 0 || val.K > v {
			return errors.Errorf("Val[%d] has K=%d outside [0,%d]", r, val.K, v)
		}
		if val.N < 0 || val.N > v {
			return errors.Errorf("Val[%d] inspected N=%d outside [0,%d]", r, val.N, v)
		}
		lim := val.K
		if val.N < lim {
			lim = val.N
		}
		if val.KSub < 0 || val.KSub > lim {
			return errors.Errorf("Val[%d] has k=%d outside [0,min(K=%d,n=%d)]", r, val.KSub, val.K, val.N)
		}
	}

	return nil
}

func checkOffsets(kind string, off []int, nSites, total int) error {
	if len(off) != nSites+1 {
		return errors.Errorf("%s offset table has %d entries for %d sites", kind, len(off), nSites)
	}
	if off[0] != 0 {
		return errors.Errorf("%s offset table must start at 0, got %d", kind, off[0])
	}
	for i := 1; i < len(off); i++ {
		if off[i] < off[i-1] {
			return errors.Errorf("%s offset table decreases at site %d: %d < %d", kind, i-1, off[i], off[i-1])
		}
	}
	if off[nSites] != total {
		return errors.Errorf("%s offset table ends at %d but there are %d records", kind, off[nSites], total)
	}
	return nil
}
