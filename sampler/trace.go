package sampler

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Table is the fixed-capacity retained-sample store: one row per retained
// sweep, one column per parameter (plus the N trajectories). Running
// mean/variance are maintained incrementally (Welford); empirical
// quantiles are computed on demand from the single stored history.
type Table struct {
	Cols []string

	cap  int
	rows int
	data []float64 // row-major, rows x len(Cols)

	mean []float64
	m2   []float64
}

// NewTable creates a table sized to capacity rows.
func NewTable(cols []string, capacity int) *Table {
	return &Table{
		Cols: append([]string(nil), cols...),
		cap:  capacity,
		data: make([]float64, 0, capacity*len(cols)),
		mean: make([]float64, len(cols)),
		m2:   make([]float64, len(cols)),
	}
}

// Append records one retained sweep.
func (t *Table) Append(vals []float64) error {
	if len(vals) != len(t.Cols) {
		return errors.Errorf("Row has %d values for %d columns", len(vals), len(t.Cols))
	}
	if t.rows >= t.cap {
		return errors.Errorf("Table is full at %d rows", t.cap)
	}

	t.data = append(t.data, vals...)
	t.rows++

	// Welford running moments
	n := float64(t.rows)
	for j, v := range vals {
		d := v - t.mean[j]
		t.mean[j] += d / n
		t.m2[j] += d * (v - t.mean[j])
	}

	return nil
}

// Rows returns the number of retained sweeps recorded so far.
func (t *Table) Rows() int {
	return t.rows
}

// Row returns the i-th retained sweep (a view, not a copy).
func (t *Table) Row(i int) []float64 {
	w := len(t.Cols)
	return t.data[i*w : (i+1)*w]
}

// ColIndex returns the column index for a parameter name, or -1.
func (t *Table) ColIndex(name string) int {
	for j, c := range t.Cols {
		if c == name {
			return j
		}
	}
	return -1
}

// Col materializes one column.
func (t *Table) Col(j int) []float64 {
	w := len(t.Cols)
	out := make([]float64, t.rows)
	for i := 0; i < t.rows; i++ {
		out[i] = t.data[i*w+j]
	}
	return out
}

// Mean returns the running mean of column j.
func (t *Table) Mean(j int) float64 {
	return t.mean[j]
}

// Variance returns the running sample variance of column j.
func (t *Table) Variance(j int) float64 {
	if t.rows < 2 {
		return 0
	}
	return t.m2[j] / float64(t.rows-1)
}

// Quantile returns the empirical q-quantile of column j.
func (t *Table) Quantile(j int, q float64) float64 {
	if t.rows == 0 {
		return math.NaN()
	}
	col := t.Col(j)
	sort.Float64s(col)
	return stat.Quantile(q, stat.Empirical, col, nil)
}

// Equal reports whether two tables hold byte-identical histories. Used by
// the determinism checks.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.Cols) != len(o.Cols) {
		return false
	}
	for j, c := range t.Cols {
		if o.Cols[j] != c {
			return false
		}
	}
	for i, v := range t.data {
		if o.data[i] != v {
			return false
		}
	}
	return true
}

// PooledMean returns the pooled posterior mean of column j across tables,
// weighted by retained rows. Pure aggregation, run only after every chain
// has completed.
func PooledMean(tables []*Table, j int) float64 {
	var sum float64
	var n int
	for _, t := range tables {
		sum += t.Mean(j) * float64(t.rows)
		n += t.rows
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
