// Package gonumdist backs the distribution port with gonum's distuv
// implementations of Student's t, F and the standard normal.
package gonumdist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions implements ports.DistributionPort.
type Distributions struct{}

// New creates the gonum-backed distribution adapter.
func New() *Distributions {
	return &Distributions{}
}

// StudentTCDF returns the left-tail probability of Student's t.
func (d *Distributions) StudentTCDF(x, df float64) float64 {
	if df <= 0 || math.IsNaN(x) {
		return math.NaN()
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return tDist.CDF(x)
}

// FCDF returns the left-tail probability of the F distribution.
func (d *Distributions) FCDF(x, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(x) {
		return math.NaN()
	}
	fDist := distuv.F{D1: df1, D2: df2}
	return fDist.CDF(x)
}

// NormalQuantile returns the standard normal inverse CDF.
func (d *Distributions) NormalQuantile(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	if p >= 1 {
		return math.Inf(1)
	}
	return distuv.UnitNormal.Quantile(p)
}
