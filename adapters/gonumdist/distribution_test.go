package gonumdist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStudentTCDF(t *testing.T) {
	d := New()

	assert.InDelta(t, 0.5, d.StudentTCDF(0, 11), 1e-12)

	// 97.5th percentile of t with 11 df is 2.200985
	assert.InDelta(t, 0.975, d.StudentTCDF(2.200985, 11), 1e-6)

	// symmetry
	assert.InDelta(t, 1.0, d.StudentTCDF(1.7, 5)+d.StudentTCDF(-1.7, 5), 1e-12)

	assert.True(t, math.IsNaN(d.StudentTCDF(1.0, 0)))
	assert.True(t, math.IsNaN(d.StudentTCDF(math.NaN(), 11)))
}

func TestFCDF(t *testing.T) {
	d := New()

	assert.InDelta(t, 0.36149795780404, d.FCDF(0.4717557251908397, 2, 9), 1e-8)
	assert.Equal(t, 0.0, d.FCDF(0, 2, 9))
	assert.Less(t, d.FCDF(0.5, 3, 12), d.FCDF(2.0, 3, 12))

	assert.True(t, math.IsNaN(d.FCDF(1.0, 0, 9)))
}

func TestNormalQuantile(t *testing.T) {
	d := New()

	assert.InDelta(t, 0.0, d.NormalQuantile(0.5), 1e-12)
	assert.InDelta(t, 1.959964, d.NormalQuantile(0.975), 1e-5)
	assert.InDelta(t, -1.959964, d.NormalQuantile(0.025), 1e-5)

	assert.True(t, math.IsInf(d.NormalQuantile(0), -1))
	assert.True(t, math.IsInf(d.NormalQuantile(1), 1))
}
