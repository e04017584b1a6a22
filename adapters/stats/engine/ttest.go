package engine

import (
	"math"

	"chanstat/domain/design"
)

// oneSampleT writes t = mu * sqrt(N*df/SS) for each column in [lo,hi),
// with df = N-1 and SS the sum of squared deviations from the column
// mean. Equivalent to mu / (s/sqrt(N)) without a separate variance step.
// An SS of zero propagates as Inf/NaN rather than being special-cased.
func oneSampleT(matrix [][]float64, out []float64, lo, hi int) {
	n := float64(len(matrix))
	df := n - 1

	for c := lo; c < hi; c++ {
		sum := 0.0
		for _, row := range matrix {
			sum += row[c]
		}
		mu := sum / n

		ss := 0.0
		for _, row := range matrix {
			d := row[c] - mu
			ss += d * d
		}

		out[c] = mu * math.Sqrt(n*df/ss)
	}
}

// twoSampleT writes the pooled equal-variance two-sample t for each column
// in [lo,hi): t = (mux-muy) * sqrt(scaling/SS) with
// scaling = nx*ny*df/(nx+ny), df = nx+ny-2, and SS the deviations from
// each group's own mean pooled across both groups. Group order follows
// the normalized group codes.
func twoSampleT(matrix [][]float64, cls *design.Classification, out []float64, lo, hi int) {
	nx, ny := 0.0, 0.0
	for _, g := range cls.Groups {
		if g == 0 {
			nx++
		} else {
			ny++
		}
	}
	df := nx + ny - 2
	scaling := nx * ny * df / (nx + ny)

	for c := lo; c < hi; c++ {
		sumX, sumY := 0.0, 0.0
		for i, row := range matrix {
			if cls.Groups[i] == 0 {
				sumX += row[c]
			} else {
				sumY += row[c]
			}
		}
		mux, muy := sumX/nx, sumY/ny

		ss := 0.0
		for i, row := range matrix {
			var d float64
			if cls.Groups[i] == 0 {
				d = row[c] - mux
			} else {
				d = row[c] - muy
			}
			ss += d * d
		}

		out[c] = (mux - muy) * math.Sqrt(scaling/ss)
	}
}
