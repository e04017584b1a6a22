package engine

import (
	"chanstat/domain/core"
	"chanstat/domain/design"
)

// groupContrast validates a per-observation contrast vector and collapses
// it to one weight per group level. The vector must be constant within
// every group and sum to exactly zero across the whole design; violations
// are rejected rather than silently corrected. A nil contrast selects the
// omnibus test and returns nil weights.
func groupContrast(contrast []float64, cls *design.Classification) ([]float64, error) {
	if contrast == nil {
		return nil, nil
	}

	weights := make([]float64, cls.NumGroups)
	set := make([]bool, cls.NumGroups)
	total := 0.0
	for i, v := range contrast {
		g := cls.Groups[i]
		if set[g] && weights[g] != v {
			return nil, core.NewContrastError("contrast value varies within a group")
		}
		weights[g] = v
		set[g] = true
		total += v
	}
	if total != 0 {
		return nil, core.NewContrastError("contrast does not sum to zero")
	}
	return weights, nil
}

// betweenF writes the between-subjects F for each column in [lo,hi).
// Omnibus: BSS = sum_k n_k*(mu-mu_k)^2 with df1 = K-1. With contrast
// weights the sums run per observation, so each group contributes
// n_k times: BSS = (sum_k n_k*c_k*(mu-mu_k))^2 / sum_k n_k*c_k^2 with
// df1 = 1. WSS pools squared deviations from each group's mean,
// df2 = N-K.
func betweenF(matrix [][]float64, cls *design.Classification, weights []float64, out []float64, lo, hi int) {
	n := float64(len(matrix))
	k := cls.NumGroups

	counts := make([]float64, k)
	for _, g := range cls.Groups {
		counts[g]++
	}

	df1 := float64(k - 1)
	if weights != nil {
		df1 = 1
	}
	df2 := n - float64(k)

	sumSqW := 0.0
	for g, w := range weights {
		sumSqW += counts[g] * w * w
	}

	means := make([]float64, k)
	for c := lo; c < hi; c++ {
		grand := 0.0
		for i := range means {
			means[i] = 0
		}
		for i, row := range matrix {
			grand += row[c]
			means[cls.Groups[i]] += row[c]
		}
		grand /= n
		for g := range means {
			means[g] /= counts[g]
		}

		bss := 0.0
		if weights == nil {
			for g, mk := range means {
				d := grand - mk
				bss += counts[g] * d * d
			}
		} else {
			dot := 0.0
			for g, mk := range means {
				dot += counts[g] * weights[g] * (grand - mk)
			}
			bss = dot * dot / sumSqW
		}

		wss := 0.0
		for i, row := range matrix {
			d := means[cls.Groups[i]] - row[c]
			wss += d * d
		}

		out[c] = (bss / df1) / (wss / df2)
	}
}

// withinF writes the within-subjects (repeated measures) F for each column
// in [lo,hi): treatment sum of squares over the residual after removing
// the replicate-unit effect, SSE = SSW - SSS, df2 = (K-1)*(R-1).
func withinF(matrix [][]float64, cls *design.Classification, out []float64, lo, hi int) {
	n := float64(len(matrix))
	k := cls.NumGroups
	r := cls.NumReplicates

	groupCounts := make([]float64, k)
	for _, g := range cls.Groups {
		groupCounts[g]++
	}
	repCounts := make([]float64, r)
	for _, j := range cls.Replicates {
		repCounts[j]++
	}

	df1 := float64(k - 1)
	df2 := df1 * float64(r-1)

	groupMeans := make([]float64, k)
	repMeans := make([]float64, r)

	for c := lo; c < hi; c++ {
		grand := 0.0
		for i := range groupMeans {
			groupMeans[i] = 0
		}
		for i := range repMeans {
			repMeans[i] = 0
		}
		for i, row := range matrix {
			grand += row[c]
			groupMeans[cls.Groups[i]] += row[c]
			repMeans[cls.Replicates[i]] += row[c]
		}
		grand /= n
		for g := range groupMeans {
			groupMeans[g] /= groupCounts[g]
		}
		for j := range repMeans {
			repMeans[j] /= repCounts[j]
		}

		sst := 0.0
		for g, mk := range groupMeans {
			d := grand - mk
			sst += groupCounts[g] * d * d
		}

		ssw := 0.0
		for i, row := range matrix {
			d := groupMeans[cls.Groups[i]] - row[c]
			ssw += d * d
		}

		sss := 0.0
		for j, mj := range repMeans {
			d := grand - mj
			sss += repCounts[j] * d * d
		}

		sse := ssw - sss
		out[c] = (sst / df1) / (sse / df2)
	}
}
