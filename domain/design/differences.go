package design

import (
	"chanstat/domain/core"
	"chanstat/domain/stats"
)

// ReduceToDifferences collapses a two-group within-subjects matrix into
// per-replicate difference rows (group 1 minus group 2), one row per
// replicate unit ordered by replicate code. This turns a paired
// two-sample problem into a one-sample problem on the differences.
func ReduceToDifferences(matrix [][]float64, cls *Classification) ([][]float64, error) {
	if cls.NumGroups != 2 {
		return nil, core.NewClassCountError("paired difference reduction", cls.NumGroups, "2")
	}
	if cls.Layout != stats.LayoutWithin {
		return nil, core.NewDesignError("paired differences require a within-subjects design")
	}
	if len(matrix) != len(cls.Groups) {
		return nil, core.NewShapeError("matrix rows", len(matrix), len(cls.Groups))
	}

	cols := 0
	if len(matrix) > 0 {
		cols = len(matrix[0])
	}

	diffs := make([][]float64, cls.NumReplicates)
	for j := range diffs {
		diffs[j] = make([]float64, cols)
	}

	for i, row := range matrix {
		unit := diffs[cls.Replicates[i]]
		switch cls.Groups[i] {
		case 0:
			for c, v := range row {
				unit[c] += v
			}
		case 1:
			for c, v := range row {
				unit[c] -= v
			}
		}
	}

	return diffs, nil
}
