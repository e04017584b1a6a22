// Package design detects the structure of an observation design from its
// group and replicate label vectors. Classification is the single validity
// gate of the pipeline: no statistic computer runs on an unclassified or
// ill-formed design.
package design

import (
	"sort"

	"chanstat/domain/core"
	"chanstat/domain/stats"
)

// Classification is the normalized form of a (groups, replicates) label
// pair: both vectors recoded to dense 0-based levels plus the detected
// layout. It is recomputed per invocation and never persisted.
type Classification struct {
	Groups        []int
	NumGroups     int
	Replicates    []int
	NumReplicates int
	Layout        stats.Layout
}

// Classify normalizes both label vectors and determines whether they form
// a between-subjects or within-subjects design. Any other pattern is
// rejected with core.ErrDesign.
func Classify(groups, replicates []float64) (*Classification, error) {
	if len(groups) != len(replicates) {
		return nil, core.NewShapeError("replicates", len(replicates), len(groups))
	}
	if len(groups) < 2 {
		return nil, core.ErrInsufficientData
	}

	g, numGroups := normalize(groups)
	r, numReplicates := normalize(replicates)

	cls := &Classification{
		Groups:        g,
		NumGroups:     numGroups,
		Replicates:    r,
		NumReplicates: numReplicates,
	}

	if isBetween(r, numReplicates) {
		cls.Layout = stats.LayoutBetween
		return cls, nil
	}
	if isWithin(g, numGroups, r, numReplicates) {
		cls.Layout = stats.LayoutWithin
		return cls, nil
	}

	return nil, core.NewDesignError("replicate units are neither all singletons nor fully crossed with groups")
}

// normalize recodes arbitrary label values to dense 0-based levels.
// Levels are assigned by ascending label value, so the mapping is
// deterministic for any row ordering of the same label set.
func normalize(labels []float64) ([]int, int) {
	distinct := make([]float64, 0, len(labels))
	seen := make(map[float64]bool, len(labels))
	for _, v := range labels {
		if !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}
	sort.Float64s(distinct)

	code := make(map[float64]int, len(distinct))
	for i, v := range distinct {
		code[v] = i
	}

	out := make([]int, len(labels))
	for i, v := range labels {
		out[i] = code[v]
	}
	return out, len(distinct)
}

// isBetween reports whether every replicate code occurs in exactly one row.
func isBetween(replicates []int, numReplicates int) bool {
	if numReplicates != len(replicates) {
		return false
	}
	counts := make([]int, numReplicates)
	for _, r := range replicates {
		counts[r]++
		if counts[r] > 1 {
			return false
		}
	}
	return true
}

// isWithin reports whether every (group, replicate) pair occurs exactly
// once and every replicate unit contributes one row to every group.
func isWithin(groups []int, numGroups int, replicates []int, numReplicates int) bool {
	if len(groups) != numGroups*numReplicates {
		return false
	}
	seen := make([]bool, numGroups*numReplicates)
	for i := range groups {
		key := groups[i]*numReplicates + replicates[i]
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}
