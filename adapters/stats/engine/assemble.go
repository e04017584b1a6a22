package engine

import (
	"chanstat/domain/sample"
	"chanstat/domain/stats"
)

// assemble packages the computed vector into an immutable result.
// Descriptive metadata from the bundle is copied through untouched.
func assemble(values []float64, df *stats.DegreesOfFreedom, label string, b *sample.Bundle) *stats.Result {
	res := &stats.Result{
		Values:   values,
		DF:       df,
		Label:    label,
		Features: b.FeatureNames(),
	}
	if b.Metadata != nil {
		res.Metadata = make(map[string]any, len(b.Metadata))
		for k, v := range b.Metadata {
			res.Metadata[k] = v
		}
	}
	return res
}
