package sample

import (
	"fmt"

	"chanstat/domain/core"
)

// Bundle is the canonical input for all statistic computation: a dense
// observation matrix plus the label vectors that describe its design.
// Rows are measurement events, columns are independent features tested
// in parallel.
type Bundle struct {
	// Core data
	Matrix      [][]float64 // rows=observations, cols=features
	FeatureKeys []core.FeatureKey

	// Design labels, one entry per row
	Groups     []float64
	Replicates []float64

	// Optional single linear contrast over group means
	Contrast []float64

	// Descriptive metadata, copied verbatim onto results
	Metadata map[string]any

	CreatedAt core.Timestamp
}

// NewBundle creates a bundle for a matrix whose rows all share the same
// group level and one replicate unit per row (the plain one-sample case).
func NewBundle(matrix [][]float64, keys []core.FeatureKey) *Bundle {
	n := len(matrix)
	groups := make([]float64, n)
	replicates := make([]float64, n)
	for i := range matrix {
		groups[i] = 1
		replicates[i] = float64(i + 1)
	}
	return &Bundle{
		Matrix:      matrix,
		FeatureKeys: keys,
		Groups:      groups,
		Replicates:  replicates,
		CreatedAt:   core.Now(),
	}
}

// Validate ensures the bundle is internally consistent before any
// computation sees it.
func (b *Bundle) Validate() error {
	n := len(b.Matrix)
	if n < 2 {
		return core.ErrInsufficientData
	}

	m := len(b.Matrix[0])
	for i, row := range b.Matrix {
		if len(row) != m {
			return fmt.Errorf("%w: row %d has %d features, expected %d",
				core.ErrShapeMismatch, i, len(row), m)
		}
	}

	if len(b.Groups) != n {
		return core.NewShapeError("groups", len(b.Groups), n)
	}
	if len(b.Replicates) != n {
		return core.NewShapeError("replicates", len(b.Replicates), n)
	}
	if b.Contrast != nil && len(b.Contrast) != n {
		return core.NewShapeError("contrast", len(b.Contrast), n)
	}
	if b.FeatureKeys != nil && len(b.FeatureKeys) != m {
		return core.NewShapeError("feature keys", len(b.FeatureKeys), m)
	}

	return nil
}

// RowCount returns the number of observations.
func (b *Bundle) RowCount() int {
	return len(b.Matrix)
}

// ColumnCount returns the number of features.
func (b *Bundle) ColumnCount() int {
	if len(b.Matrix) == 0 {
		return 0
	}
	return len(b.Matrix[0])
}

// Column copies out a single feature column.
func (b *Bundle) Column(idx int) []float64 {
	col := make([]float64, len(b.Matrix))
	for i, row := range b.Matrix {
		col[i] = row[idx]
	}
	return col
}

// FeatureNames returns the column keys as strings, or positional names
// when the bundle carries none.
func (b *Bundle) FeatureNames() []string {
	names := make([]string, b.ColumnCount())
	for i := range names {
		if b.FeatureKeys != nil {
			names[i] = b.FeatureKeys[i].String()
		} else {
			names[i] = fmt.Sprintf("col%d", i+1)
		}
	}
	return names
}
