// Package engine computes classical hypothesis-test statistics (one-sample
// t, two-sample t, one-way between/within F) independently across the
// feature columns of an observation matrix, using closed-form single-pass
// formulas rather than per-column calls into a general statistics routine.
package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"chanstat/domain/core"
	"chanstat/domain/design"
	"chanstat/domain/sample"
	"chanstat/domain/stats"
	"chanstat/ports"
)

// defaultChunk is the number of feature columns each worker takes at a
// time when the column axis is partitioned.
const defaultChunk = 256

// Request selects the statistic family and the reported output form.
type Request struct {
	Test   stats.TestKind   `json:"test"`
	Output stats.OutputKind `json:"output,omitempty"`
}

// Engine runs the classify -> compute -> transform -> assemble pipeline.
// Distribution evaluation is an injected capability so the computers carry
// no dependency on any particular statistics library.
type Engine struct {
	dist    ports.DistributionPort
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers caps the number of goroutines used to partition the column
// axis. Values below 1 disable partitioning.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// NewEngine creates an engine backed by the given distribution capability.
func NewEngine(dist ports.DistributionPort, opts ...Option) *Engine {
	e := &Engine{dist: dist, workers: 4}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute evaluates the requested statistic for every feature column of
// the bundle. Either the full result vector is returned or an error;
// there is no partial-result mode.
func (e *Engine) Compute(ctx context.Context, b *sample.Bundle, req Request) (*stats.Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	cls, err := design.Classify(b.Groups, b.Replicates)
	if err != nil {
		return nil, err
	}

	raw, df, fam, err := e.computeRaw(ctx, b, cls, req.Test)
	if err != nil {
		return nil, err
	}

	values, dfOut, label, err := e.applyOutput(raw, df, fam, req.Output)
	if err != nil {
		return nil, err
	}

	return assemble(values, dfOut, label, b), nil
}

// computeRaw dispatches to the closed-form computer selected by test kind
// and detected layout, and returns the raw statistic vector with its
// reference-distribution parameters.
func (e *Engine) computeRaw(ctx context.Context, b *sample.Bundle, cls *design.Classification, test stats.TestKind) ([]float64, stats.DegreesOfFreedom, family, error) {
	var zero stats.DegreesOfFreedom

	switch test {
	case stats.TestT:
		if b.Contrast != nil {
			return nil, zero, 0, core.NewContrastError("contrast applies only to F tests")
		}
		matrix := b.Matrix
		switch cls.NumGroups {
		case 1:
			// plain one-sample t over all rows
		case 2:
			// paired-design shorthand: reduce to per-replicate differences
			diffs, err := design.ReduceToDifferences(b.Matrix, cls)
			if err != nil {
				return nil, zero, 0, err
			}
			matrix = diffs
		default:
			return nil, zero, 0, core.NewClassCountError("one-sample t", cls.NumGroups, "1 or 2")
		}
		out := make([]float64, b.ColumnCount())
		err := e.eachChunk(ctx, len(out), func(lo, hi int) {
			oneSampleT(matrix, out, lo, hi)
		})
		return out, stats.ScalarDF(float64(len(matrix) - 1)), familyT, err

	case stats.TestT2:
		if b.Contrast != nil {
			return nil, zero, 0, core.NewContrastError("contrast applies only to F tests")
		}
		if cls.NumGroups != 2 {
			return nil, zero, 0, core.NewClassCountError("two-sample t", cls.NumGroups, "2")
		}
		if cls.Layout != stats.LayoutBetween {
			return nil, zero, 0, core.NewDesignError("two-sample t requires a between-subjects design")
		}
		out := make([]float64, b.ColumnCount())
		err := e.eachChunk(ctx, len(out), func(lo, hi int) {
			twoSampleT(b.Matrix, cls, out, lo, hi)
		})
		return out, stats.ScalarDF(float64(b.RowCount() - 2)), familyT, err

	case stats.TestF:
		if cls.NumGroups < 2 {
			return nil, zero, 0, core.NewClassCountError("one-way F", cls.NumGroups, ">=2")
		}
		switch cls.Layout {
		case stats.LayoutBetween:
			weights, err := groupContrast(b.Contrast, cls)
			if err != nil {
				return nil, zero, 0, err
			}
			df := stats.PairDF(float64(cls.NumGroups-1), float64(b.RowCount()-cls.NumGroups))
			if weights != nil {
				df = stats.PairDF(1, float64(b.RowCount()-cls.NumGroups))
			}
			out := make([]float64, b.ColumnCount())
			err = e.eachChunk(ctx, len(out), func(lo, hi int) {
				betweenF(b.Matrix, cls, weights, out, lo, hi)
			})
			return out, df, familyF, err

		case stats.LayoutWithin:
			if b.Contrast != nil {
				return nil, zero, 0, core.ErrUnsupportedContrast
			}
			df1 := float64(cls.NumGroups - 1)
			df2 := df1 * float64(cls.NumReplicates-1)
			out := make([]float64, b.ColumnCount())
			err := e.eachChunk(ctx, len(out), func(lo, hi int) {
				withinF(b.Matrix, cls, out, lo, hi)
			})
			return out, stats.PairDF(df1, df2), familyF, err
		}
		return nil, zero, 0, core.NewDesignError("unclassified layout")

	default:
		return nil, zero, 0, core.ErrInvalidTest
	}
}

// eachChunk runs fn over [0,m) in column ranges. Columns are mutually
// independent in every computer, so chunks need no synchronization beyond
// the group wait.
func (e *Engine) eachChunk(ctx context.Context, m int, fn func(lo, hi int)) error {
	if e.workers <= 1 || m <= defaultChunk {
		fn(0, m)
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for lo := 0; lo < m; lo += defaultChunk {
		lo, hi := lo, min(lo+defaultChunk, m)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
