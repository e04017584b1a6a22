package engine

import (
	"chanstat/domain/core"
	"chanstat/domain/stats"
)

// family identifies the reference distribution of a raw statistic.
type family int

const (
	familyT family = iota
	familyF
)

// label renders the raw-statistic label, e.g. "Ttest(11)" or "Ftest(2,9)".
func (f family) label(df stats.DegreesOfFreedom) string {
	if f == familyF {
		return "Ftest(" + df.String() + ")"
	}
	return "Ttest(" + df.String() + ")"
}

// defaultTail is the conventional tail for p-value output: F is inherently
// one-sided (right), the t family two-sided.
func (f family) defaultTail() stats.Tail {
	if f == familyF {
		return stats.TailRight
	}
	return stats.TailBoth
}

// applyOutput maps the raw statistic vector to the requested output form.
// Raw output keeps the statistic and its df; "z" maps the left-tail
// probability through the inverse normal CDF and drops the df; the p
// outputs adjust the left-tail probability for the selected tail.
func (e *Engine) applyOutput(raw []float64, df stats.DegreesOfFreedom, fam family, output stats.OutputKind) ([]float64, *stats.DegreesOfFreedom, string, error) {
	var tail stats.Tail

	switch output {
	case stats.OutputNone:
		return raw, &df, fam.label(df), nil
	case stats.OutputZ:
		values := make([]float64, len(raw))
		for i, x := range raw {
			values[i] = e.dist.NormalQuantile(e.leftTail(x, df, fam))
		}
		return values, nil, "Zscore", nil
	case stats.OutputP:
		tail = fam.defaultTail()
	case stats.OutputLeft:
		tail = stats.TailLeft
	case stats.OutputRight:
		tail = stats.TailRight
	case stats.OutputBoth:
		tail = stats.TailBoth
	default:
		return nil, nil, "", core.NewInvalidOutputError(string(output))
	}

	values := make([]float64, len(raw))
	for i, x := range raw {
		pLeft := e.leftTail(x, df, fam)
		switch tail {
		case stats.TailLeft:
			values[i] = pLeft
		case stats.TailRight:
			values[i] = 1 - pLeft
		case stats.TailBoth:
			values[i] = 2 * min(pLeft, 1-pLeft)
		}
	}
	return values, nil, "Pval", nil
}

// leftTail evaluates the family CDF at the raw statistic.
func (e *Engine) leftTail(x float64, df stats.DegreesOfFreedom, fam family) float64 {
	if fam == familyF {
		return e.dist.FCDF(x, df.Numerator, df.Denominator)
	}
	return e.dist.StudentTCDF(x, df.Numerator)
}
