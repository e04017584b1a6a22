package stats

import (
	"fmt"
)

// TestKind selects the statistic family computed per feature column.
type TestKind string

const (
	TestT  TestKind = "t"  // one-sample t (or paired t via differences)
	TestT2 TestKind = "t2" // independent two-sample t, equal variance
	TestF  TestKind = "F"  // one-way F / ANOVA
)

// OutputKind selects how the raw statistic is reported.
// The tail kinds imply a p-value output and override the family default tail.
type OutputKind string

const (
	OutputNone  OutputKind = ""      // raw statistic
	OutputZ     OutputKind = "z"     // z-score via inverse normal CDF
	OutputP     OutputKind = "p"     // p-value with the family default tail
	OutputLeft  OutputKind = "left"  // left-tailed p-value
	OutputRight OutputKind = "right" // right-tailed p-value
	OutputBoth  OutputKind = "both"  // two-sided p-value
)

// Tail identifies which side(s) of the reference distribution count as
// more extreme than observed.
type Tail string

const (
	TailLeft  Tail = "left"
	TailRight Tail = "right"
	TailBoth  Tail = "both"
)

// Layout is the detected observation design.
type Layout string

const (
	LayoutBetween Layout = "between" // every replicate unit in exactly one group
	LayoutWithin  Layout = "within"  // every replicate unit once per group
)

// DegreesOfFreedom carries the reference distribution parameters for a
// raw statistic. The t family uses a single value, the F family a pair.
type DegreesOfFreedom struct {
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator,omitempty"`
	Pair        bool    `json:"pair"`
}

// ScalarDF builds a t-family degrees-of-freedom value.
func ScalarDF(df float64) DegreesOfFreedom {
	return DegreesOfFreedom{Numerator: df}
}

// PairDF builds an F-family degrees-of-freedom pair.
func PairDF(df1, df2 float64) DegreesOfFreedom {
	return DegreesOfFreedom{Numerator: df1, Denominator: df2, Pair: true}
}

// String renders the df the way it appears inside result labels.
func (d DegreesOfFreedom) String() string {
	if d.Pair {
		return fmt.Sprintf("%g,%g", d.Numerator, d.Denominator)
	}
	return fmt.Sprintf("%g", d.Numerator)
}

// Result is the labeled output vector of one computation: one value per
// feature column, the degrees of freedom when the raw statistic was kept,
// and any descriptive metadata copied through from the input bundle.
// Results are never mutated after assembly.
type Result struct {
	Values   []float64         `json:"values"`
	DF       *DegreesOfFreedom `json:"df,omitempty"`
	Label    string            `json:"label"`
	Features []string          `json:"features,omitempty"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}
