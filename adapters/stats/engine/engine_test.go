package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chanstat/adapters/gonumdist"
	"chanstat/domain/core"
	"chanstat/domain/sample"
	"chanstat/domain/stats"
)

// fixtureBundle builds the 12x3 integer matrix mod(1+7k,13)-3, k=0..35,
// filled column by column, with the given design labels.
func fixtureBundle(groups, replicates []float64) *sample.Bundle {
	matrix := make([][]float64, 12)
	for r := range matrix {
		matrix[r] = make([]float64, 3)
	}
	for k := 0; k < 36; k++ {
		matrix[k%12][k/12] = float64((1+7*k)%13 - 3)
	}

	b := sample.NewBundle(matrix, nil)
	if groups != nil {
		b.Groups = groups
	}
	if replicates != nil {
		b.Replicates = replicates
	}
	return b
}

func seqLabels(n int, period int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i%period + 1)
	}
	return out
}

func blockLabels(n int, block int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i/block + 1)
	}
	return out
}

func newTestEngine() *Engine {
	return NewEngine(gonumdist.New())
}

func TestOneSampleT_Fixture(t *testing.T) {
	b := fixtureBundle(nil, nil)

	res, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT})
	require.NoError(t, err)

	want := []float64{2.4913484571534443, 3.36269122990683, 2.5548918817579205}
	require.Len(t, res.Values, 3)
	for i, w := range want {
		assert.InDelta(t, w, res.Values[i], 1e-9)
	}
	require.NotNil(t, res.DF)
	assert.Equal(t, 11.0, res.DF.Numerator)
	assert.False(t, res.DF.Pair)
	assert.Equal(t, "Ttest(11)", res.Label)
}

func TestOneSampleT_ZscoreOutput(t *testing.T) {
	b := fixtureBundle(nil, nil)

	res, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT, Output: stats.OutputZ})
	require.NoError(t, err)

	want := []float64{2.170572078795653, 2.7299892017445866, 2.214986972294178}
	for i, w := range want {
		assert.InDelta(t, w, res.Values[i], 1e-8)
	}
	assert.Nil(t, res.DF, "df is not meaningful for a z-score")
	assert.Equal(t, "Zscore", res.Label)
}

func TestOneSampleT_PvalDefaultsTwoSided(t *testing.T) {
	b := fixtureBundle(nil, nil)

	res, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT, Output: stats.OutputP})
	require.NoError(t, err)

	want := []float64{0.02996353443822275, 0.006333640056109813, 0.026760958627783715}
	for i, w := range want {
		assert.InDelta(t, w, res.Values[i], 1e-8)
	}
	assert.Nil(t, res.DF)
	assert.Equal(t, "Pval", res.Label)
}

func TestTwoSampleT_Fixture(t *testing.T) {
	b := fixtureBundle(seqLabels(12, 2), nil)

	res, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT2})
	require.NoError(t, err)

	want := []float64{-2.514618911619948, 5.5549205986353085, -6.48074069840786}
	for i, w := range want {
		assert.InDelta(t, w, res.Values[i], 1e-9)
	}
	assert.Equal(t, 10.0, res.DF.Numerator)
	assert.Equal(t, "Ttest(10)", res.Label)
}

func TestBetweenF_Fixture(t *testing.T) {
	b := fixtureBundle(seqLabels(12, 3), nil)

	res, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestF})
	require.NoError(t, err)

	want := []float64{0.4717557251908397, 0.06382978723404256, 0.05}
	for i, w := range want {
		assert.InDelta(t, w, res.Values[i], 1e-9)
	}
	require.NotNil(t, res.DF)
	assert.True(t, res.DF.Pair)
	assert.Equal(t, 2.0, res.DF.Numerator)
	assert.Equal(t, 9.0, res.DF.Denominator)
	assert.Equal(t, "Ftest(2,9)", res.Label)
}

func TestBetweenF_PvalDefaultsRightTail(t *testing.T) {
	b := fixtureBundle(seqLabels(12, 3), nil)

	res, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestF, Output: stats.OutputP})
	require.NoError(t, err)

	want := []float64{0.6385020421959411, 0.9385854951322173, 0.9514917499658614}
	for i, w := range want {
		assert.InDelta(t, w, res.Values[i], 1e-8)
	}
	assert.Equal(t, "Pval", res.Label)
}

func TestWithinF_Fixture(t *testing.T) {
	b := fixtureBundle(seqLabels(12, 3), blockLabels(12, 3))

	res, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestF})
	require.NoError(t, err)

	want := []float64{0.365680473372781, 0.05325443786982248, 0.05325443786982248}
	for i, w := range want {
		assert.InDelta(t, w, res.Values[i], 1e-9)
	}
	assert.Equal(t, 2.0, res.DF.Numerator)
	assert.Equal(t, 6.0, res.DF.Denominator)
	assert.Equal(t, "Ftest(2,6)", res.Label)
}

func TestPairedT_EqualsTTestOnDifferences(t *testing.T) {
	// two within-subject groups with noisy, non-degenerate differences
	matrix := [][]float64{
		{4.1, 0.3}, {2.0, 1.1}, // r1: g1, g2
		{5.5, -0.2}, {3.1, 2.7}, // r2
		{3.9, 1.9}, {4.0, 0.5}, // r3
		{6.2, 2.2}, {2.9, 1.0}, // r4
		{5.0, 0.1}, {3.3, 3.3}, // r5
	}
	b := sample.NewBundle(matrix, nil)
	b.Groups = seqLabels(10, 2)
	b.Replicates = blockLabels(10, 2)

	res, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT})
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.DF.Numerator)
	assert.Equal(t, "Ttest(4)", res.Label)

	// one-sample t on the hand-computed per-replicate differences
	diffs := make([][]float64, 5)
	for j := range diffs {
		g1, g2 := matrix[2*j], matrix[2*j+1]
		diffs[j] = []float64{g1[0] - g2[0], g1[1] - g2[1]}
	}
	ref, err := newTestEngine().Compute(context.Background(), sample.NewBundle(diffs, nil), Request{Test: stats.TestT})
	require.NoError(t, err)

	for i := range ref.Values {
		assert.InDelta(t, ref.Values[i], res.Values[i], 1e-12)
	}
}

func TestContrastF_EqualsSquaredTwoSampleT(t *testing.T) {
	groups := seqLabels(12, 2)
	contrast := make([]float64, 12)
	for i := range contrast {
		if groups[i] == 1 {
			contrast[i] = 1
		} else {
			contrast[i] = -1
		}
	}

	b := fixtureBundle(groups, nil)
	b.Contrast = contrast

	fRes, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestF})
	require.NoError(t, err)
	assert.Equal(t, 1.0, fRes.DF.Numerator)
	assert.Equal(t, 10.0, fRes.DF.Denominator)
	assert.Equal(t, "Ftest(1,10)", fRes.Label)

	want := []float64{6.323308270676692, 30.857142857142854, 42.0}
	for i, w := range want {
		assert.InDelta(t, w, fRes.Values[i], 1e-9)
	}

	tRes, err := newTestEngine().Compute(context.Background(), fixtureBundle(groups, nil), Request{Test: stats.TestT2})
	require.NoError(t, err)

	for i := range tRes.Values {
		assert.InDelta(t, tRes.Values[i]*tRes.Values[i], fRes.Values[i], 1e-9)
	}
}

func TestF_TranslationAndScaleInvariance(t *testing.T) {
	designs := []struct {
		name       string
		groups     []float64
		replicates []float64
	}{
		{"between", seqLabels(12, 3), nil},
		{"within", seqLabels(12, 3), blockLabels(12, 3)},
	}

	for _, d := range designs {
		t.Run(d.name, func(t *testing.T) {
			base := fixtureBundle(d.groups, d.replicates)
			ref, err := newTestEngine().Compute(context.Background(), base, Request{Test: stats.TestF})
			require.NoError(t, err)

			shifted := fixtureBundle(d.groups, d.replicates)
			scaled := fixtureBundle(d.groups, d.replicates)
			for r := range shifted.Matrix {
				for c := range shifted.Matrix[r] {
					shifted.Matrix[r][c] += 17.5
					scaled.Matrix[r][c] *= 3
				}
			}

			shiftRes, err := newTestEngine().Compute(context.Background(), shifted, Request{Test: stats.TestF})
			require.NoError(t, err)
			scaleRes, err := newTestEngine().Compute(context.Background(), scaled, Request{Test: stats.TestF})
			require.NoError(t, err)

			for i := range ref.Values {
				assert.InDelta(t, ref.Values[i], shiftRes.Values[i], 1e-9)
				assert.InDelta(t, ref.Values[i], scaleRes.Values[i], 1e-9)
			}
		})
	}
}

func TestTailAlgebra(t *testing.T) {
	b := fixtureBundle(nil, nil)
	eng := newTestEngine()

	left, err := eng.Compute(context.Background(), b, Request{Test: stats.TestT, Output: stats.OutputLeft})
	require.NoError(t, err)
	right, err := eng.Compute(context.Background(), b, Request{Test: stats.TestT, Output: stats.OutputRight})
	require.NoError(t, err)
	both, err := eng.Compute(context.Background(), b, Request{Test: stats.TestT, Output: stats.OutputBoth})
	require.NoError(t, err)

	for i := range left.Values {
		assert.InDelta(t, 1.0, left.Values[i]+right.Values[i], 1e-12)
		assert.InDelta(t, 2*min(left.Values[i], right.Values[i]), both.Values[i], 1e-12)
		assert.GreaterOrEqual(t, both.Values[i], 0.0)
		assert.LessOrEqual(t, both.Values[i], 1.0)
	}
}

func TestContrastValidation(t *testing.T) {
	groups := seqLabels(12, 2)

	t.Run("varies within a group", func(t *testing.T) {
		b := fixtureBundle(groups, nil)
		c := make([]float64, 12)
		for i := range c {
			c[i] = float64(i) - 5.5
		}
		b.Contrast = c
		_, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestF})
		assert.ErrorIs(t, err, core.ErrContrast)
	})

	t.Run("nonzero sum", func(t *testing.T) {
		b := fixtureBundle(groups, nil)
		c := make([]float64, 12)
		for i := range c {
			if groups[i] == 1 {
				c[i] = 2
			} else {
				c[i] = -1
			}
		}
		b.Contrast = c
		_, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestF})
		assert.ErrorIs(t, err, core.ErrContrast)
	})

	t.Run("rejected for within designs", func(t *testing.T) {
		b := fixtureBundle(seqLabels(12, 3), blockLabels(12, 3))
		c := make([]float64, 12)
		for i := range c {
			switch b.Groups[i] {
			case 1:
				c[i] = 1
			case 2:
				c[i] = 0
			default:
				c[i] = -1
			}
		}
		b.Contrast = c
		_, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestF})
		assert.ErrorIs(t, err, core.ErrUnsupportedContrast)
	})

	t.Run("rejected for t tests", func(t *testing.T) {
		b := fixtureBundle(nil, nil)
		b.Contrast = make([]float64, 12)
		_, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT})
		assert.ErrorIs(t, err, core.ErrContrast)
	})
}

func TestRequestGates(t *testing.T) {
	t.Run("one-sample t rejects three groups", func(t *testing.T) {
		b := fixtureBundle(seqLabels(12, 3), blockLabels(12, 3))
		_, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT})
		assert.ErrorIs(t, err, core.ErrClassCount)
	})

	t.Run("two-sample t rejects three groups", func(t *testing.T) {
		b := fixtureBundle(seqLabels(12, 3), nil)
		_, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT2})
		assert.ErrorIs(t, err, core.ErrClassCount)
	})

	t.Run("two-sample t rejects paired designs", func(t *testing.T) {
		b := fixtureBundle(seqLabels(12, 2), blockLabels(12, 2))
		_, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT2})
		assert.True(t, core.IsDesignError(err))
	})

	t.Run("F rejects a single group", func(t *testing.T) {
		b := fixtureBundle(nil, nil)
		_, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestF})
		assert.ErrorIs(t, err, core.ErrClassCount)
	})

	t.Run("unknown test kind", func(t *testing.T) {
		b := fixtureBundle(nil, nil)
		_, err := newTestEngine().Compute(context.Background(), b, Request{Test: "chi2"})
		assert.ErrorIs(t, err, core.ErrInvalidTest)
	})

	t.Run("unknown output kind", func(t *testing.T) {
		b := fixtureBundle(nil, nil)
		_, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT, Output: "q"})
		assert.ErrorIs(t, err, core.ErrInvalidOutput)
	})
}

func TestConstantColumnPropagates(t *testing.T) {
	matrix := [][]float64{{2, 0}, {2, 0}, {2, 0}, {2, 0}}
	b := sample.NewBundle(matrix, nil)

	res, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT})
	require.NoError(t, err)

	// SS = 0: positive mean gives +Inf, zero mean gives NaN; neither is
	// special-cased away
	assert.True(t, math.IsInf(res.Values[0], 1))
	assert.True(t, math.IsNaN(res.Values[1]))
}

func TestMetadataPassthrough(t *testing.T) {
	b := fixtureBundle(nil, nil)
	b.Metadata = map[string]any{"session": "s01", "channels": 3}
	b.FeatureKeys = []core.FeatureKey{"ch1", "ch2", "ch3"}

	res, err := newTestEngine().Compute(context.Background(), b, Request{Test: stats.TestT})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"session": "s01", "channels": 3}, res.Metadata)
	assert.Equal(t, []string{"ch1", "ch2", "ch3"}, res.Features)
}

func TestParallelMatchesSerial(t *testing.T) {
	// wide matrix so the column axis is actually partitioned
	const n, m = 24, 1500
	matrix := make([][]float64, n)
	for r := range matrix {
		matrix[r] = make([]float64, m)
		for c := range matrix[r] {
			matrix[r][c] = float64((r*31+c*17)%23) - 11
		}
	}
	groups := seqLabels(n, 3)

	bundle := func() *sample.Bundle {
		b := sample.NewBundle(matrix, nil)
		b.Groups = groups
		return b
	}

	serial, err := NewEngine(gonumdist.New(), WithWorkers(1)).Compute(context.Background(), bundle(), Request{Test: stats.TestF})
	require.NoError(t, err)
	parallel, err := NewEngine(gonumdist.New(), WithWorkers(8)).Compute(context.Background(), bundle(), Request{Test: stats.TestF})
	require.NoError(t, err)

	assert.Equal(t, serial.Values, parallel.Values)
}

// stubDist returns canned probabilities so the transform path can be
// exercised without any real distribution library.
type stubDist struct{ p float64 }

func (s stubDist) StudentTCDF(x, df float64) float64 { return s.p }
func (s stubDist) FCDF(x, df1, df2 float64) float64  { return s.p }
func (s stubDist) NormalQuantile(p float64) float64  { return p * 10 }

func TestEngine_UsesInjectedDistribution(t *testing.T) {
	b := fixtureBundle(nil, nil)

	res, err := NewEngine(stubDist{p: 0.25}).Compute(context.Background(), b, Request{Test: stats.TestT, Output: stats.OutputZ})
	require.NoError(t, err)
	for _, v := range res.Values {
		assert.InDelta(t, 2.5, v, 1e-12)
	}

	res, err = NewEngine(stubDist{p: 0.25}).Compute(context.Background(), b, Request{Test: stats.TestT, Output: stats.OutputBoth})
	require.NoError(t, err)
	for _, v := range res.Values {
		assert.InDelta(t, 0.5, v, 1e-12)
	}
}
