package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chanstat/domain/core"
	"chanstat/domain/run"
	"chanstat/domain/sample"
	"chanstat/domain/stats"
)

func TestProfile(t *testing.T) {
	b := sample.NewBundle([][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
		{4, 40},
	}, []core.FeatureKey{"a", "b"})

	profiles, err := NewRenderer().Profile(b)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "a", profiles[0].Feature)
	assert.InDelta(t, 2.5, profiles[0].Mean, 1e-12)
	assert.InDelta(t, 2.5, profiles[0].Median, 1e-12)
	assert.InDelta(t, 1.0, profiles[0].Min, 1e-12)
	assert.InDelta(t, 4.0, profiles[0].Max, 1e-12)
	assert.InDelta(t, 25.0, profiles[1].Mean, 1e-12)
}

func TestMarkdownAndHTML(t *testing.T) {
	manifest := run.NewManifest("obs.xlsx", stats.TestT, stats.OutputNone)
	manifest.Layout = stats.LayoutBetween
	manifest.RowCount = 12
	manifest.ColumnCount = 2
	manifest.GroupCount = 1
	manifest.Label = "Ttest(11)"

	df := stats.ScalarDF(11)
	result := &stats.Result{
		Values:   []float64{2.4913, 3.3627},
		DF:       &df,
		Label:    "Ttest(11)",
		Features: []string{"ch1", "ch2"},
	}

	r := NewRenderer()
	md := r.Markdown(manifest, result, []ColumnProfile{
		{Feature: "ch1", Mean: 2.9, StdDev: 4.1, Min: -3, Median: 2.5, Max: 9},
	})

	assert.Contains(t, md, "## Ttest(11)")
	assert.Contains(t, md, "| ch1 | 2.4913 |")
	assert.Contains(t, md, "obs.xlsx")
	assert.Contains(t, md, "## Input profile")

	html := string(r.HTML(md))
	assert.True(t, strings.Contains(html, "<table>"))
	assert.Contains(t, html, "ch1")
}
