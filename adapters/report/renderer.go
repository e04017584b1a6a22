// Package report renders a human-readable summary of a computation run:
// the labeled result vector plus a per-feature profile of the input data.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	mstats "github.com/montanaflynn/stats"

	"chanstat/domain/run"
	"chanstat/domain/sample"
	"chanstat/domain/stats"
)

// ColumnProfile summarizes one feature column of the input matrix.
type ColumnProfile struct {
	Feature string
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	Median  float64
}

// Renderer builds run reports.
type Renderer struct{}

// NewRenderer creates a report renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Profile computes per-feature summary statistics for the input bundle.
func (r *Renderer) Profile(b *sample.Bundle) ([]ColumnProfile, error) {
	names := b.FeatureNames()
	profiles := make([]ColumnProfile, b.ColumnCount())

	for c := range profiles {
		col := b.Column(c)

		mean, err := mstats.Mean(col)
		if err != nil {
			return nil, fmt.Errorf("profile of %s: %w", names[c], err)
		}
		sd, _ := mstats.StandardDeviationSample(col)
		lo, _ := mstats.Min(col)
		hi, _ := mstats.Max(col)
		median, _ := mstats.Median(col)

		profiles[c] = ColumnProfile{
			Feature: names[c],
			Mean:    mean,
			StdDev:  sd,
			Min:     lo,
			Max:     hi,
			Median:  median,
		}
	}
	return profiles, nil
}

// Markdown renders the run report as a markdown document.
func (r *Renderer) Markdown(manifest *run.Manifest, result *stats.Result, profiles []ColumnProfile) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Run %s\n\n", manifest.RunID)
	fmt.Fprintf(&sb, "- Test: `%s`\n", manifest.TestKind)
	if manifest.OutputKind != stats.OutputNone {
		fmt.Fprintf(&sb, "- Output: `%s`\n", manifest.OutputKind)
	}
	fmt.Fprintf(&sb, "- Layout: %s\n", manifest.Layout)
	fmt.Fprintf(&sb, "- Observations: %d rows x %d features, %d group level(s)\n",
		manifest.RowCount, manifest.ColumnCount, manifest.GroupCount)
	if manifest.SourceRef != "" {
		fmt.Fprintf(&sb, "- Source: %s\n", manifest.SourceRef)
	}
	fmt.Fprintf(&sb, "\n## %s\n\n", result.Label)

	sb.WriteString("| Feature | Value |\n|---|---|\n")
	for i, v := range result.Values {
		name := fmt.Sprintf("col%d", i+1)
		if i < len(result.Features) {
			name = result.Features[i]
		}
		fmt.Fprintf(&sb, "| %s | %.6g |\n", name, v)
	}

	if len(profiles) > 0 {
		sb.WriteString("\n## Input profile\n\n")
		sb.WriteString("| Feature | Mean | SD | Min | Median | Max |\n|---|---|---|---|---|---|\n")
		for _, p := range profiles {
			fmt.Fprintf(&sb, "| %s | %.4g | %.4g | %.4g | %.4g | %.4g |\n",
				p.Feature, p.Mean, p.StdDev, p.Min, p.Median, p.Max)
		}
	}

	return sb.String()
}

// HTML renders the markdown report to HTML.
func (r *Renderer) HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
