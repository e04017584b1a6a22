package app

import (
	"context"
	"time"

	"chanstat/adapters/report"
	"chanstat/adapters/stats/engine"
	"chanstat/domain/design"
	"chanstat/domain/run"
	"chanstat/domain/sample"
	"chanstat/domain/stats"
	"chanstat/ports"
)

// AnalysisService orchestrates one computation run: load the observation
// bundle, compute the requested statistic, optionally persist the result,
// and render the run report.
type AnalysisService struct {
	engine   *engine.Engine
	source   ports.SampleSourcePort
	store    ports.ResultStorePort
	renderer *report.Renderer
}

// AnalysisRequest defines the inputs for one run. Either Bundle is set
// directly or SourceRef names a container for the sample source to load.
type AnalysisRequest struct {
	Bundle    *sample.Bundle
	SourceRef string
	Test      stats.TestKind
	Output    stats.OutputKind
	Persist   bool
}

// AnalysisResult contains the complete output of a run.
type AnalysisResult struct {
	Manifest *run.Manifest `json:"manifest"`
	Result   *stats.Result `json:"result"`
	ReportMD string        `json:"report_md,omitempty"`
}

// NewAnalysisService creates an analysis service. Source and store may be
// nil when the caller supplies bundles directly and needs no persistence.
func NewAnalysisService(eng *engine.Engine, source ports.SampleSourcePort, store ports.ResultStorePort) *AnalysisService {
	return &AnalysisService{
		engine:   eng,
		source:   source,
		store:    store,
		renderer: report.NewRenderer(),
	}
}

// Run executes one computation run end to end.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	start := time.Now()

	b := req.Bundle
	if b == nil {
		loaded, err := s.source.Load(ctx, req.SourceRef)
		if err != nil {
			return nil, err
		}
		b = loaded
	}

	result, err := s.engine.Compute(ctx, b, engine.Request{Test: req.Test, Output: req.Output})
	if err != nil {
		return nil, err
	}

	manifest := run.NewManifest(req.SourceRef, req.Test, req.Output)
	manifest.RowCount = b.RowCount()
	manifest.ColumnCount = b.ColumnCount()
	manifest.Label = result.Label
	manifest.RuntimeMs = time.Since(start).Milliseconds()
	if cls, err := design.Classify(b.Groups, b.Replicates); err == nil {
		manifest.Layout = cls.Layout
		manifest.GroupCount = cls.NumGroups
	}

	profiles, err := s.renderer.Profile(b)
	if err != nil {
		return nil, err
	}
	md := s.renderer.Markdown(manifest, result, profiles)

	if req.Persist && s.store != nil {
		if err := s.store.SaveRun(ctx, manifest, result); err != nil {
			return nil, err
		}
	}

	return &AnalysisResult{
		Manifest: manifest,
		Result:   result,
		ReportMD: md,
	}, nil
}

// ReportFor rebuilds the report markdown for a stored run. The input
// matrix is gone at that point, so the report carries no input profile.
func (s *AnalysisService) ReportFor(manifest *run.Manifest, result *stats.Result) string {
	return s.renderer.Markdown(manifest, result, nil)
}

// RenderHTML renders a run report to HTML.
func (s *AnalysisService) RenderHTML(md string) []byte {
	return s.renderer.HTML(md)
}
