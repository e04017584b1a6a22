package run

import (
	"chanstat/domain/core"
	"chanstat/domain/stats"
)

// Manifest captures the complete specification and outcome of one
// computation run. It is written alongside the result so any stored run
// can be replayed against the same inputs.
type Manifest struct {
	RunID      core.RunID       `json:"run_id"`
	SourceRef  string           `json:"source_ref,omitempty"`
	TestKind   stats.TestKind   `json:"test_kind"`
	OutputKind stats.OutputKind `json:"output_kind,omitempty"`
	Layout     stats.Layout     `json:"layout"`

	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
	GroupCount  int    `json:"group_count"`
	Label       string `json:"label"`

	RuntimeMs int64          `json:"runtime_ms"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// NewManifest creates a manifest with a fresh run ID.
func NewManifest(sourceRef string, test stats.TestKind, output stats.OutputKind) *Manifest {
	return &Manifest{
		RunID:      core.RunID(core.NewID()),
		SourceRef:  sourceRef,
		TestKind:   test,
		OutputKind: output,
		CreatedAt:  core.Now(),
	}
}
