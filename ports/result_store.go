package ports

import (
	"context"

	"chanstat/domain/core"
	"chanstat/domain/run"
	"chanstat/domain/stats"
)

// ResultStorePort persists computed result vectors together with their
// run manifests so a run can be retrieved and audited later.
type ResultStorePort interface {
	SaveRun(ctx context.Context, manifest *run.Manifest, result *stats.Result) error
	GetRun(ctx context.Context, runID core.RunID) (*run.Manifest, *stats.Result, error)
	ListRuns(ctx context.Context, limit int) ([]*run.Manifest, error)
}
