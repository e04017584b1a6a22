package ports

import (
	"context"

	"chanstat/domain/sample"
)

// SampleSourcePort loads observation bundles from an external container
// (worksheet, file, upload). Implementations own all format concerns; the
// core only ever sees a validated sample.Bundle.
type SampleSourcePort interface {
	Load(ctx context.Context, ref string) (*sample.Bundle, error)
}
