package mock

import (
	"context"

	"github.com/fwojciec/webtab"
)

var _ webtab.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of webtab.Exporter.
type Exporter struct {
	ExportFn func(ctx context.Context, results []*webtab.Result) error
}

func (e *Exporter) Export(ctx context.Context, results []*webtab.Result) error {
	return e.ExportFn(ctx, results)
}
