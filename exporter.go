package webtab

import "context"

// Exporter writes batch results to a tabular artifact.
type Exporter interface {
	// Export writes one table per result that has rows, keyed by
	// Result.Sheet. Failed and empty results are skipped.
	Export(ctx context.Context, results []*Result) error
}
