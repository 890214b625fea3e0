package pdf

import (
	"context"

	"github.com/fwojciec/webtab"
)

// PageCount renders results without saving them.
func PageCount(ctx context.Context, results []*webtab.Result) (int, error) {
	doc, err := render(ctx, results)
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}
