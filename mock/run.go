package mock

import (
	"context"

	"github.com/fwojciec/webtab"
)

var _ webtab.RunService = (*RunService)(nil)

// RunService is a mock implementation of webtab.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *webtab.Run) error
	FindRunsFn  func(ctx context.Context, filter webtab.RunFilter) ([]*webtab.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *webtab.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRuns(ctx context.Context, filter webtab.RunFilter) ([]*webtab.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
