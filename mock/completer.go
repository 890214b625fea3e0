package mock

import (
	"context"

	"github.com/fwojciec/webtab"
)

var _ webtab.Completer = (*Completer)(nil)

// Completer is a mock implementation of webtab.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, prompt string) (string, error)
	ModelFn    func() string
}

func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteFn(ctx, prompt)
}

// Model returns "mock" unless ModelFn is set.
func (c *Completer) Model() string {
	if c.ModelFn == nil {
		return "mock"
	}
	return c.ModelFn()
}

var _ webtab.CompletionCache = (*CompletionCache)(nil)

// CompletionCache is a mock implementation of webtab.CompletionCache.
type CompletionCache struct {
	GetCompletionFn func(ctx context.Context, key string) (string, bool, error)
	PutCompletionFn func(ctx context.Context, key, response string) error
}

func (c *CompletionCache) GetCompletion(ctx context.Context, key string) (string, bool, error) {
	return c.GetCompletionFn(ctx, key)
}

func (c *CompletionCache) PutCompletion(ctx context.Context, key, response string) error {
	return c.PutCompletionFn(ctx, key, response)
}
