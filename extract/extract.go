// Package extract runs the per-chunk model calls of an extraction request.
package extract

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fwojciec/webtab"
	"golang.org/x/sync/errgroup"
)

// Extractor sends each chunk, wrapped in the extraction prompt, to a
// Completer and collects the raw responses in chunk order.
type Extractor struct {
	Completer webtab.Completer

	// Cache, if set, memoizes responses by model, chunk and instruction.
	Cache webtab.CompletionCache

	// Concurrency is the number of chunks in flight. Values below 2 process
	// chunks strictly one after another.
	Concurrency int

	// Logger receives cache failures. Defaults to discarding.
	Logger *slog.Logger
}

// ChunkFunc is called after each chunk's response arrives with the number
// of chunks done so far and the total. Calls never overlap, and done rises
// by one on each call, even when chunks run concurrently.
type ChunkFunc func(done, total int)

// Extract returns one response per chunk, in chunk order. Zero chunks yield
// zero responses. The first failing chunk aborts the whole call with an
// *webtab.ExtractionError; there is no retry and no partial result.
func (e *Extractor) Extract(ctx context.Context, chunks []string, instruction string, progress ChunkFunc) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	if instruction == "" {
		return nil, webtab.Errorf(webtab.EINVALID, "instruction required")
	}

	responses := make([]string, len(chunks))
	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		if progress != nil {
			progress(done, len(chunks))
		}
	}

	if e.Concurrency < 2 {
		for i, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return nil, &webtab.ExtractionError{ChunkIndex: i, Err: err}
			}
			resp, err := e.complete(ctx, chunk, instruction)
			if err != nil {
				return nil, &webtab.ExtractionError{ChunkIndex: i, Err: err}
			}
			responses[i] = resp
			report()
		}
		return responses, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &webtab.ExtractionError{ChunkIndex: i, Err: err}
			}
			resp, err := e.complete(gctx, chunk, instruction)
			if err != nil {
				return &webtab.ExtractionError{ChunkIndex: i, Err: err}
			}
			responses[i] = resp
			report()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// complete returns the cached response for the chunk or asks the model.
func (e *Extractor) complete(ctx context.Context, chunk, instruction string) (string, error) {
	var key string
	if e.Cache != nil {
		key = webtab.CacheKey(e.Completer.Model(), chunk, instruction)
		resp, ok, err := e.Cache.GetCompletion(ctx, key)
		if err != nil {
			e.logger().Warn("completion cache read failed", "key", key, "err", err)
		} else if ok {
			return resp, nil
		}
	}

	resp, err := e.Completer.Complete(ctx, webtab.BuildPrompt(chunk, instruction))
	if err != nil {
		return "", err
	}

	if e.Cache != nil {
		if err := e.Cache.PutCompletion(ctx, key, resp); err != nil {
			e.logger().Warn("completion cache write failed", "key", key, "err", err)
		}
	}
	return resp, nil
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}
