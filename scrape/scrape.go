// Package scrape runs extraction requests end to end: fetch, normalize,
// chunk, extract and assemble.
package scrape

import (
	"context"
	"log/slog"

	"github.com/fwojciec/webtab"
	"github.com/fwojciec/webtab/extract"
)

// Pipeline turns requests into tables. It holds configuration and
// collaborators only; state that outlives a call, such as run history, is
// owned by the caller.
type Pipeline struct {
	Fetcher    webtab.Fetcher
	Normalizer webtab.Normalizer
	Extractor  *extract.Extractor

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	Mismatch webtab.MismatchPolicy
	Naming   webtab.SheetNaming

	// Logger receives per-request outcomes and row-shape drops.
	// Nil discards them.
	Logger *slog.Logger
}

// Validate reports configuration errors. It is meant to run before any
// request is fetched.
func (p *Pipeline) Validate() error {
	switch {
	case p.Fetcher == nil:
		return webtab.Errorf(webtab.ECONFIG, "fetcher required")
	case p.Normalizer == nil:
		return webtab.Errorf(webtab.ECONFIG, "normalizer required")
	case p.Extractor == nil || p.Extractor.Completer == nil:
		return webtab.Errorf(webtab.ECONFIG, "completer required")
	case p.ChunkSize <= 0:
		return webtab.Errorf(webtab.ECONFIG, "chunk size must be positive, got %d", p.ChunkSize)
	case p.Extractor.Concurrency < 0:
		return webtab.Errorf(webtab.ECONFIG, "concurrency must not be negative, got %d", p.Extractor.Concurrency)
	}
	if err := p.Mismatch.Validate(); err != nil {
		return err
	}
	return p.Naming.Validate()
}

// ProcessBatch processes requests one after another in submission order
// and returns one result per request. A failing request does not stop the
// batch. When history is non-nil a summary run named after file is
// appended to it. Cancellation stops the batch between requests and
// returns the results gathered so far with the context error.
func (p *Pipeline) ProcessBatch(ctx context.Context, file string, reqs []webtab.Request, history *webtab.History, progress webtab.ProgressFunc) ([]*webtab.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	namer := webtab.NewSheetNamer(p.Naming)
	results := make([]*webtab.Result, 0, len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		emit(progress, webtab.ProgressEvent{
			Type:     webtab.ProgressRequestStarted,
			URL:      req.URL,
			Request:  i,
			Requests: len(reqs),
		})

		result := p.process(ctx, req, i, len(reqs), namer, progress)
		results = append(results, result)

		emit(progress, webtab.ProgressEvent{
			Type:     webtab.ProgressRequestDone,
			URL:      req.URL,
			Request:  i,
			Requests: len(reqs),
			Result:   result,
		})
	}

	if history != nil && len(results) > 0 {
		history.Add(webtab.NewRun(file, results))
	}
	return results, nil
}

// Process runs a single request. Failures are reported in Result.Err.
func (p *Pipeline) Process(ctx context.Context, req webtab.Request, position int, namer *webtab.SheetNamer, progress webtab.ProgressFunc) *webtab.Result {
	return p.process(ctx, req, position, 1, namer, progress)
}

func (p *Pipeline) process(ctx context.Context, req webtab.Request, position, total int, namer *webtab.SheetNamer, progress webtab.ProgressFunc) *webtab.Result {
	result := &webtab.Result{Request: req}
	if namer != nil {
		result.Sheet = namer.Name(req.URL, position)
	}
	log := p.logger().With("url", req.URL, "sheet", result.Sheet)

	table, err := p.extract(ctx, req, func(done, chunks int) {
		emit(progress, webtab.ProgressEvent{
			Type:     webtab.ProgressChunkDone,
			URL:      req.URL,
			Request:  position,
			Requests: total,
			Chunk:    done,
			Chunks:   chunks,
		})
	})
	if err != nil {
		result.Err = err
		log.Warn("request failed", "err", err)
		return result
	}

	result.Table = table
	switch result.Status() {
	case webtab.StatusEmpty:
		log.Info("no data extracted")
	default:
		if table.Dropped > 0 {
			log.Warn("row shape mismatch", "policy", string(p.Mismatch), "rows", table.Dropped)
		}
		log.Info("table extracted", "columns", len(table.Header), "rows", len(table.Rows))
	}
	return result
}

func (p *Pipeline) extract(ctx context.Context, req webtab.Request, progress extract.ChunkFunc) (*webtab.Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	markup, err := p.Fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, &webtab.FetchError{URL: req.URL, Err: err}
	}

	lines, err := p.Normalizer.Normalize(markup)
	if err != nil {
		return nil, err
	}

	chunks, err := webtab.SplitChunks(webtab.JoinLines(lines), p.ChunkSize)
	if err != nil {
		return nil, err
	}

	responses, err := p.Extractor.Extract(ctx, chunks, req.Instruction, progress)
	if err != nil {
		return nil, err
	}

	table, ok := webtab.AssembleTable(responses, p.Mismatch)
	if !ok {
		return nil, nil
	}
	return table, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

func emit(progress webtab.ProgressFunc, event webtab.ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
