package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/webtab"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	req := webtab.Request{URL: c.URL, Instruction: c.Instruction}
	if err := req.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return err
	}

	opts := c.Options.WithDefaults()
	results, err := runExtraction(deps, opts, []webtab.Request{req})
	if err != nil {
		return err
	}

	result := results[0]
	switch result.Status() {
	case webtab.StatusFailed:
		return result.Err
	case webtab.StatusEmpty:
		fmt.Fprintln(deps.Stdout, "No matching data found.")
	default:
		fmt.Fprintln(deps.Stdout, result.Table.String())
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s\n", opts.Output)
	return nil
}

// runExtraction processes requests, writes the workbook and records the
// run. Per-request failures are reported but do not fail the call. When
// the context is canceled mid-batch the finished results are still
// exported and the cancellation is returned.
func runExtraction(deps *Dependencies, opts Options, reqs []webtab.Request) ([]*webtab.Result, error) {
	if err := opts.Check(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return nil, err
	}

	pipeline, err := deps.NewPipeline(opts, true)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return nil, err
	}

	results, err := pipeline.ProcessBatch(deps.Ctx, opts.Output, reqs, deps.History, progressPrinter(deps))
	if err != nil {
		if deps.Ctx.Err() != nil && len(results) > 0 {
			exportInterrupted(deps, opts, len(reqs), results)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return nil, err
	}

	if err := deps.NewExporter(opts.Output).Export(deps.Ctx, results); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return nil, err
	}

	if deps.Runs != nil && deps.History != nil && len(deps.History.Runs) > 0 {
		run := deps.History.Runs[len(deps.History.Runs)-1]
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: run not recorded: %s\n", webtab.ErrorMessage(err))
		}
	}

	return results, nil
}

// exportInterrupted writes the results gathered before cancellation. The
// export runs detached from the canceled context; the run is not recorded.
func exportInterrupted(deps *Dependencies, opts Options, total int, results []*webtab.Result) {
	ctx := context.WithoutCancel(deps.Ctx)
	if err := deps.NewExporter(opts.Output).Export(ctx, results); err != nil {
		fmt.Fprintf(deps.Stderr, "error: partial export failed: %s\n", webtab.ErrorMessage(err))
		return
	}
	ok, empty, failed := countStatuses(results)
	fmt.Fprintf(deps.Stderr, "Interrupted after %d of %d URLs. Wrote %s (%d ok, %d empty, %d failed)\n",
		len(results), total, opts.Output, ok, empty, failed)
}

// progressPrinter reports batch progress on stdout and failures on stderr.
func progressPrinter(deps *Dependencies) webtab.ProgressFunc {
	return func(event webtab.ProgressEvent) {
		switch event.Type {
		case webtab.ProgressRequestStarted:
			fmt.Fprintf(deps.Stdout, "Processing URL %d of %d: %s\n", event.Request+1, event.Requests, event.URL)
		case webtab.ProgressChunkDone:
			fmt.Fprintf(deps.Stdout, "  Parsed batch %d of %d\n", event.Chunk, event.Chunks)
		case webtab.ProgressRequestDone:
			printOutcome(deps, event.Result)
		}
	}
}

func printOutcome(deps *Dependencies, result *webtab.Result) {
	switch result.Status() {
	case webtab.StatusFailed:
		fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", result.Request.URL, webtab.ErrorMessage(result.Err))
	case webtab.StatusEmpty:
		fmt.Fprintln(deps.Stdout, "  No matching data")
	default:
		fmt.Fprintf(deps.Stdout, "  %d rows -> %s\n", len(result.Table.Rows), result.Sheet)
		if result.Table.Dropped > 0 {
			fmt.Fprintf(deps.Stderr, "  %d rows did not match the header\n", result.Table.Dropped)
		}
	}
}

func countStatuses(results []*webtab.Result) (ok, empty, failed int) {
	for _, r := range results {
		switch r.Status() {
		case webtab.StatusOK:
			ok++
		case webtab.StatusEmpty:
			empty++
		case webtab.StatusFailed:
			failed++
		}
	}
	return ok, empty, failed
}
