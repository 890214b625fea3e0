package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/fwojciec/webtab"
)

// Run executes the preview command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	req := webtab.Request{URL: c.URL, Instruction: "preview"}
	if err := req.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return err
	}

	opts := Options{FetchOptions: c.FetchOptions}.WithDefaults()
	if err := opts.Check(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return err
	}

	pipeline, err := deps.NewPipeline(opts, false)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return err
	}

	markup, err := pipeline.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		err = &webtab.FetchError{URL: c.URL, Err: err}
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return err
	}

	lines, err := pipeline.Normalizer.Normalize(markup)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return err
	}
	text := webtab.JoinLines(lines)

	chunks, err := webtab.SplitChunks(text, pipeline.ChunkSize)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return err
	}

	if c.Lines {
		for _, line := range lines {
			fmt.Fprintln(deps.Stdout, line)
		}
		fmt.Fprintln(deps.Stdout)
	}

	fmt.Fprintf(deps.Stdout, "%s\n", c.URL)
	fmt.Fprintf(deps.Stdout, "  Page:   %s\n", FormatBytes(len(markup)))
	fmt.Fprintf(deps.Stdout, "  Text:   %d lines, %d characters\n", len(lines), utf8.RuneCountInString(text))
	fmt.Fprintf(deps.Stdout, "  Chunks: %d of up to %d characters\n", len(chunks), pipeline.ChunkSize)

	if deps.TokenCounter != nil && text != "" {
		if tokens, err := deps.TokenCounter.CountTokens(deps.Ctx, text); err == nil {
			fmt.Fprintf(deps.Stdout, "  Tokens: %s\n", FormatTokens(tokens))
		}
	}

	return nil
}
