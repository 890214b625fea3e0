package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/webtab"
	"github.com/fwojciec/webtab/scrape"
)

// Built-in option values used when neither a flag nor a batch file sets one.
const (
	DefaultProvider = "openai"
	DefaultCleaner  = "text"
	DefaultOutput   = "results.xlsx"
	DefaultTimeout  = 30 * time.Second
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Runs webtab.RunService

	// History collects the runs of this invocation.
	History *webtab.History

	// NewPipeline builds a pipeline for the given options. withModel is
	// false for commands that never call a language model.
	NewPipeline func(opts Options, withModel bool) (*scrape.Pipeline, error)

	// NewExporter returns an exporter writing to path.
	NewExporter func(path string) webtab.Exporter

	// TokenCounter is optional; preview reports token estimates with it.
	TokenCounter webtab.TokenCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log fetches, model calls and exports to stderr"`

	Scrape  ScrapeCmd  `cmd:"" help:"Extract a table from one URL"`
	Batch   BatchCmd   `cmd:"" help:"Extract tables from the URLs listed in a YAML file"`
	Preview PreviewCmd `cmd:"" help:"Show the normalized text and chunking of a URL without calling a model"`
	History HistoryCmd `cmd:"" help:"List previous runs"`
}

// FetchOptions control how pages are loaded and split.
type FetchOptions struct {
	Static    bool          `help:"Fetch with plain HTTP instead of a headless browser" yaml:"static"`
	Stealth   bool          `help:"Hide headless browser fingerprints from bot checks" yaml:"stealth"`
	Cleaner   string        `help:"Text normalizer: text or markdown" yaml:"cleaner"`
	Timeout   time.Duration `help:"Per-page fetch timeout (default 30s)" yaml:"timeout"`
	ChunkSize int           `name:"chunk-size" help:"Maximum characters per model call (default 6000)" yaml:"chunk_size"`
}

// Options are the extraction settings shared by scrape and batch. Zero
// values mean "not set"; see Merge and WithDefaults.
type Options struct {
	FetchOptions `embed:"" yaml:",inline"`

	Provider    string `help:"Model provider: openai or gemini" yaml:"provider"`
	Model       string `help:"Model name (provider default if empty)" yaml:"model"`
	BaseURL     string `name:"base-url" help:"OpenAI-compatible API base URL" env:"OPENAI_BASE_URL" yaml:"base_url"`
	Concurrency int    `help:"Chunks sent to the model at once (default 1)" yaml:"concurrency"`
	Mismatch    string `help:"Rows whose cell count differs from the header: drop or pad" yaml:"mismatch"`
	Naming      string `help:"Sheet names: domain or fixed" yaml:"naming"`
	NoCache     bool   `name:"no-cache" help:"Always call the model, ignoring cached responses" yaml:"no_cache"`
	Output      string `short:"o" help:"Output: an .xlsx workbook, a .pdf report, or a directory of Markdown files for any other path (default results.xlsx)" type:"path" yaml:"output"`

	OpenAIKey string `name:"openai-key" env:"OPENAI_API_KEY" hidden:"" yaml:"-"`
	GeminiKey string `name:"gemini-key" env:"GEMINI_API_KEY" hidden:"" yaml:"-"`
}

// Merge fills every unset field of o from defaults.
func (o Options) Merge(defaults Options) Options {
	o.Static = o.Static || defaults.Static
	o.Stealth = o.Stealth || defaults.Stealth
	o.NoCache = o.NoCache || defaults.NoCache
	o.Cleaner = firstString(o.Cleaner, defaults.Cleaner)
	o.Provider = firstString(o.Provider, defaults.Provider)
	o.Model = firstString(o.Model, defaults.Model)
	o.BaseURL = firstString(o.BaseURL, defaults.BaseURL)
	o.Mismatch = firstString(o.Mismatch, defaults.Mismatch)
	o.Naming = firstString(o.Naming, defaults.Naming)
	o.Output = firstString(o.Output, defaults.Output)
	o.OpenAIKey = firstString(o.OpenAIKey, defaults.OpenAIKey)
	o.GeminiKey = firstString(o.GeminiKey, defaults.GeminiKey)
	if o.Timeout == 0 {
		o.Timeout = defaults.Timeout
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = defaults.ChunkSize
	}
	if o.Concurrency == 0 {
		o.Concurrency = defaults.Concurrency
	}
	return o
}

// WithDefaults fills unset fields with the built-in values.
func (o Options) WithDefaults() Options {
	return o.Merge(Options{
		FetchOptions: FetchOptions{
			Cleaner:   DefaultCleaner,
			Timeout:   DefaultTimeout,
			ChunkSize: webtab.DefaultChunkSize,
		},
		Provider:    DefaultProvider,
		Concurrency: 1,
		Mismatch:    string(webtab.MismatchDrop),
		Naming:      string(webtab.SheetNamingDomain),
		Output:      DefaultOutput,
	})
}

// Check rejects values no pipeline can run with. Call it after
// WithDefaults.
func (o Options) Check() error {
	switch o.Provider {
	case "openai", "gemini":
	default:
		return webtab.Errorf(webtab.ECONFIG, "unknown provider %q", o.Provider)
	}
	switch o.Cleaner {
	case "text", "markdown":
	default:
		return webtab.Errorf(webtab.ECONFIG, "unknown cleaner %q", o.Cleaner)
	}
	if o.Static && o.Stealth {
		return webtab.Errorf(webtab.ECONFIG, "stealth requires the headless browser; drop --static")
	}
	if o.Timeout < 0 {
		return webtab.Errorf(webtab.ECONFIG, "timeout must not be negative")
	}
	if o.ChunkSize <= 0 {
		return webtab.Errorf(webtab.ECONFIG, "chunk size must be positive, got %d", o.ChunkSize)
	}
	if o.Concurrency < 1 {
		return webtab.Errorf(webtab.ECONFIG, "concurrency must be at least 1, got %d", o.Concurrency)
	}
	if err := webtab.MismatchPolicy(o.Mismatch).Validate(); err != nil {
		return err
	}
	return webtab.SheetNaming(o.Naming).Validate()
}

func firstString(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL         string `arg:"" help:"Page URL (http or https)"`
	Instruction string `arg:"" help:"What to extract, e.g. \"product names and prices\""`

	Options `embed:""`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML file with requests and optional defaults"`

	Options `embed:""`
}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	URL   string `arg:"" help:"Page URL (http or https)"`
	Lines bool   `help:"Print the normalized text"`

	Tokenizer string `default:"openai" enum:"openai,gemini" help:"Tokenizer for the token estimate: openai or gemini"`

	FetchOptions `embed:""`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int  `short:"n" default:"20" help:"Number of runs to show"`
	URLs  bool `name:"urls" help:"List the URLs of each run"`
}
