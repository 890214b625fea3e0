package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webtab"
	"github.com/fwojciec/webtab/extract"
	"github.com/fwojciec/webtab/fs"
	"github.com/fwojciec/webtab/gemini"
	"github.com/fwojciec/webtab/goquery"
	"github.com/fwojciec/webtab/htmltomarkdown"
	webhttp "github.com/fwojciec/webtab/http"
	"github.com/fwojciec/webtab/openai"
	"github.com/fwojciec/webtab/pdf"
	"github.com/fwojciec/webtab/rod"
	"github.com/fwojciec/webtab/scrape"
	wslog "github.com/fwojciec/webtab/slog"
	"github.com/fwojciec/webtab/sqlite"
	"github.com/fwojciec/webtab/tiktoken"
	"github.com/fwojciec/webtab/xlsx"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// recyclePages is how many pages a browser renders before it is replaced.
const recyclePages = 100

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Logger receives decorator output. Run replaces it when --verbose is set.
	Logger *slog.Logger

	// closers release fetchers created while wiring pipelines.
	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Logger: slog.New(slog.DiscardHandler),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		History: &webtab.History{},
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webtab"),
		kong.Description("Extract tables from web pages with a language model"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webtab --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Verbose {
		m.Logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set WEBTAB_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.Runs = sqlite.NewRunService(m.DB)
	deps.NewPipeline = func(opts Options, withModel bool) (*scrape.Pipeline, error) {
		return m.NewPipeline(ctx, opts, withModel, stderr)
	}
	deps.NewExporter = func(path string) webtab.Exporter {
		return wslog.NewLoggingExporter(NewExporter(path), m.Logger)
	}

	if strings.HasPrefix(kongCtx.Command(), "preview") {
		deps.TokenCounter = newTokenCounter(cli.Preview.Tokenizer)
	}

	return kongCtx.Run(deps)
}

// NewPipeline wires a pipeline from resolved options. Fetchers it starts
// are released by Close.
func (m *Main) NewPipeline(ctx context.Context, opts Options, withModel bool, stderr io.Writer) (*scrape.Pipeline, error) {
	var fetcher webtab.Fetcher
	if opts.Static {
		fetcher = webhttp.NewFetcher(webhttp.WithTimeout(opts.Timeout))
	} else {
		fopts := []rod.Option{rod.WithFetchTimeout(opts.Timeout), rod.WithBrowserRecycling(recyclePages)}
		if opts.Stealth {
			fopts = append(fopts, rod.WithStealth())
		}
		f, err := rod.NewFetcher(fopts...)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --static")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	}
	m.closers = append(m.closers, fetcher)

	var normalizer webtab.Normalizer = goquery.NewNormalizer()
	if opts.Cleaner == "markdown" {
		normalizer = htmltomarkdown.NewNormalizer()
	}

	p := &scrape.Pipeline{
		Fetcher:    wslog.NewLoggingFetcher(fetcher, m.Logger),
		Normalizer: normalizer,
		ChunkSize:  opts.ChunkSize,
		Mismatch:   webtab.MismatchPolicy(opts.Mismatch),
		Naming:     webtab.SheetNaming(opts.Naming),
		Logger:     m.Logger,
	}
	if !withModel {
		return p, nil
	}

	completer, err := m.newCompleter(ctx, opts, stderr)
	if err != nil {
		return nil, err
	}
	p.Extractor = &extract.Extractor{
		Completer:   wslog.NewLoggingCompleter(completer, m.Logger),
		Concurrency: opts.Concurrency,
		Logger:      m.Logger,
	}
	if !opts.NoCache && m.DB != nil {
		p.Extractor.Cache = sqlite.NewCompletionCache(m.DB)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *Main) newCompleter(ctx context.Context, opts Options, stderr io.Writer) (webtab.Completer, error) {
	switch opts.Provider {
	case "gemini":
		if opts.GeminiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, webtab.Errorf(webtab.ECONFIG, "GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  opts.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewCompleter(client, opts.Model), nil
	default:
		// OpenAI-compatible servers such as a local Ollama need no key.
		if opts.OpenAIKey == "" && opts.BaseURL == "" {
			fmt.Fprintln(stderr, "OPENAI_API_KEY environment variable not set. Set it, or point --base-url at an OpenAI-compatible server")
			return nil, webtab.Errorf(webtab.ECONFIG, "OPENAI_API_KEY not set")
		}
		return openai.NewCompleter(openai.NewClient(opts.OpenAIKey, opts.BaseURL), opts.Model), nil
	}
}

// newTokenCounter returns nil when the tokenizer cannot be loaded; preview
// then omits the estimate.
func newTokenCounter(tokenizer string) webtab.TokenCounter {
	if tokenizer == "gemini" {
		if tc, err := gemini.NewTokenCounter(gemini.DefaultModel); err == nil {
			return tc
		}
		return nil
	}
	if tc, err := tiktoken.NewTokenCounter(openai.DefaultModel); err == nil {
		return tc
	}
	return nil
}

// NewExporter picks the exporter from the output extension: a workbook
// for .xlsx, a report for .pdf, and a Markdown directory otherwise.
func NewExporter(path string) webtab.Exporter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return xlsx.NewExporter(path)
	case ".pdf":
		return pdf.NewExporter(path)
	default:
		return fs.NewExporter(filepath.Dir(path), filepath.Base(path))
	}
}

func defaultDBPath() string {
	if path := os.Getenv("WEBTAB_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "webtab.db"
	}
	dir := filepath.Join(home, ".webtab")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "webtab.db")
}
