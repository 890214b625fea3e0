package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/webtab"
	main "github.com/fwojciec/webtab/cmd/webtab"
	"github.com/fwojciec/webtab/extract"
	"github.com/fwojciec/webtab/goquery"
	"github.com/fwojciec/webtab/mock"
	"github.com/fwojciec/webtab/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopPage = `<html><body><h1>Widgets</h1><p>Widget 9.99</p><p>Gadget 19.50</p></body></html>`

const shopTable = "| Name | Price |\n| --- | --- |\n| Widget | 9.99 |\n| Gadget | 19.50 |"

// testEnv records what commands hand to their collaborators.
type testEnv struct {
	deps   *main.Dependencies
	stdout *bytes.Buffer
	stderr *bytes.Buffer

	opts      main.Options
	withModel bool
	exported  []*webtab.Result
	exportTo  string
	recorded  []*webtab.Run
}

// newTestEnv wires dependencies around a mock fetcher serving pages and a
// completer answering every chunk with response.
func newTestEnv(t *testing.T, pages map[string]string, response string) *testEnv {
	t.Helper()

	env := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			page, ok := pages[url]
			if !ok {
				return "", errors.New("connection refused")
			}
			return page, nil
		},
		CloseFn: func() error { return nil },
	}
	completer := &mock.Completer{
		CompleteFn: func(context.Context, string) (string, error) { return response, nil },
	}

	env.deps = &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  env.stdout,
		Stderr:  env.stderr,
		History: &webtab.History{},
		Runs: &mock.RunService{
			CreateRunFn: func(_ context.Context, run *webtab.Run) error {
				run.ID = "run-1"
				env.recorded = append(env.recorded, run)
				return nil
			},
		},
		NewPipeline: func(opts main.Options, withModel bool) (*scrape.Pipeline, error) {
			env.opts = opts
			env.withModel = withModel
			p := &scrape.Pipeline{
				Fetcher:    fetcher,
				Normalizer: goquery.NewNormalizer(),
				ChunkSize:  opts.ChunkSize,
				Mismatch:   webtab.MismatchPolicy(opts.Mismatch),
				Naming:     webtab.SheetNaming(opts.Naming),
			}
			if withModel {
				p.Extractor = &extract.Extractor{Completer: completer, Concurrency: opts.Concurrency}
			}
			return p, nil
		},
		NewExporter: func(path string) webtab.Exporter {
			env.exportTo = path
			return &mock.Exporter{
				ExportFn: func(_ context.Context, results []*webtab.Result) error {
					env.exported = results
					return nil
				},
			}
		},
	}
	return env
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help lists all commands", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		for _, cmd := range []string{"scrape", "batch", "preview", "history"} {
			assert.Contains(t, stdout.String(), cmd)
		}
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("fails without a command", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("history runs against a fresh database", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"history"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No runs yet")
	})

	t.Run("reports an unusable database path", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = "/nonexistent/dir/webtab.db"
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"history"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "WEBTAB_DB")
	})
}

func TestMain_NewPipeline(t *testing.T) {
	t.Parallel()

	t.Run("builds a static pipeline without a model", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		t.Cleanup(func() { m.Close() })
		opts := main.Options{FetchOptions: main.FetchOptions{Static: true}}.WithDefaults()

		p, err := m.NewPipeline(context.Background(), opts, false, &bytes.Buffer{})

		require.NoError(t, err)
		assert.NotNil(t, p.Fetcher)
		assert.NotNil(t, p.Normalizer)
		assert.Nil(t, p.Extractor)
		assert.Equal(t, webtab.DefaultChunkSize, p.ChunkSize)
	})

	t.Run("builds an OpenAI-compatible pipeline from a base URL", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		t.Cleanup(func() { m.Close() })
		opts := main.Options{
			FetchOptions: main.FetchOptions{Static: true, Cleaner: "markdown"},
			BaseURL:      "http://localhost:11434/v1",
			Model:        "llama3",
			Concurrency:  3,
		}.WithDefaults()

		p, err := m.NewPipeline(context.Background(), opts, true, &bytes.Buffer{})

		require.NoError(t, err)
		require.NotNil(t, p.Extractor)
		assert.Equal(t, "llama3", p.Extractor.Completer.Model())
		assert.Equal(t, 3, p.Extractor.Concurrency)
		assert.Nil(t, p.Extractor.Cache, "no database, no cache")
		assert.Same(t, m.Logger, p.Extractor.Logger)
	})

	t.Run("requires an API key", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		t.Cleanup(func() { m.Close() })
		stderr := &bytes.Buffer{}
		opts := main.Options{FetchOptions: main.FetchOptions{Static: true}}.WithDefaults()

		_, err := m.NewPipeline(context.Background(), opts, true, stderr)

		assert.Equal(t, webtab.ECONFIG, webtab.ErrorCode(err))
		assert.Contains(t, stderr.String(), "OPENAI_API_KEY")
	})

	t.Run("requires a Gemini key for the gemini provider", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		t.Cleanup(func() { m.Close() })
		stderr := &bytes.Buffer{}
		opts := main.Options{FetchOptions: main.FetchOptions{Static: true}, Provider: "gemini", OpenAIKey: "sk-test"}.WithDefaults()

		_, err := m.NewPipeline(context.Background(), opts, true, stderr)

		assert.Equal(t, webtab.ECONFIG, webtab.ErrorCode(err))
		assert.Contains(t, stderr.String(), "GEMINI_API_KEY")
	})
}

func TestNewExporter(t *testing.T) {
	t.Parallel()

	t.Run("writes a workbook for xlsx paths", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.xlsx")

		require.NoError(t, main.NewExporter(path).Export(context.Background(), nil))

		assert.FileExists(t, path)
	})

	t.Run("writes a report for pdf paths", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.pdf")

		require.NoError(t, main.NewExporter(path).Export(context.Background(), nil))

		assert.FileExists(t, path)
		assert.NoDirExists(t, path)
	})

	t.Run("writes Markdown files for other paths", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "tables")

		require.NoError(t, main.NewExporter(dir).Export(context.Background(), nil))

		assert.FileExists(t, filepath.Join(dir, "Default.md"))
	})

	t.Run("keeps a directory of unrelated files", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "project")
		require.NoError(t, os.Mkdir(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "thesis.docx"), []byte("draft"), 0o644))
		results := []*webtab.Result{{
			Sheet: "Result_a",
			Table: &webtab.Table{Header: []string{"A"}, Rows: [][]string{{"1"}}},
		}}

		err := main.NewExporter(dir).Export(context.Background(), results)

		assert.Equal(t, webtab.ECONFLICT, webtab.ErrorCode(err))
		assert.FileExists(t, filepath.Join(dir, "thesis.docx"))
	})

	t.Run("rejects the current directory", func(t *testing.T) {
		t.Parallel()

		err := main.NewExporter(".").Export(context.Background(), nil)

		assert.Equal(t, webtab.EINVALID, webtab.ErrorCode(err))
	})
}
