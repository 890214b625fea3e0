// Package fs writes extraction results as Markdown files.
package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/webtab"
)

// MarkerFile identifies a directory written by Exporter. Only such
// directories, or empty ones, are replaced.
const MarkerFile = ".webtab-export"

// Ensure Exporter implements webtab.Exporter at compile time.
var _ webtab.Exporter = (*Exporter)(nil)

// Exporter writes one Markdown file per table into a directory, replacing
// the directory as a whole. Files are written to a temporary directory
// next to baseDir/name and moved into place once every file is on disk.
// Existing files and directories that Exporter did not create are never
// replaced.
type Exporter struct {
	baseDir string
	name    string

	// Now stamps the frontmatter. Defaults to time.Now.
	Now func() time.Time
}

// NewExporter creates a new Exporter for baseDir/name.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{baseDir: baseDir, name: name, Now: time.Now}
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Export writes <sheet>.md for every result with rows, or Default.md
// holding a note when there is none.
func (e *Exporter) Export(ctx context.Context, results []*webtab.Result) (err error) {
	if err := e.checkTarget(); err != nil {
		return err
	}
	if err := os.MkdirAll(e.baseDir, 0755); err != nil {
		return err
	}
	tmp, err := os.MkdirTemp(e.baseDir, "."+e.name+".tmp-")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(tmp)
		}
	}()

	if err := os.WriteFile(filepath.Join(tmp, MarkerFile), nil, 0644); err != nil {
		return err
	}

	written := 0
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Status() != webtab.StatusOK || len(r.Table.Rows) == 0 {
			continue
		}
		if err := writeFile(tmp, r.Sheet, FormatResult(r, e.Now())); err != nil {
			return err
		}
		written++
	}

	if written == 0 {
		if err := writeFile(tmp, "Default", "No valid data was processed.\n"); err != nil {
			return err
		}
	}

	return e.commit(tmp)
}

// checkTarget rejects output names that resolve outside a plain child of
// baseDir and existing paths Exporter does not own.
func (e *Exporter) checkTarget() error {
	if e.name == "" || e.name == "." || e.name == ".." || e.name != filepath.Base(e.name) {
		return webtab.Errorf(webtab.EINVALID, "invalid output directory %q", e.name)
	}

	dir := e.finalDir()
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	if !info.IsDir() {
		return webtab.Errorf(webtab.ECONFLICT, "output %s exists and is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	if _, err := os.Stat(filepath.Join(dir, MarkerFile)); err != nil {
		return webtab.Errorf(webtab.ECONFLICT, "output directory %s holds files not written by webtab", dir)
	}
	return nil
}

func writeFile(dir, sheet, content string) error {
	if sheet == "" || sheet != filepath.Base(sheet) || strings.HasPrefix(sheet, ".") {
		return webtab.Errorf(webtab.EINVALID, "invalid file name %q", sheet)
	}
	return os.WriteFile(filepath.Join(dir, sheet+".md"), []byte(content), 0644)
}

func (e *Exporter) commit(tmp string) error {
	if err := e.checkTarget(); err != nil {
		return err
	}
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(tmp, e.finalDir())
}

// FormatResult formats a result's table with YAML frontmatter.
func FormatResult(r *webtab.Result, extracted time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(r.Request.URL)
	b.WriteString("\ninstruction: ")
	b.WriteString(r.Request.Instruction)
	b.WriteString("\nextracted: ")
	b.WriteString(extracted.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(r.Table.String())
	return b.String()
}
