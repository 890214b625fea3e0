package webtab

import (
	"net/url"
	"strings"
)

// Request pairs one target URL with one free-text extraction instruction.
type Request struct {
	URL         string `json:"url" yaml:"url"`
	Instruction string `json:"instruction" yaml:"instruction"`
}

// Validate returns an error if the request contains invalid fields.
func (r Request) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "request URL required")
	}
	if r.Instruction == "" {
		return Errorf(EINVALID, "request instruction required")
	}
	if !strings.HasPrefix(r.URL, "http://") && !strings.HasPrefix(r.URL, "https://") {
		return Errorf(EINVALID, "invalid URL %q: must start with http:// or https://", r.URL)
	}
	u, err := url.Parse(r.URL)
	if err != nil || u.Host == "" {
		return Errorf(EINVALID, "invalid URL %q", r.URL)
	}
	return nil
}

// ResultStatus classifies the outcome of one request.
type ResultStatus string

// Result statuses.
const (
	StatusOK     ResultStatus = "ok"
	StatusEmpty  ResultStatus = "empty"
	StatusFailed ResultStatus = "failed"
)

// Result is the outcome of processing one Request.
type Result struct {
	Request Request

	// Sheet is the export identifier derived from the request URL.
	Sheet string

	// Table is nil when the request failed or the model returned no table.
	Table *Table

	// Err is the per-request failure, typically a *FetchError or
	// *ExtractionError.
	Err error
}

// Status reports whether the result carries a table, no data, or an error.
func (r *Result) Status() ResultStatus {
	switch {
	case r.Err != nil:
		return StatusFailed
	case r.Table == nil:
		return StatusEmpty
	default:
		return StatusOK
	}
}
