package webtab_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/webtab"
	"github.com/stretchr/testify/assert"
)

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     webtab.Request
		wantErr string
	}{
		{"valid https", webtab.Request{URL: "https://example.com", Instruction: "prices"}, ""},
		{"valid http", webtab.Request{URL: "http://example.com/list", Instruction: "prices"}, ""},
		{"missing URL", webtab.Request{Instruction: "prices"}, "request URL required"},
		{"missing instruction", webtab.Request{URL: "https://example.com"}, "request instruction required"},
		{"bad scheme", webtab.Request{URL: "ftp://example.com", Instruction: "x"}, "must start with http:// or https://"},
		{"no scheme", webtab.Request{URL: "example.com", Instruction: "x"}, "must start with http:// or https://"},
		{"no host", webtab.Request{URL: "https://", Instruction: "x"}, "invalid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, webtab.EINVALID, webtab.ErrorCode(err))
			assert.Contains(t, webtab.ErrorMessage(err), tt.wantErr)
		})
	}
}

func TestResult_Status(t *testing.T) {
	t.Parallel()

	assert.Equal(t, webtab.StatusOK, (&webtab.Result{Table: &webtab.Table{}}).Status())
	assert.Equal(t, webtab.StatusEmpty, (&webtab.Result{}).Status())
	assert.Equal(t, webtab.StatusFailed, (&webtab.Result{Err: errors.New("x")}).Status())
}

func TestNewRun(t *testing.T) {
	t.Parallel()

	results := []*webtab.Result{
		{Request: webtab.Request{URL: "https://a.com"}, Table: &webtab.Table{}},
		{Request: webtab.Request{URL: "https://b.com"}, Err: errors.New("fetch failed")},
		{Request: webtab.Request{URL: "https://c.com"}},
	}

	run := webtab.NewRun("parsed_results.xlsx", results)

	assert.Equal(t, "parsed_results.xlsx", run.File)
	assert.Equal(t, []string{"https://a.com", "https://b.com", "https://c.com"}, run.URLs)
	assert.Equal(t, 1, run.OK)
	assert.Equal(t, 1, run.Empty)
	assert.Equal(t, 1, run.Failed)
	assert.NoError(t, run.Validate())
}

func TestRun_Validate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, webtab.EINVALID, webtab.ErrorCode((&webtab.Run{URLs: []string{"u"}}).Validate()))
	assert.Equal(t, webtab.EINVALID, webtab.ErrorCode((&webtab.Run{File: "f"}).Validate()))
}

func TestHistory_Add(t *testing.T) {
	t.Parallel()

	var h webtab.History
	h.Add(&webtab.Run{File: "a.xlsx"})
	h.Add(&webtab.Run{File: "b.xlsx"})

	assert.Len(t, h.Runs, 2)
	assert.Equal(t, "b.xlsx", h.Runs[1].File)
}
