package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/webtab"
	"gopkg.in/yaml.v3"
)

// BatchFile is the YAML document read by the batch command:
//
//	defaults:
//	  provider: gemini
//	  chunk_size: 4000
//	  output: prices.xlsx
//	requests:
//	  - url: https://shop.example.com/widgets
//	    instruction: product names and prices
type BatchFile struct {
	Defaults Options          `yaml:"defaults"`
	Requests []webtab.Request `yaml:"requests"`
}

// LoadBatch reads and validates a batch file.
func LoadBatch(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBatch(data)
}

// ParseBatch decodes a batch document. Every request must be valid.
func ParseBatch(data []byte) (*BatchFile, error) {
	var f BatchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, webtab.Errorf(webtab.EINVALID, "invalid batch file: %v", err)
	}
	if len(f.Requests) == 0 {
		return nil, webtab.Errorf(webtab.EINVALID, "batch file lists no requests")
	}
	for i, req := range f.Requests {
		if err := req.Validate(); err != nil {
			return nil, webtab.Errorf(webtab.EINVALID, "request %d: %s", i+1, webtab.ErrorMessage(err))
		}
	}
	return &f, nil
}

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	batch, err := LoadBatch(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return err
	}

	opts := c.Options.Merge(batch.Defaults).WithDefaults()
	results, err := runExtraction(deps, opts, batch.Requests)
	if err != nil {
		return err
	}

	ok, empty, failed := countStatuses(results)
	fmt.Fprintf(deps.Stdout, "Wrote %s (%d ok, %d empty, %d failed)\n", opts.Output, ok, empty, failed)
	return nil
}
