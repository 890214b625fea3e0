package main_test

import (
	"testing"

	"github.com/fwojciec/webtab"
	main "github.com/fwojciec/webtab/cmd/webtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the table and exports it", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, map[string]string{"https://shop.example.com": shopPage}, shopTable)

		cmd := &main.ScrapeCmd{URL: "https://shop.example.com", Instruction: "prices"}
		err := cmd.Run(env.deps)

		require.NoError(t, err)
		out := env.stdout.String()
		assert.Contains(t, out, "| Name | Price |")
		assert.Contains(t, out, "| Widget | 9.99 |")
		assert.Contains(t, out, "Wrote results.xlsx")
		assert.Equal(t, main.DefaultOutput, env.exportTo)
		require.Len(t, env.exported, 1)
		assert.Equal(t, "Result_shop", env.exported[0].Sheet)
		require.Len(t, env.recorded, 1)
		assert.Equal(t, "run-1", env.recorded[0].ID)
		assert.Equal(t, []string{"https://shop.example.com"}, env.recorded[0].URLs)
	})

	t.Run("reports when nothing matched", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, map[string]string{"https://a.example": shopPage}, "")

		cmd := &main.ScrapeCmd{URL: "https://a.example", Instruction: "emails"}
		err := cmd.Run(env.deps)

		require.NoError(t, err)
		assert.Contains(t, env.stdout.String(), "No matching data found.")
		assert.Equal(t, webtab.StatusEmpty, env.exported[0].Status())
	})

	t.Run("returns the fetch failure", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil, shopTable)

		cmd := &main.ScrapeCmd{URL: "https://down.example", Instruction: "prices"}
		err := cmd.Run(env.deps)

		var fetchErr *webtab.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Contains(t, env.stderr.String(), "skip https://down.example")
	})

	t.Run("rejects an invalid URL before wiring a pipeline", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil, shopTable)
		env.deps.NewPipeline = nil

		cmd := &main.ScrapeCmd{URL: "shop.example.com", Instruction: "prices"}
		err := cmd.Run(env.deps)

		assert.Equal(t, webtab.EINVALID, webtab.ErrorCode(err))
		assert.Contains(t, env.stderr.String(), "must start with http:// or https://")
	})

	t.Run("passes flags through to the pipeline", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, map[string]string{"https://a.example": shopPage}, shopTable)

		cmd := &main.ScrapeCmd{
			URL:         "https://a.example",
			Instruction: "prices",
			Options:     main.Options{Mismatch: "pad", Concurrency: 4, Output: "out.xlsx"},
		}
		err := cmd.Run(env.deps)

		require.NoError(t, err)
		assert.Equal(t, "pad", env.opts.Mismatch)
		assert.Equal(t, 4, env.opts.Concurrency)
		assert.Equal(t, "out.xlsx", env.exportTo)
	})
}
