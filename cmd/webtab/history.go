package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/webtab"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, webtab.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webtab.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs yet. Use 'webtab scrape' or 'webtab batch' to create one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d ok, %d empty, %d failed\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.File, r.OK, r.Empty, r.Failed)
		if c.URLs {
			fmt.Fprintf(deps.Stdout, "    %s\n", strings.Join(truncateAll(r.URLs, 72), "\n    "))
		}
	}

	return nil
}

func truncateAll(urls []string, maxLen int) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = TruncateURL(u, maxLen)
	}
	return out
}
