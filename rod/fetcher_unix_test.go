//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/webtab/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Close_KillsBrowserProcess(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	pid := fetcher.LauncherPID()
	require.NotZero(t, pid)
	require.NoError(t, syscall.Kill(pid, 0), "browser should be running")

	require.NoError(t, fetcher.Close())
	time.Sleep(100 * time.Millisecond)

	assert.Error(t, syscall.Kill(pid, 0), "browser should be gone after Close")
}
