//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/webtab/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Browser(t *testing.T) {
	t.Parallel()

	t.Run("replaces the browser after max pages", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(2))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		require.NotNil(t, first)

		manager.IncrementPageCount()
		manager.IncrementPageCount()

		second := manager.Browser()
		require.NotNil(t, second)
		assert.NotSame(t, first, second)
		assert.Zero(t, manager.PageCount())
	})

	t.Run("keeps the browser below max pages", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		manager.IncrementPageCount()

		assert.Same(t, first, manager.Browser())
		assert.Equal(t, int64(1), manager.PageCount())
	})

	t.Run("never recycles when disabled", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(0))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		for range 10 {
			manager.IncrementPageCount()
		}

		assert.Same(t, first, manager.Browser())
	})
}

func TestBrowserManager_Close_Idempotent(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
	assert.Zero(t, manager.LauncherPID())
}
