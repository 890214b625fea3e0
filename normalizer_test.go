package webtab_test

import (
	"testing"

	"github.com/fwojciec/webtab"
	"github.com/stretchr/testify/assert"
)

func TestCleanLines(t *testing.T) {
	t.Parallel()

	t.Run("trims lines and drops empty ones", func(t *testing.T) {
		t.Parallel()

		lines := webtab.CleanLines("  Widget \n\n\t\n 9.99\nWidget\n")

		assert.Equal(t, []string{"Widget", "9.99", "Widget"}, lines)
	})

	t.Run("returns nothing for blank text", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, webtab.CleanLines(" \n \n"))
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		once := webtab.CleanLines("  a \n\n b\n  c  ")
		twice := webtab.CleanLines(webtab.JoinLines(once))

		assert.Equal(t, once, twice)
	})
}

func TestJoinLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb", webtab.JoinLines([]string{"a", "b"}))
	assert.Empty(t, webtab.JoinLines(nil))
}
