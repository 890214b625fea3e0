package webtab_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/webtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChunks(t *testing.T) {
	t.Parallel()

	t.Run("splits into fixed-size pieces with a shorter tail", func(t *testing.T) {
		t.Parallel()

		chunks, err := webtab.SplitChunks("abcdefg", 3)

		require.NoError(t, err)
		assert.Equal(t, []string{"abc", "def", "g"}, chunks)
	})

	t.Run("returns a single chunk when text fits", func(t *testing.T) {
		t.Parallel()

		chunks, err := webtab.SplitChunks("line one\nline two", webtab.DefaultChunkSize)

		require.NoError(t, err)
		assert.Equal(t, []string{"line one\nline two"}, chunks)
	})

	t.Run("splits exactly on the boundary", func(t *testing.T) {
		t.Parallel()

		chunks, err := webtab.SplitChunks("abcdef", 3)

		require.NoError(t, err)
		assert.Equal(t, []string{"abc", "def"}, chunks)
	})

	t.Run("returns zero chunks for empty text", func(t *testing.T) {
		t.Parallel()

		chunks, err := webtab.SplitChunks("", 10)

		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		t.Parallel()

		for _, size := range []int{0, -1} {
			_, err := webtab.SplitChunks("text", size)

			require.Error(t, err)
			assert.Equal(t, webtab.ECONFIG, webtab.ErrorCode(err))
		}
	})

	t.Run("counts characters, not bytes", func(t *testing.T) {
		t.Parallel()

		chunks, err := webtab.SplitChunks("żółw€", 2)

		require.NoError(t, err)
		assert.Equal(t, []string{"żó", "łw", "€"}, chunks)
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c))
		}
	})
}

func TestSplitChunks_Reconstruction(t *testing.T) {
	t.Parallel()

	texts := []string{
		"a",
		"Widget\n9.99\nGadget\n19.99",
		strings.Repeat("product line\n", 1000),
		"München\nZürich\n東京\n",
	}
	sizes := []int{1, 2, 7, 100, webtab.DefaultChunkSize}

	for _, text := range texts {
		for _, size := range sizes {
			chunks, err := webtab.SplitChunks(text, size)
			require.NoError(t, err)

			assert.Equal(t, text, strings.Join(chunks, ""))

			n := utf8.RuneCountInString(text)
			assert.Len(t, chunks, (n+size-1)/size)
			for i, c := range chunks {
				if i < len(chunks)-1 {
					assert.Equal(t, size, utf8.RuneCountInString(c))
				} else {
					assert.LessOrEqual(t, utf8.RuneCountInString(c), size)
				}
			}
		}
	}
}
