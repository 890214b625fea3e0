package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/webtab"
	"github.com/fwojciec/webtab/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Normalizer implements webtab.Normalizer at compile time.
var _ webtab.Normalizer = (*goquery.Normalizer)(nil)

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("excludes script content", func(t *testing.T) {
		t.Parallel()

		lines, err := goquery.NewNormalizer().Normalize(`<body><script>ignored</script><p>Visible</p></body>`)

		require.NoError(t, err)
		assert.Equal(t, []string{"Visible"}, lines)
	})

	t.Run("excludes style content and head text", func(t *testing.T) {
		t.Parallel()

		markup := `<!DOCTYPE html>
<html>
<head><title>Shop</title><style>body { color: red }</style></head>
<body>
  <style>.price { font-weight: bold }</style>
  <h1>Products</h1>
  <div class="item">
    <span>Widget</span>
    <span class="price">9.99</span>
  </div>
</body>
</html>`

		lines, err := goquery.NewNormalizer().Normalize(markup)

		require.NoError(t, err)
		assert.Equal(t, []string{"Products", "Widget", "9.99"}, lines)
	})

	t.Run("breaks lines at element boundaries", func(t *testing.T) {
		t.Parallel()

		lines, err := goquery.NewNormalizer().Normalize(`<body><p>Price: <b>9.99</b> EUR</p></body>`)

		require.NoError(t, err)
		assert.Equal(t, []string{"Price:", "9.99", "EUR"}, lines)
	})

	t.Run("keeps repeated lines in document order", func(t *testing.T) {
		t.Parallel()

		lines, err := goquery.NewNormalizer().Normalize(`<body><li>In stock</li><li>Gadget</li><li>In stock</li></body>`)

		require.NoError(t, err)
		assert.Equal(t, []string{"In stock", "Gadget", "In stock"}, lines)
	})

	t.Run("splits multi-line text nodes", func(t *testing.T) {
		t.Parallel()

		lines, err := goquery.NewNormalizer().Normalize("<body><pre>  line one\n\n   line two  </pre></body>")

		require.NoError(t, err)
		assert.Equal(t, []string{"line one", "line two"}, lines)
	})

	t.Run("decodes entities and skips comments", func(t *testing.T) {
		t.Parallel()

		lines, err := goquery.NewNormalizer().Normalize(`<body><!-- hidden --><p>Fish &amp; Chips</p></body>`)

		require.NoError(t, err)
		assert.Equal(t, []string{"Fish & Chips"}, lines)
	})

	t.Run("returns no lines without a body", func(t *testing.T) {
		t.Parallel()

		lines, err := goquery.NewNormalizer().Normalize(`<html><head><title>x</title></head></html>`)

		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("returns no lines for empty markup", func(t *testing.T) {
		t.Parallel()

		lines, err := goquery.NewNormalizer().Normalize("")

		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("tolerates malformed markup", func(t *testing.T) {
		t.Parallel()

		lines, err := goquery.NewNormalizer().Normalize(`<body><div><p>Unclosed <span>tags</div><p>after</body`)

		require.NoError(t, err)
		assert.Equal(t, []string{"Unclosed", "tags", "after"}, lines)
	})

	t.Run("output joined and cleaned again is unchanged", func(t *testing.T) {
		t.Parallel()

		lines, err := goquery.NewNormalizer().Normalize(`<body><p> a </p><p>b</p></body>`)
		require.NoError(t, err)

		assert.Equal(t, lines, webtab.CleanLines(webtab.JoinLines(lines)))
	})

	t.Run("handles large pages", func(t *testing.T) {
		t.Parallel()

		markup := "<body>" + strings.Repeat("<p>row</p>", 5000) + "</body>"

		lines, err := goquery.NewNormalizer().Normalize(markup)

		require.NoError(t, err)
		assert.Len(t, lines, 5000)
	})
}
