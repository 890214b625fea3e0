// Package htmltomarkdown provides a Markdown-flavoured page normalizer built
// on JohannesKaufmann/html-to-markdown.
package htmltomarkdown

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webtab"
	wgoquery "github.com/fwojciec/webtab/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Normalizer implements webtab.Normalizer at compile time.
var _ webtab.Normalizer = (*Normalizer)(nil)

// Normalizer converts the page body to Markdown instead of plain text, so
// headings, lists and HTML tables keep their structure when sent to the
// model. The body is sanitized with a bluemonday UGC policy first, which
// keeps tables, lists and links but drops scripts, frames and inline
// handlers. Lines are trimmed and empty lines dropped like the plain-text
// normalizer.
type Normalizer struct {
	conv   *converter.Converter
	policy *bluemonday.Policy
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Normalizer{conv: conv, policy: bluemonday.UGCPolicy()}
}

// Normalize isolates the body, sanitizes it and returns
// the Markdown rendering as trimmed, non-empty lines.
func (n *Normalizer) Normalize(markup string) ([]string, error) {
	body, err := wgoquery.Body(markup)
	if err != nil || body == nil {
		return nil, err
	}

	html, err := goquery.OuterHtml(body)
	if err != nil {
		return nil, err
	}

	md, err := n.conv.ConvertString(n.policy.Sanitize(html))
	if err != nil {
		return nil, webtab.Errorf(webtab.EINVALID, "failed to convert HTML: %v", err)
	}
	return webtab.CleanLines(md), nil
}
