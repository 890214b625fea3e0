// Package goquery provides HTML processing built on PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webtab"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Normalizer implements webtab.Normalizer at compile time.
var _ webtab.Normalizer = (*Normalizer)(nil)

// Normalizer extracts the visible text of a page body, one text node per line.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize isolates the body, removes script and style elements and
// returns the remaining text as trimmed, non-empty lines.
func (n *Normalizer) Normalize(markup string) ([]string, error) {
	body, err := Body(markup)
	if err != nil || body == nil {
		return nil, err
	}
	return webtab.CleanLines(Text(body)), nil
}

// Body parses markup and returns its body element with script and style
// elements removed. It returns nil when the markup has no body tag; the
// HTML5 parser would otherwise synthesize an empty one.
func Body(markup string) (*goquery.Selection, error) {
	if !hasBodyTag(markup) {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, webtab.Errorf(webtab.EINVALID, "failed to parse HTML: %v", err)
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil, nil
	}
	body.Find("script, style").Remove()
	return body, nil
}

// Text returns the text nodes under sel in document order, each followed by
// a line break.
func Text(sel *goquery.Selection) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte('\n')
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return sb.String()
}

// hasBodyTag reports whether markup contains a body start tag.
func hasBodyTag(markup string) bool {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Body {
				return true
			}
		}
	}
}
