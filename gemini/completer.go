// Package gemini implements webtab.Completer with Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/webtab"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements webtab.Completer at compile time.
var _ webtab.Completer = (*Completer)(nil)

// Completer implements webtab.Completer using Google Gemini.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Completer. An empty model selects DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Model returns the Gemini model name.
func (c *Completer) Model() string {
	return c.model
}

// Complete sends the prompt to Gemini and returns the response text.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", webtab.Errorf(webtab.EINVALID, "prompt required")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", &webtab.CompletionError{Err: err}
	}
	if result == nil {
		return "", &webtab.CompletionError{Err: webtab.Errorf(webtab.EINTERNAL, "gemini returned nil result")}
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for extraction calls.
// Temperature is zero so repeated runs over the same page agree.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You extract structured data from web page text and answer only with Markdown tables.",
			}},
		},
		Temperature: &temp,
	}
}
