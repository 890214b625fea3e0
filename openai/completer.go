// Package openai implements webtab.Completer with the OpenAI chat
// completions API or any server that speaks it (e.g. Ollama, vLLM).
package openai

import (
	"context"

	"github.com/fwojciec/webtab"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the OpenAI model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// systemMessage frames every extraction call.
const systemMessage = "You extract structured data from web page text and answer only with Markdown tables."

// ChatClient is the subset of *goopenai.Client used by Completer.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Ensure Completer implements webtab.Completer at compile time.
var _ webtab.Completer = (*Completer)(nil)

// Completer implements webtab.Completer using OpenAI chat completions.
type Completer struct {
	client ChatClient
	model  string
}

// NewClient creates an API client. An empty baseURL selects the OpenAI API.
func NewClient(apiKey, baseURL string) *goopenai.Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return goopenai.NewClientWithConfig(cfg)
}

// NewCompleter creates a new Completer. An empty model selects DefaultModel.
func NewCompleter(client ChatClient, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Model returns the chat model name.
func (c *Completer) Model() string {
	return c.model
}

// Complete sends the prompt as a user message and returns the first choice.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", webtab.Errorf(webtab.EINVALID, "prompt required")
	}

	resp, err := c.client.CreateChatCompletion(ctx, BuildRequest(c.model, prompt))
	if err != nil {
		return "", &webtab.CompletionError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &webtab.CompletionError{Err: webtab.Errorf(webtab.EINTERNAL, "model %s returned no choices", c.model)}
	}

	return resp.Choices[0].Message.Content, nil
}

// BuildRequest returns the chat completion request for one extraction call.
func BuildRequest(model, prompt string) goopenai.ChatCompletionRequest {
	return goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
	}
}
