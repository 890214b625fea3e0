package webtab

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Completer sends a prompt to a language model and returns its text response.
type Completer interface {
	// Complete returns the model's response to prompt. The response may be
	// empty and may contain text other than a table.
	// Failures are reported as *CompletionError.
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the model identifier used for completions.
	Model() string
}

// CompletionCache memoizes completions across runs.
type CompletionCache interface {
	// GetCompletion returns the cached response for key, if any.
	GetCompletion(ctx context.Context, key string) (response string, ok bool, err error)

	// PutCompletion stores the response for key.
	PutCompletion(ctx context.Context, key, response string) error
}

// CacheKey derives a completion cache key from the model, the chunk text and
// the extraction instruction.
func CacheKey(model, chunk, instruction string) string {
	d := xxhash.New()
	_, _ = d.WriteString(model)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(instruction)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(chunk)
	return fmt.Sprintf("%016x", d.Sum64())
}
