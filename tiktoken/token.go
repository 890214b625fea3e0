// Package tiktoken counts tokens for OpenAI models locally with
// pkoukk/tiktoken-go. The BPE ranks are downloaded on first use and cached
// under TIKTOKEN_CACHE_DIR.
package tiktoken

import (
	"context"
	"sync"

	"github.com/fwojciec/webtab"
	"github.com/pkoukk/tiktoken-go"
)

// FallbackEncoding is used for models tiktoken does not know, such as
// those served by OpenAI-compatible local servers.
const FallbackEncoding = "cl100k_base"

var _ webtab.TokenCounter = (*TokenCounter)(nil)

var (
	encodings   = make(map[string]*tiktoken.Tiktoken)
	encodingsMu sync.Mutex
)

// TokenCounter counts tokens with the BPE encoding of one model.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCounter returns a TokenCounter for model. Encodings are loaded
// once per model and shared.
func NewTokenCounter(model string) (*TokenCounter, error) {
	enc, err := encoding(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{enc: enc}, nil
}

// CountTokens counts the number of tokens in text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	return len(tc.enc.Encode(text, nil, nil)), nil
}

func encoding(model string) (*tiktoken.Tiktoken, error) {
	encodingsMu.Lock()
	defer encodingsMu.Unlock()

	if enc, ok := encodings[model]; ok {
		return enc, nil
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(FallbackEncoding)
		if err != nil {
			return nil, webtab.Errorf(webtab.EINTERNAL, "failed to load tokenizer for %q: %v", model, err)
		}
	}
	encodings[model] = enc
	return enc, nil
}
