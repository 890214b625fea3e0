package mock

import "github.com/fwojciec/webtab"

var _ webtab.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of webtab.Normalizer.
type Normalizer struct {
	NormalizeFn func(markup string) ([]string, error)
}

func (n *Normalizer) Normalize(markup string) ([]string, error) {
	return n.NormalizeFn(markup)
}
