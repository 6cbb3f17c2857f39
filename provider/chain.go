package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SynonymChain queries each provider in order and concatenates their
// synonyms, dropping repeats. A failing provider does not stop the chain;
// its error is returned alongside whatever the others produced.
type SynonymChain []SynonymProvider

// Synonyms implements SynonymProvider.
func (c SynonymChain) Synonyms(ctx context.Context, lemma string) ([]string, error) {
	var out []string
	var errs []error
	seen := make(map[string]bool)

	for _, p := range c {
		synonyms, err := p.Synonyms(ctx, lemma)
		if err != nil {
			errs = append(errs, err)
		}
		for _, s := range synonyms {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out, errors.Join(errs...)
}

// Name joins the names of the chained providers in query order.
func (c SynonymChain) Name() string {
	names := make([]string, len(c))
	for i, p := range c {
		if n, ok := p.(interface{ Name() string }); ok {
			names[i] = n.Name()
		} else {
			names[i] = fmt.Sprintf("%T", p)
		}
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

var _ SynonymProvider = SynonymChain(nil)
