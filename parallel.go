package lojgloss

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the goroutines used by TranslateAll.
const DefaultConcurrency = 8

// TranslateAll translates independent texts concurrently, loading the gloss
// table once for the whole batch. Results come back in input order, each
// with its own RunID. The batch fails as a whole when ctx ends. Configured
// caches and providers are shared by the workers and must be safe for
// concurrent use.
func (t *Translator) TranslateAll(ctx context.Context, texts []string, dir Direction) ([]*Result, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	logger := t.logger.With("direction", dir.String(), "batch", len(texts))
	table := t.loadTable(logger)

	out := make([]*Result, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for i, text := range texts {
		g.Go(func() error {
			res, err := t.translate(gctx, text, dir, table, logger)
			if err != nil {
				return err
			}
			res.RunID = uuid.NewString()
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("batch translation finished")
	return out, nil
}
