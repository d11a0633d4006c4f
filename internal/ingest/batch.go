package ingest

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// BatchOptions configures ResolveBatch.
type BatchOptions struct {
	// OnProgress is called after each message with the number resolved so far.
	// Calls are serialised and done increases by one each time.
	OnProgress func(done, total int)
	Workers    int
}

// ResolveBatch resolves msgs concurrently. Results are in input order.
// If ctx is canceled the partial results are discarded and ctx.Err() is returned.
func (r *Resolver) ResolveBatch(ctx context.Context, msgs []Message, opts BatchOptions) ([]Outcome, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	out := make([]Outcome, len(msgs))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, msg := range msgs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = r.Resolve(gctx, msg)

			mu.Lock()
			done++
			if opts.OnProgress != nil {
				opts.OnProgress(done, len(msgs))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Transactions returns the successfully parsed transactions in order, optionally dropping spam.
func Transactions(outcomes []Outcome, includeSpam bool) []model.ParsedTransaction {
	txs := make([]model.ParsedTransaction, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.OK {
			continue
		}
		if o.Transaction.IsSpam && !includeSpam {
			continue
		}
		txs = append(txs, o.Transaction)
	}
	return txs
}
