package timeslice

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/littel/internal/dataset"
)

// Dates returns from, from+step, ... up to and including to. A non-positive
// step or an empty range yields nil.
func Dates(from, to, step int) []int {
	if step <= 0 || to < from {
		return nil
	}
	out := make([]int, 0, (to-from)/step+1)
	for d := from; d <= to; d += step {
		out = append(out, d)
	}
	return out
}

// Sweep computes one slice per date concurrently, with at most limit slices
// in flight (limit <= 0 means unbounded). Results are in the order of dates.
func Sweep(ctx context.Context, ds *dataset.Dataset, feat string, dates []int, limit int, opts ...Option) ([]*Slice, error) {
	out := make([]*Slice, len(dates))

	g, gCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, date := range dates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return eris.Wrap(err, "timeslice: sweep cancelled")
			}
			out[i] = New(ds, feat, date, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
