package perft

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/spear/internal/board"
)

// RunParallel is Run with the root moves spread over a bounded group of
// goroutines. Each worker owns its copy of the child position. workers <= 0
// means one per CPU. Divide keeps root generation order. Cancelling ctx stops
// scheduling new root moves and returns ctx's error.
func RunParallel(ctx context.Context, pos *board.Position, depth int, opts Options, workers int) (Result, error) {
	if depth <= 1 {
		return Run(pos, depth, opts), nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	roots := pos.LegalMoves().Slice()
	counts := make([]uint64, len(roots))
	c := counter{bulk: opts.Bulk, table: opts.Table}

	var mu sync.Mutex // serializes OnRoot and Logger
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range roots {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			next := pos.Apply(m)
			counts[i] = c.count(&next, depth-1)

			mu.Lock()
			defer mu.Unlock()
			if opts.Split && opts.Logger != nil {
				opts.Logger.Print(RootCount{Move: m, Nodes: counts[i]})
			}
			if opts.OnRoot != nil {
				opts.OnRoot(RootCount{Move: m, Nodes: counts[i]})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Elapsed: time.Since(start)}
	for i, m := range roots {
		res.Nodes += counts[i]
		if opts.Split {
			res.Divide = append(res.Divide, RootCount{Move: m, Nodes: counts[i]})
		}
	}
	return res, nil
}
