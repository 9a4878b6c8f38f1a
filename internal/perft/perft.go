// Package perft counts the leaf nodes of the legal move tree, the standard
// correctness check for a move generator.
package perft

import (
	"fmt"
	"log"
	"time"

	"github.com/hailam/spear/internal/board"
)

// Options controls a perft run.
type Options struct {
	// Bulk counts the last ply from the generator instead of playing each move.
	Bulk bool

	// Split records the node count below every root move in Result.Divide.
	Split bool

	// Logger, when set together with Split, receives one "<move> - <count>"
	// line per root move as soon as it is known.
	Logger *log.Logger

	// OnRoot is called after each root move is counted. Useful for progress.
	OnRoot func(RootCount)

	// Table, when set, caches subtree counts by position hash.
	Table *Table
}

// RootCount is the subtree size below one root move.
type RootCount struct {
	Move  board.Move
	Nodes uint64
}

func (rc RootCount) String() string {
	return fmt.Sprintf("%s - %d", rc.Move, rc.Nodes)
}

// Result of a perft run.
type Result struct {
	Nodes   uint64
	Elapsed time.Duration
	Divide  []RootCount // generation order; empty unless Options.Split
}

// NPS returns nodes per second, 0 for runs too short to measure.
func (r Result) NPS() uint64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return uint64(float64(r.Nodes) / r.Elapsed.Seconds())
}

// Run counts the leaves of the move tree of pos to the given depth.
// A depth of zero or less counts the root itself.
func Run(pos *board.Position, depth int, opts Options) Result {
	start := time.Now()
	var res Result
	if depth <= 0 {
		res.Nodes = 1
		res.Elapsed = time.Since(start)
		return res
	}

	c := counter{bulk: opts.Bulk, table: opts.Table}
	if !opts.Split && opts.OnRoot == nil {
		res.Nodes = c.count(pos, depth)
		res.Elapsed = time.Since(start)
		return res
	}

	pos.GenerateMoves(func(m board.Move) {
		next := pos.Apply(m)
		rc := RootCount{Move: m, Nodes: c.count(&next, depth-1)}
		res.Nodes += rc.Nodes
		opts.report(&res, rc)
	})
	res.Elapsed = time.Since(start)
	return res
}

func (o Options) report(res *Result, rc RootCount) {
	if o.Split {
		res.Divide = append(res.Divide, rc)
		if o.Logger != nil {
			o.Logger.Print(rc)
		}
	}
	if o.OnRoot != nil {
		o.OnRoot(rc)
	}
}

// Count is the recursive node counter behind Run.
func Count(pos *board.Position, depth int, bulk bool) uint64 {
	return counter{bulk: bulk}.count(pos, depth)
}

type counter struct {
	bulk  bool
	table *Table
}

func (c counter) count(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var nodes uint64
	if c.bulk && depth == 1 {
		pos.GenerateMoves(func(board.Move) { nodes++ })
		return nodes
	}
	// depth 1 subtrees are cheaper to regenerate than to look up
	cached := c.table != nil && depth > 1
	if cached {
		if n, ok := c.table.probe(pos.Hash, depth); ok {
			return n
		}
	}
	pos.GenerateMoves(func(m board.Move) {
		next := pos.Apply(m)
		nodes += c.count(&next, depth-1)
	})
	if cached {
		c.table.store(pos.Hash, depth, nodes)
	}
	return nodes
}

// RunFEN parses fen and runs perft on it, returning the node count and the
// elapsed wall time in milliseconds. Split lines go to the standard logger.
func RunFEN(fen string, depth int, bulk, split bool) (uint64, int64, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return 0, 0, err
	}
	opts := Options{Bulk: bulk, Split: split}
	if split {
		opts.Logger = log.Default()
	}
	res := Run(pos, depth, opts)
	return res.Nodes, res.Elapsed.Milliseconds(), nil
}
