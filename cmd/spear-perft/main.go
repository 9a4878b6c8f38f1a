package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"github.com/schollz/progressbar/v3"

	"github.com/hailam/spear/internal/board"
	"github.com/hailam/spear/internal/perft"
	"github.com/hailam/spear/internal/storage"
)

var (
	fenFlag     = flag.String("fen", board.StartFEN, "position to search")
	movesFlag   = flag.String("moves", "", "space separated UCI moves to play from -fen first")
	depthFlag   = flag.Int("depth", 5, "perft depth")
	bulkFlag    = flag.Bool("bulk", true, "count the last ply without playing it")
	splitFlag   = flag.Bool("split", false, "print node counts per root move")
	sanFlag     = flag.Bool("san", false, "print split moves in SAN instead of UCI")
	workersFlag = flag.Int("workers", 1, "goroutines over root moves (0 = one per CPU)")
	hashFlag    = flag.Int("hash", 0, "subtree cache size in MB (0 = off)")
	cacheFlag   = flag.Bool("cache", false, "reuse and store results in the result database")
	dbFlag      = flag.String("db", "", "result database directory (default: platform data dir)")
	profileFlag = flag.String("profile", "", "write a cpu or mem profile to the current directory")
	verifyFlag  = flag.Bool("verify", false, "fail when the count disagrees with published values")
	listFlag    = flag.Bool("list", false, "list stored results and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	switch *profileFlag {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("unknown -profile %q (want cpu or mem)", *profileFlag)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("error: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var store *storage.Storage
	if *cacheFlag || *listFlag {
		var err error
		if *dbFlag != "" {
			store, err = storage.Open(*dbFlag)
		} else {
			store, err = storage.NewStorage()
		}
		if err != nil {
			return err
		}
		defer store.Close()
	}
	if *listFlag {
		return listResults(store)
	}

	if *depthFlag <= 0 {
		return errors.New("-depth must be > 0")
	}
	pos, err := setupPosition(*fenFlag, *movesFlag)
	if err != nil {
		return err
	}
	fen := pos.ToFEN()

	if store != nil {
		rec, err := store.LoadPerft(fen, *depthFlag)
		switch {
		case err == nil:
			log.Printf("cached result from %s", humanize.Time(rec.RecordedAt))
			printDivide(pos, rec.Divide)
			printSummary(*depthFlag, rec.Nodes, rec.ElapsedMs)
			return verify(fen, *depthFlag, rec.Nodes)
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}
	}

	res, err := search(ctx, pos)
	if err != nil {
		return err
	}

	divide := make(map[string]uint64, len(res.Divide))
	for _, rc := range res.Divide {
		divide[rc.Move.String()] = rc.Nodes
	}
	printDivide(pos, divide)
	printSummary(*depthFlag, res.Nodes, res.Elapsed.Milliseconds())
	if nps := res.NPS(); nps > 0 {
		log.Printf("nps:   %s", humanize.Comma(int64(nps)))
	}

	if store != nil {
		err := store.SavePerft(&storage.PerftRecord{
			FEN:       fen,
			Depth:     *depthFlag,
			Nodes:     res.Nodes,
			ElapsedMs: res.Elapsed.Milliseconds(),
			Divide:    divide,
		})
		if err != nil {
			log.Printf("warning: result not stored: %v", err)
		}
	}
	return verify(fen, *depthFlag, res.Nodes)
}

func setupPosition(fen, moves string) (*board.Position, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	for _, s := range strings.Fields(moves) {
		m, err := pos.ParseMove(s)
		if err != nil {
			return nil, err
		}
		pos.MakeMove(m)
	}
	return pos, nil
}

func search(ctx context.Context, pos *board.Position) (perft.Result, error) {
	opts := perft.Options{Bulk: *bulkFlag, Split: *splitFlag}
	if *hashFlag > 0 {
		opts.Table = perft.NewTable(*hashFlag)
		defer func() {
			probes, hits := opts.Table.Stats()
			log.Printf("hash:  %s probes, %s hits", humanize.Comma(int64(probes)), humanize.Comma(int64(hits)))
		}()
	}

	if *splitFlag || *workersFlag != 1 {
		bar := progressbar.NewOptions(pos.LegalMoves().Len(),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(fmt.Sprintf("perft %d", *depthFlag)),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		opts.OnRoot = func(perft.RootCount) { _ = bar.Add(1) }
		defer bar.Finish()
	}

	if *workersFlag == 1 {
		return perft.Run(pos, *depthFlag, opts), nil
	}
	return perft.RunParallel(ctx, pos, *depthFlag, opts, *workersFlag)
}

func printDivide(pos *board.Position, divide map[string]uint64) {
	if len(divide) == 0 {
		return
	}
	keys := make([]string, 0, len(divide))
	for k := range divide {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := k
		if *sanFlag {
			if m, err := pos.ParseMove(k); err == nil {
				name = pos.SAN(m)
			}
		}
		fmt.Printf("%s - %d\n", name, divide[k])
	}
	fmt.Println()
}

func printSummary(depth int, nodes uint64, ms int64) {
	fmt.Printf("depth: %d\n", depth)
	fmt.Printf("nodes: %s\n", humanize.Comma(int64(nodes)))
	fmt.Printf("time:  %d ms\n", ms)
}

func verify(fen string, depth int, nodes uint64) error {
	if !*verifyFlag {
		return nil
	}
	if _, ok := perft.Lookup(fen, depth); !ok {
		log.Printf("no published count for this position at depth %d", depth)
		return nil
	}
	if err := perft.Verify(fen, depth, nodes); err != nil {
		return err
	}
	log.Printf("verified against published count")
	return nil
}

func listResults(store *storage.Storage) error {
	recs, err := store.ListPerft()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		fmt.Printf("%2d  %15s  %8d ms  %s\n", rec.Depth, humanize.Comma(int64(rec.Nodes)), rec.ElapsedMs, rec.FEN)
	}
	return nil
}
