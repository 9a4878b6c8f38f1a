package perft

import (
	"errors"
	"fmt"

	"github.com/hailam/spear/internal/board"
)

// ErrMismatch is returned by Verify when a count disagrees with the published one.
var ErrMismatch = errors.New("perft mismatch")

// Reference is a position with published node counts, Nodes[d-1] for depth d.
type Reference struct {
	Name  string
	FEN   string
	Nodes []uint64
}

// References are the usual perft suite positions.
var References = []Reference{
	{"start", board.StartFEN, []uint64{20, 400, 8902, 197281, 4865609, 119060324}},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []uint64{48, 2039, 97862, 4085603, 193690690}},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812, 43238, 674624, 11030083}},
	{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467, 422333, 15833292}},
	{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379, 2103487, 89941194}},
}

// Lookup finds the published count for a position and depth. FENs are
// compared after normalisation through the parser.
func Lookup(fen string, depth int) (uint64, bool) {
	key := normalize(fen)
	for _, ref := range References {
		if normalize(ref.FEN) == key && depth >= 1 && depth <= len(ref.Nodes) {
			return ref.Nodes[depth-1], true
		}
	}
	return 0, false
}

// Verify compares nodes with the published count. A position or depth
// without a published count is not an error.
func Verify(fen string, depth int, nodes uint64) error {
	want, ok := Lookup(fen, depth)
	if !ok || want == nodes {
		return nil
	}
	return fmt.Errorf("%w: %s depth %d: got %d, want %d", ErrMismatch, fen, depth, nodes, want)
}

func normalize(fen string) string {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return fen
	}
	// counters do not affect the tree
	pos.HalfMoveClock, pos.FullMoveNumber = 0, 1
	return pos.ToFEN()
}
