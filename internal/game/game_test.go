package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestNewGameState(t *testing.T) {
	g := NewGame()
	if g.State() != Active {
		t.Errorf("state = %v, want active", g.State())
	}
	if g.DrawCause() != CauseNone {
		t.Errorf("cause = %v, want none", g.DrawCause())
	}
	if len(g.History()) != 0 {
		t.Errorf("history has %d records, want 0", len(g.History()))
	}
}

func TestDoMoveRecordsAllFormats(t *testing.T) {
	g := NewGame()
	if err := g.DoMoveText("e4"); err != nil {
		t.Fatalf("DoMoveText(e4): %v", err)
	}

	rec := g.History()[0]
	if rec.SAN != "e4" || rec.AN != "e2-e4" || rec.UCI != "e2e4" {
		t.Errorf("record = %q/%q/%q, want e4/e2-e4/e2e4", rec.SAN, rec.AN, rec.UCI)
	}
}

func TestDoMoveRejectsIllegal(t *testing.T) {
	g := NewGame()
	var ime *board.IllegalMoveError
	if err := g.DoMove(board.NewMove(board.E2, board.E5)); !errors.As(err, &ime) {
		t.Errorf("DoMove(e2e5): %v, want IllegalMoveError", err)
	}
	if len(g.History()) != 0 {
		t.Error("illegal move left a history record")
	}
}

func TestUndoMove(t *testing.T) {
	g := NewGame()
	want := g.WriteFEN(false)

	for _, san := range []string{"e4", "c5", "Nf3"} {
		if err := g.DoMoveText(san); err != nil {
			t.Fatalf("DoMoveText(%q): %v", san, err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := g.UndoMove(); err != nil {
			t.Fatalf("UndoMove %d: %v", i, err)
		}
	}

	if got := g.WriteFEN(false); got != want {
		t.Errorf("after undo: FEN = %q, want %q", got, want)
	}
	if err := g.UndoMove(); !errors.Is(err, ErrNoMoveToUndo) {
		t.Errorf("UndoMove on empty history: %v, want ErrNoMoveToUndo", err)
	}
}

func TestFoolsMate(t *testing.T) {
	g := NewGame()
	for _, san := range []string{"f3", "e5", "g4", "Qh4#"} {
		if err := g.DoMoveText(san); err != nil {
			t.Fatalf("DoMoveText(%q): %v", san, err)
		}
	}
	if g.State() != BlackWin {
		t.Errorf("state = %v, want black wins", g.State())
	}
}

// TestThreefoldRepetition shuffles the knights back to their home
// squares twice, visiting the starting position a third time.
func TestThreefoldRepetition(t *testing.T) {
	g := NewGame()
	line := []string{"Nf3", "Nf6", "Ng1", "Ng8", "Nf3", "Nf6", "Ng1", "Ng8"}

	for i, san := range line {
		if g.State() != Active {
			t.Fatalf("game over early at move %d: %v", i, g.State())
		}
		if err := g.DoMoveText(san); err != nil {
			t.Fatalf("DoMoveText(%q): %v", san, err)
		}
	}

	if g.State() != Draw || g.DrawCause() != CauseRepetition {
		t.Errorf("state = %v/%v, want draw by repetition", g.State(), g.DrawCause())
	}

	// Retracting the last move leaves only two visits.
	if err := g.UndoMove(); err != nil {
		t.Fatalf("UndoMove: %v", err)
	}
	if g.State() != Active {
		t.Errorf("state after undo = %v, want active", g.State())
	}
}

func TestDrawDetection(t *testing.T) {
	tests := []struct {
		fen   string
		cause DrawCause
	}{
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", CauseStalemate},
		{"4k3/8/8/8/8/8/8/4K3 w - - 30 40", CauseMaterial},
		{"4k3/8/8/8/8/8/8/3NK3 w - - 0 1", CauseMaterial},
		{"4kb2/8/8/8/8/8/8/2B1K3 w - - 0 1", CauseMaterial}, // both dark-squared
		{"4k3/8/8/8/8/8/8/4K2R b - - 100 80", CauseRule50},
	}

	for _, tc := range tests {
		g := NewGame()
		if err := g.LoadFEN(tc.fen); err != nil {
			t.Fatalf("LoadFEN(%q): %v", tc.fen, err)
		}
		if g.State() != Draw || g.DrawCause() != tc.cause {
			t.Errorf("%s: state = %v/%v, want draw/%v", tc.fen, g.State(), g.DrawCause(), tc.cause)
		}
	}
}

func TestNotInsufficientMaterial(t *testing.T) {
	fens := []string{
		"4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1",  // two knights
		"4kb2/8/8/8/8/8/8/1B3K2 w - - 0 1",  // opposite-colored bishops
		"4k3/4p3/8/8/8/8/8/4K3 w - - 0 1",   // lone pawn
		"4k3/8/8/8/8/8/8/4K2R w - - 0 1",    // rook
	}

	for _, fen := range fens {
		g := NewGame()
		if err := g.LoadFEN(fen); err != nil {
			t.Fatalf("LoadFEN(%q): %v", fen, err)
		}
		if g.State() == Draw && g.DrawCause() == CauseMaterial {
			t.Errorf("%s: flagged as insufficient material", fen)
		}
	}
}

func TestCheckmatePrecedesRule50(t *testing.T) {
	g := NewGame()
	if err := g.LoadFEN("R6k/6pp/8/8/8/8/8/K7 b - - 100 90"); err != nil {
		t.Fatalf("LoadFEN: %v", err)
	}
	if g.State() != WhiteWin {
		t.Errorf("state = %v, want white wins", g.State())
	}
}

func TestWriteGameFormats(t *testing.T) {
	g := NewGame()
	for _, san := range []string{"e4", "e5", "Nf3"} {
		if err := g.DoMoveText(san); err != nil {
			t.Fatalf("DoMoveText(%q): %v", san, err)
		}
	}

	tests := []struct {
		format MoveFormat
		want   string
	}{
		{FormatSAN, "1. e4 e5\n2. Nf3\n"},
		{FormatAN, "1. e2-e4 e7-e5\n2. g1-f3\n"},
		{FormatUCI, "1. e2e4 e7e5\n2. g1f3\n"},
	}
	for _, tc := range tests {
		if got := g.WriteGame(tc.format); got != tc.want {
			t.Errorf("WriteGame(%d) = %q, want %q", tc.format, got, tc.want)
		}
	}
}

func TestLoadGameRoundTrip(t *testing.T) {
	g := NewGame()
	line := []string{"e4", "c5", "Nf3", "d6", "d4", "cxd4", "Nxd4", "Nf6"}
	for _, san := range line {
		if err := g.DoMoveText(san); err != nil {
			t.Fatalf("DoMoveText(%q): %v", san, err)
		}
	}
	wantFEN := g.WriteFEN(false)

	for _, format := range []MoveFormat{FormatSAN, FormatAN, FormatUCI} {
		text := g.WriteGame(format)
		other := NewGame()
		if err := other.LoadGame(text); err != nil {
			t.Fatalf("LoadGame(format %d): %v", format, err)
		}
		if got := other.WriteFEN(false); got != wantFEN {
			t.Errorf("format %d: FEN = %q, want %q", format, got, wantFEN)
		}
	}
}

func TestLoadGameBadMove(t *testing.T) {
	g := NewGame()
	err := g.LoadGame("1. e4 e5\n2. Ke7")
	if err == nil {
		t.Fatal("LoadGame accepted an illegal move")
	}
	if !strings.Contains(err.Error(), "Ke7") {
		t.Errorf("error %q does not name the bad move", err)
	}
}

func TestLoadFENClearsHistory(t *testing.T) {
	g := NewGame()
	if err := g.DoMoveText("e4"); err != nil {
		t.Fatalf("DoMoveText: %v", err)
	}
	if err := g.LoadFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1"); err != nil {
		t.Fatalf("LoadFEN: %v", err)
	}
	if len(g.History()) != 0 {
		t.Errorf("history has %d records after LoadFEN, want 0", len(g.History()))
	}
	if err := g.UndoMove(); !errors.Is(err, ErrNoMoveToUndo) {
		t.Errorf("UndoMove after LoadFEN: %v, want ErrNoMoveToUndo", err)
	}
}

func TestGamePerft(t *testing.T) {
	g := NewGame()
	nodes, err := g.Perft(3)
	if err != nil {
		t.Fatalf("Perft: %v", err)
	}
	if nodes != 8902 {
		t.Errorf("perft(3) = %d, want 8902", nodes)
	}
}
