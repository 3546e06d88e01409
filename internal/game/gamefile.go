package game

import (
	"fmt"
	"strings"
)

// MoveFormat selects the text rendering used by WriteGame.
type MoveFormat uint8

const (
	FormatSAN MoveFormat = iota
	FormatAN
	FormatUCI
)

func (r Record) render(f MoveFormat) string {
	switch f {
	case FormatAN:
		return r.AN
	case FormatUCI:
		return r.UCI
	}
	return r.SAN
}

// WriteGame dumps the move history as numbered "<n>. <white> <black>"
// pairs, one pair per line.
func (g *Game) WriteGame(format MoveFormat) string {
	var sb strings.Builder
	for i := 0; i < len(g.history); i += 2 {
		fmt.Fprintf(&sb, "%d. %s", i/2+1, g.history[i].render(format))
		if i+1 < len(g.history) {
			sb.WriteString(" " + g.history[i+1].render(format))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// LoadGame resets the game and replays a move listing. Move numbers
// ("1.", "2.") are skipped; moves may be in any supported format.
func (g *Game) LoadGame(text string) error {
	if err := g.Reset(); err != nil {
		return err
	}
	for _, tok := range strings.Fields(text) {
		if strings.HasSuffix(tok, ".") {
			continue
		}
		if err := g.DoMoveText(tok); err != nil {
			return fmt.Errorf("move %d (%q): %w", len(g.history)+1, tok, err)
		}
	}
	return nil
}
