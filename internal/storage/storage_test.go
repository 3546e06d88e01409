package storage

import (
	"os"
	"testing"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorageAt(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorageAt failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTestStorage(t)

	t.Run("Defaults", func(t *testing.T) {
		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences failed: %v", err)
		}
		if prefs.TimeLimitMs != 5000 {
			t.Errorf("Expected 5000ms time limit, got %d", prefs.TimeLimitMs)
		}
		if prefs.SearchDepth != 10 {
			t.Errorf("Expected depth 10, got %d", prefs.SearchDepth)
		}
		if prefs.MoveFormat != "san" {
			t.Errorf("Expected san move format, got %q", prefs.MoveFormat)
		}
	})

	t.Run("SaveLoad", func(t *testing.T) {
		prefs := DefaultPreferences()
		prefs.TimeLimitMs = 2000
		prefs.ThreadCount = 2
		prefs.SearchDepth = 12
		prefs.MoveFormat = "uci"
		if err := s.SavePreferences(prefs); err != nil {
			t.Fatalf("SavePreferences failed: %v", err)
		}

		loaded, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences failed: %v", err)
		}
		if loaded.TimeLimitMs != 2000 || loaded.ThreadCount != 2 ||
			loaded.SearchDepth != 12 || loaded.MoveFormat != "uci" {
			t.Errorf("Loaded preferences do not match saved: %+v", loaded)
		}
		if loaded.LastUsed.IsZero() {
			t.Error("LastUsed was not stamped on save")
		}
	})
}

func TestSavedGames(t *testing.T) {
	s := openTestStorage(t)

	games := []*SavedGame{
		{Name: "ruy", Moves: "1. e4 e5\n2. Nf3 Nc6\n3. Bb5\n", FinalFEN: "r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3"},
		{Name: "sicilian", Moves: "1. e4 c5\n", FinalFEN: "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"},
	}
	for _, g := range games {
		if err := s.SaveGame(g); err != nil {
			t.Fatalf("SaveGame(%q) failed: %v", g.Name, err)
		}
	}

	t.Run("Load", func(t *testing.T) {
		g, found, err := s.LoadGame("ruy")
		if err != nil {
			t.Fatalf("LoadGame failed: %v", err)
		}
		if !found {
			t.Fatal("Saved game not found")
		}
		if g.Moves != games[0].Moves || g.FinalFEN != games[0].FinalFEN {
			t.Errorf("Loaded game does not match saved: %+v", g)
		}
		if g.SavedAt.IsZero() {
			t.Error("SavedAt was not stamped on save")
		}
	})

	t.Run("LoadMissing", func(t *testing.T) {
		_, found, err := s.LoadGame("nonexistent")
		if err != nil {
			t.Fatalf("LoadGame failed: %v", err)
		}
		if found {
			t.Error("Found a game that was never saved")
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := s.ListGames()
		if err != nil {
			t.Fatalf("ListGames failed: %v", err)
		}
		if len(names) != 2 || names[0] != "ruy" || names[1] != "sicilian" {
			t.Errorf("ListGames = %v, want [ruy sicilian]", names)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		updated := &SavedGame{Name: "ruy", Moves: "1. e4 e5\n", FinalFEN: "x"}
		if err := s.SaveGame(updated); err != nil {
			t.Fatalf("SaveGame failed: %v", err)
		}
		g, found, err := s.LoadGame("ruy")
		if err != nil || !found {
			t.Fatalf("LoadGame after overwrite: found=%v err=%v", found, err)
		}
		if g.Moves != updated.Moves {
			t.Errorf("Overwrite did not replace the game: %+v", g)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.DeleteGame("ruy"); err != nil {
			t.Fatalf("DeleteGame failed: %v", err)
		}
		if _, found, _ := s.LoadGame("ruy"); found {
			t.Error("Deleted game still loads")
		}
		if err := s.DeleteGame("ruy"); err != nil {
			t.Errorf("Deleting a missing game failed: %v", err)
		}
	})
}

func TestDataPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	t.Logf("Data directory: %s", dataDir)
}
