package main

import (
	"errors"
	"flag"
	"log"
	"runtime"
	"strconv"
	"time"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var noStore = flag.Bool("nostore", false, "run without persistent storage")

func main() {
	flag.Parse()

	g := game.NewGame()

	var store *storage.Storage
	if !*noStore {
		var err error
		store, err = storage.NewStorage()
		if err != nil {
			log.Printf("Warning: storage unavailable: %v", err)
			store = nil
		} else {
			defer store.Close()
			applyPreferences(g, store)
		}
	}

	protocol := uci.New(g, store)
	protocol.Run()
}

// applyPreferences seeds the search options from persisted defaults.
func applyPreferences(g *game.Game, store *storage.Storage) {
	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Printf("Warning: preferences not loaded: %v", err)
		return
	}

	opts := engine.DefaultSearchOptions()
	if prefs.TimeLimitMs > 0 {
		opts.TimeLimit = time.Duration(prefs.TimeLimitMs) * time.Millisecond
	}
	if prefs.ThreadCount > 0 {
		opts.ThreadCount = min(prefs.ThreadCount, runtime.NumCPU())
	}
	if prefs.SearchDepth > 0 {
		if err := opts.Set("SearchDepth", strconv.Itoa(prefs.SearchDepth)); err != nil {
			var oe *engine.OptionError
			if !errors.As(err, &oe) || !oe.Warning {
				log.Printf("Warning: bad SearchDepth preference: %v", err)
			}
		}
	}
	if err := g.SetSearchOptions(opts); err != nil {
		log.Printf("Warning: preferences not applied: %v", err)
	}
}
