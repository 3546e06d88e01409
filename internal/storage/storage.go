package storage

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	gameKeyPrefix  = "game:"
)

// Preferences stores the persisted engine defaults applied to new
// games.
type Preferences struct {
	TimeLimitMs int       `json:"time_limit_ms"`
	ThreadCount int       `json:"thread_count"`
	SearchDepth int       `json:"search_depth"`
	MoveFormat  string    `json:"move_format"`
	LastUsed    time.Time `json:"last_used"`
}

// DefaultPreferences returns the factory preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		TimeLimitMs: 5000,
		ThreadCount: 0, // 0 means all hardware threads
		SearchDepth: 10,
		MoveFormat:  "san",
		LastUsed:    time.Now(),
	}
}

// SavedGame is one persisted game: the move listing as written by the
// game facade plus the final position for quick display.
type SavedGame struct {
	Name     string    `json:"name"`
	Moves    string    `json:"moves"`
	FinalFEN string    `json:"final_fen"`
	SavedAt  time.Time `json:"saved_at"`
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return NewStorageAt(dbDir)
}

// NewStorageAt opens the database in an explicit directory.
func NewStorageAt(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves the engine preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads the engine preferences, returning defaults
// when none have been saved.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})
	return prefs, err
}

// SaveGame stores a game under its name, replacing any previous game
// with the same name.
func (s *Storage) SaveGame(g *SavedGame) error {
	g.SavedAt = time.Now()

	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(gameKeyPrefix+g.Name), data)
	})
}

// LoadGame retrieves a saved game by name. The second return is
// false when no game with that name exists.
func (s *Storage) LoadGame(name string) (*SavedGame, bool, error) {
	var g SavedGame
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gameKeyPrefix + name))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &g)
		})
	})
	if err != nil || !found {
		return nil, false, err
	}
	return &g, true, nil
}

// DeleteGame removes a saved game. Deleting a missing game is not an
// error.
func (s *Storage) DeleteGame(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(gameKeyPrefix + name))
	})
}

// ListGames returns the names of all saved games, sorted.
func (s *Storage) ListGames() ([]string, error) {
	var names []string

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(gameKeyPrefix)})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, gameKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
