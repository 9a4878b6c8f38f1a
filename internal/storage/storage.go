package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when no result is stored for a position and depth.
var ErrNotFound = errors.New("perft result not found")

const perftPrefix = "perft/"

// PerftRecord is one stored perft result.
type PerftRecord struct {
	FEN        string            `json:"fen"`
	Depth      int               `json:"depth"`
	Nodes      uint64            `json:"nodes"`
	ElapsedMs  int64             `json:"elapsed_ms"`
	Divide     map[string]uint64 `json:"divide,omitempty"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the store in the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a store in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// perftKey orders records by depth, then FEN. Move counters are not part of
// the key since they do not change the tree.
func perftKey(fen string, depth int) []byte {
	return []byte(fmt.Sprintf("%s%02d/%s", perftPrefix, depth, positionFields(fen)))
}

func positionFields(fen string) string {
	f := strings.Fields(fen)
	if len(f) > 4 {
		f = f[:4]
	}
	return strings.Join(f, " ")
}

// SavePerft stores rec, replacing any earlier result for the same position and depth.
func (s *Storage) SavePerft(rec *PerftRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(rec.FEN, rec.Depth), data)
	})
}

// LoadPerft returns the stored result for fen at depth, or ErrNotFound.
func (s *Storage) LoadPerft(fen string, depth int) (*PerftRecord, error) {
	rec := &PerftRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(fen, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListPerft returns every stored result ordered by depth, then FEN.
func (s *Storage) ListPerft() ([]*PerftRecord, error) {
	var out []*PerftRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(perftPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rec := &PerftRecord{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// DeletePerft removes the stored result for fen at depth, if any.
func (s *Storage) DeletePerft(fen string, depth int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(perftKey(fen, depth))
	})
}
