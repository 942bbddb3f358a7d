// Package baseline keeps named analysis results for later comparison.
package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/rezi-ui/bench/grid-bench/internal/analyze"
)

const keyPrefix = "baseline/"

var ErrNotFound = errors.New("baseline not found")

// Entry is a saved analysis.
type Entry struct {
	Name    string        `json:"name"`
	Source  string        `json:"source"`
	SavedAt time.Time     `json:"savedAt"`
	Stats   analyze.Stats `json:"stats"`
}

// Store is a badger backed set of baselines.
type Store struct {
	db *badger.DB
}

func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open baseline store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores e under its name, replacing any previous entry.
func (s *Store) Save(e Entry) error {
	if e.Name == "" {
		return errors.New("baseline name is required")
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(e.Name), payload)
	})
}

func (s *Store) Load(name string) (Entry, error) {
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			payload = append([]byte{}, val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read baseline %s: %w", name, err)
	}

	var e Entry
	if err := json.Unmarshal(payload, &e); err != nil {
		return Entry{}, fmt.Errorf("failed to unmarshal baseline %s: %w", name, err)
	}
	return e, nil
}

// Names lists saved baselines in key order.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, string(it.Item().Key()[len(keyPrefix):]))
		}
		return nil
	})
	return names, err
}

func (s *Store) Delete(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(name))
	})
}

func key(name string) []byte {
	return []byte(keyPrefix + name)
}
