// Package storage keeps perft subtree counts in an in-memory BadgerDB.
package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// keyLen is the hash followed by the depth byte.
const keyLen = 9

// Store wraps BadgerDB for perft counts keyed by (Zobrist hash, depth).
// It satisfies perft.Cache.
type Store struct {
	db *badger.DB
}

// Open creates an in-memory store.
func Open() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func key(hash uint64, depth int) []byte {
	k := make([]byte, keyLen)
	binary.BigEndian.PutUint64(k, hash)
	k[8] = byte(depth)
	return k
}

// Load returns the stored count for the position hash at depth.
func (s *Store) Load(hash uint64, depth int) (uint64, bool, error) {
	var (
		nodes uint64
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(hash, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt value of %d bytes", len(val))
			}
			nodes = binary.BigEndian.Uint64(val)
			found = true
			return nil
		})
	})
	if err != nil {
		return 0, false, fmt.Errorf("storage: load %016x/%d: %w", hash, depth, err)
	}
	return nodes, found, nil
}

// Store saves the count for the position hash at depth.
func (s *Store) Store(hash uint64, depth int, nodes uint64) error {
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, nodes)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(hash, depth), val)
	})
	if err != nil {
		return fmt.Errorf("storage: store %016x/%d: %w", hash, depth, err)
	}
	return nil
}

// Len returns the number of stored counts.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
