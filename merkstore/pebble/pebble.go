// Package pebble binds merk's NodeIterator interface to
// github.com/cockroachdb/pebble, an alternative embedded engine to
// merkstore/leveldb for the same ordered node store.
package pebble

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/fasmat/merk"
)

// Store wraps a *pebble.DB as a source of node iterators.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if absent) a pebble database at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening pebble at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores an already length-prefix-encoded node under key (see
// merkstore.EncodeNode).
func (s *Store) Put(key, encodedNode []byte) error {
	return s.db.Set(key, encodedNode, pebble.Sync)
}

// NewIterator returns a merk.NodeIterator over the whole key range,
// already positioned at the first entry (or invalid, if the store is
// empty).
func (s *Store) NewIterator() (merk.NodeIterator, error) {
	it, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("creating pebble iterator: %w", err)
	}
	return &nodeIterator{it: it, valid: it.First()}, nil
}

// nodeIterator adapts pebble's *pebble.Iterator, which reports validity via
// the return value of each positioning call, to merk.NodeIterator, which
// reports it via a separate Valid() query.
type nodeIterator struct {
	it    *pebble.Iterator
	valid bool
}

func (n *nodeIterator) Valid() bool   { return n.valid }
func (n *nodeIterator) Key() []byte   { return n.it.Key() }
func (n *nodeIterator) Value() []byte { return n.it.Value() }
func (n *nodeIterator) Next() {
	n.valid = n.it.Next()
}

// Close releases the iterator. Callers must call this once done; pebble
// iterators hold onto a read snapshot until released.
func (n *nodeIterator) Close() error {
	return n.it.Close()
}
