// Package leveldb binds merk's NodeIterator interface to
// github.com/syndtr/goleveldb. goleveldb's iterator.Iterator already
// exposes Next, Valid, Key, Value and a way to seek to the first entry,
// so the adaptation is thin.
package leveldb

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/fasmat/merk"
)

// Store wraps a *leveldb.DB as a source of node iterators.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) a goleveldb database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening leveldb at %s: %w", path, err)
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
	return s.db.Put(key, encodedNode, nil)
}

// NewIterator returns a merk.NodeIterator over the whole key range,
// already positioned at the first entry (or invalid, if the store is
// empty), the seek-to-first-then-read convention leaf chunk streaming
// depends on.
func (s *Store) NewIterator() merk.NodeIterator {
	it := s.db.NewIterator(&util.Range{}, nil)
	it.First()
	return &nodeIterator{it: it, valid: it.Valid()}
}

// nodeIterator adapts goleveldb's iterator.Iterator, which reports validity
// via the return value of each positioning call, to merk.NodeIterator,
// which reports it via a separate Valid() query.
type nodeIterator struct {
	it    iterator.Iterator
	valid bool
}

func (n *nodeIterator) Valid() bool { return n.valid }
func (n *nodeIterator) Key() []byte { return n.it.Key() }
func (n *nodeIterator) Value() []byte {
	return n.it.Value()
}
func (n *nodeIterator) Next() {
	n.valid = n.it.Next()
}
