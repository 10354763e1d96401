// Package filestore is a minimal file-backed NodeIterator binding: one file
// per node, named by its hex-encoded key, in a directory. The directory
// gets scanned with a naming-convention regexp and files are opened
// lazily and kept indexed by key, the same shape a per-layer hash cache
// would use for the same reason: the nodes are the durable state, the
// index is just a fast way to find them again.
package filestore

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/fasmat/merk"
)

var fileNamePattern = regexp.MustCompile(`^node_([0-9a-f]+)\.bin$`)

// Store is a directory of one file per node, named "node_<hex key>.bin".
// It is expected that the directory exists and is writable; if it doesn't
// exist, Open returns an error.
type Store struct {
	dir  string
	keys [][]byte // sorted ascending
}

// Open indexes the nodes already present in dir (if any) and returns a
// Store ready for further Put calls and iteration.
func Open(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("directory does not exist: %w", err)
	case err != nil:
		return nil, fmt.Errorf("checking directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var keys [][]byte
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := fileNamePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}
		key, err := hex.DecodeString(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parsing key from file name %s: %w", entry.Name(), err)
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })

	return &Store{dir: dir, keys: keys}, nil
}

func (s *Store) path(key []byte) string {
	return filepath.Join(s.dir, fmt.Sprintf("node_%s.bin", hex.EncodeToString(key)))
}

// Put writes an already length-prefix-encoded node under key (see
// merkstore.EncodeNode), inserting it into the store's sorted key index.
func (s *Store) Put(key, encodedNode []byte) error {
	if err := os.WriteFile(s.path(key), encodedNode, 0o644); err != nil {
		return fmt.Errorf("writing node for key %x: %w", key, err)
	}

	idx := sort.Search(len(s.keys), func(i int) bool { return bytes.Compare(s.keys[i], key) >= 0 })
	if idx < len(s.keys) && bytes.Equal(s.keys[idx], key) {
		return nil // already indexed
	}
	s.keys = append(s.keys, nil)
	copy(s.keys[idx+1:], s.keys[idx:])
	s.keys[idx] = key
	return nil
}

// NewIterator returns a merk.NodeIterator over all indexed keys in
// ascending order, already positioned at the first entry (or invalid, if
// the store is empty).
func (s *Store) NewIterator() merk.NodeIterator {
	it := &nodeIterator{store: s, pos: 0}
	it.load()
	return it
}

type nodeIterator struct {
	store *Store
	pos   int

	valid   bool
	key     []byte
	value   []byte
	loadErr error
}

func (n *nodeIterator) load() {
	if n.pos >= len(n.store.keys) {
		n.valid = false
		return
	}
	key := n.store.keys[n.pos]
	data, err := os.ReadFile(n.store.path(key))
	if err != nil {
		n.loadErr = fmt.Errorf("reading node for key %x: %w", key, err)
		n.valid = false
		return
	}
	n.key, n.value, n.valid, n.loadErr = key, data, true, nil
}

func (n *nodeIterator) Valid() bool { return n.valid }
func (n *nodeIterator) Key() []byte { return n.key }
func (n *nodeIterator) Value() []byte {
	return n.value
}
func (n *nodeIterator) Next() {
	n.pos++
	n.load()
}

// Err returns the first error encountered while reading a node file during
// iteration, if any.
func (n *nodeIterator) Err() error {
	if n.loadErr != nil {
		return n.loadErr
	}
	return nil
}
