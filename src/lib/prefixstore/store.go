// Package prefixstore wraps the trie for shared use by the server: a
// lock around the container, a fifo for inbound records, and the peer
// list for replication.
package prefixstore

import (
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/kephir4eg/trie/src/lib/trie"
)

// Entry is one key/value pair read back out of the store.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store is a byte-keyed string map behind a RWMutex. The trie itself
// performs no locking; every access goes through here.
type Store struct {
	t  *trie.Map[byte, string]
	mu sync.RWMutex
}

func NewStore() *Store {
	return &Store{t: trie.New[byte, string]()}
}

func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.Insert([]byte(key), value)
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.t.Get([]byte(key))
	if !ok {
		return "", false
	}
	return *v, true
}

func (s *Store) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.Contains([]byte(key))
}

func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.Size()
}

// Keys returns every entry whose key starts with prefix.
func (s *Store) Keys(prefix string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := []Entry{}
	for it := s.t.FindPrefix([]byte(prefix)); it.Valid(); it.Next() {
		entries = append(entries, Entry{Key: string(it.Key()), Value: *it.Value()})
	}
	return entries
}

// Digest is a SHAKE-256 content hash over every key/value pair in
// enumeration order. Two stores with the same insertion history hash
// identically.
func (s *Store) Digest() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := sha3.NewShake256()
	sep := []byte{0}
	for it := s.t.Begin(); it.Valid(); it.Next() {
		h.Write(it.Key())
		h.Write(sep)
		h.Write([]byte(*it.Value()))
		h.Write(sep)
	}

	out := make([]byte, 64)
	h.Read(out)
	return hex.EncodeToString(out)
}
