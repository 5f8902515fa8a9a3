package trie

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(it *Iterator[byte, int]) []string {
	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	sort.Strings(keys)
	return keys
}

func TestEnumerationCompleteness(t *testing.T) {
	s := simpleSet()

	got := collect(s.Begin())
	require.Equal(t, []string{
		"abcabc", "abcabcabc", "abcvabc", "abcxabc",
		"abcyasbc", "xabcvabc", "xabcxabc", "xabcyasbc",
	}, got)
}

func TestSingleKeyEnumeration(t *testing.T) {
	m := New[byte, int]()
	m.Insert([]byte("only"), 1)

	it := m.Begin()
	if !it.Valid() {
		t.Fatalf("Begin() = end on root-only trie")
	}
	if string(it.Key()) != "only" {
		t.Errorf("Key() = %q", it.Key())
	}

	it.Next()
	if it.Valid() {
		t.Errorf("root-only enumeration did not stop after the root")
	}
}

func TestIteratorClone(t *testing.T) {
	s := simpleSet()

	it := s.FindPrefix([]byte("abc"))
	require.True(t, it.Valid())

	cl := it.Clone()
	first := string(it.Key())

	it.Next()
	it.Next()

	if got := string(cl.Key()); got != first {
		t.Errorf("clone moved with the original: %q != %q", got, first)
	}

	// Advancing the clone to the end leaves the original alone.
	for cl.Valid() {
		cl.Next()
	}
	if !it.Valid() {
		t.Errorf("original exhausted by clone")
	}
}

func TestIteratorEquality(t *testing.T) {
	s := simpleSet()

	a := s.Find([]byte("abcabc"))
	b := s.Find([]byte("abcabc"))
	c := s.Find([]byte("abcvabc"))

	if !a.Equal(b) {
		t.Errorf("iterators at the same node differ")
	}
	if a.Equal(c) {
		t.Errorf("iterators at different nodes equal")
	}
	if !s.End().Equal(s.End()) {
		t.Errorf("end iterators differ")
	}
	if a.Equal(s.End()) {
		t.Errorf("valid iterator equals end")
	}
}

func TestFindKeyReconstruction(t *testing.T) {
	s := simpleSet()

	for _, key := range []string{"abcabc", "abcabcabc", "xabcyasbc"} {
		it := s.Find([]byte(key))
		require.True(t, it.Valid(), "Find(%q)", key)
		require.Equal(t, key, string(it.Key()))
	}

	if s.Find([]byte("abc")).Valid() {
		t.Errorf("Find hit a valueless interior node")
	}
	if s.Find([]byte("abcab")).Valid() {
		t.Errorf("Find hit mid-label")
	}
}

func TestFindPrefixKeyReconstruction(t *testing.T) {
	s := simpleSet()

	// The base prefix holds the consumed query atoms strictly before
	// the reached node's label, so keys come back whole, once.
	for _, q := range []string{"a", "ab", "abc", "abca", "abcabc", "x", "xabc"} {
		for it := s.FindPrefix([]byte(q)); it.Valid(); it.Next() {
			key := string(it.Key())
			if !strings.HasPrefix(key, q) {
				t.Errorf("FindPrefix(%q) yielded %q", q, key)
			}
			if !s.Contains([]byte(key)) {
				t.Errorf("FindPrefix(%q) fabricated %q", q, key)
			}
		}
	}
}

func TestFindPrefixFrom(t *testing.T) {
	s := simpleSet()

	base := s.FindPrefix([]byte("abc"))
	require.True(t, base.Valid())

	// The sub-lookup runs relative to the reached node; its keys are
	// reconstructed from that node down.
	sub := s.FindPrefixFrom(base, []byte("abc"), nil)
	count := 0
	for ; sub.Valid(); sub.Next() {
		count++
	}
	if count != 2 {
		t.Errorf("relative lookup yielded %d keys, want 2", count)
	}

	if s.FindPrefixFrom(s.End(), []byte("abc"), nil).Valid() {
		t.Errorf("relative lookup from end != end")
	}
}

func TestDebugString(t *testing.T) {
	m := New[byte, int]()

	if m.DebugString() != "[ empty ]" {
		t.Errorf("empty dump = %q", m.DebugString())
	}

	m.Insert([]byte("solo"), 1)
	if got := m.DebugString(); got != "solo(=1)" {
		t.Errorf("root-only dump = %q", got)
	}

	m.Insert([]byte("sole"), 2)
	got := m.DebugString()
	for _, part := range []string{"sol", "o(=1)", "e(=2)"} {
		if !strings.Contains(got, part) {
			t.Errorf("dump %q missing %q", got, part)
		}
	}
}
