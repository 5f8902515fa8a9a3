// Package trie implements a compressed radix trie keyed by sequences
// of fixed-width atoms (typically bytes). Edge labels live in a
// chunked append-only arena, each node dispatches to its children
// through a sparse power-of-two table sized adaptively by the atoms it
// actually holds, and every public operation is a thin wrapper around
// one generic descent routine.
//
// The container is not safe for concurrent use; callers that share a
// trie across goroutines must serialize access themselves.
package trie

import (
	"errors"
)

// DefaultChunkSize is the arena reservation unit used by New. Zero
// (via NewChunked) selects one buffer per label.
const DefaultChunkSize = 1024

// ErrOutOfRange is returned by At for keys that are not present.
var ErrOutOfRange = errors.New("trie: out of range")

// Map is an ordered associative container from atom sequences to V.
// The zero Map is not usable; construct with New or NewChunked.
type Map[A Atom, V any] struct {
	size  int
	arena arena[A]

	// nodes holds every edge in insertion order; nodes[0] is the root.
	// Nodes are never moved or released before the Map itself.
	nodes []*node[A, V]
}

func New[A Atom, V any]() *Map[A, V] {
	return NewChunked[A, V](DefaultChunkSize)
}

func NewChunked[A Atom, V any](minChunkSize int) *Map[A, V] {
	return &Map[A, V]{arena: arena[A]{min: minChunkSize}}
}

// Size returns the number of distinct keys holding a value.
func (m *Map[A, V]) Size() int { return m.size }

func (m *Map[A, V]) root() *node[A, V] { return m.nodes[0] }

func (m *Map[A, V]) newEdge(hint int) *node[A, V] {
	n := newNode[A, V](hint)
	m.nodes = append(m.nodes, n)
	return n
}

// insertEdge hangs a fresh value-bearing node under parent, carrying
// key as its label. The parent's chunk is the placement hint so a
// child's label lands next to its parent's when it fits.
func (m *Map[A, V]) insertEdge(parent *node[A, V], key []A, value V) *node[A, V] {
	n := m.newEdge(0)

	var hint *chunk[A]
	if parent != nil {
		hint = parent.chunk
	}
	n.chunk, n.label = m.arena.place(key, hint)

	if parent != nil {
		parent.put(n)
	}
	n.setValue(value)

	return n
}

// search is the single descent routine behind every public operation.
// It walks from n matching key atom by atom against edge labels and
// fires exactly one of the terminal callbacks:
//
//	exactMatch(n)                key consumed, label consumed
//	endInTheMiddle(n, labelAt)   key consumed inside n's label
//	splitInTheMiddle(n, ...)     key and label diverge inside the label
//	noNextEdge(n, keyAt)         label consumed, no child for key[keyAt]
//
// edge fires on every edge followed, before entering the child. Any
// callback may be nil.
func (m *Map[A, V]) search(
	n *node[A, V],
	key []A,
	exactMatch func(n *node[A, V]),
	noNextEdge func(n *node[A, V], keyAt int),
	endInTheMiddle func(n *node[A, V], labelAt int),
	splitInTheMiddle func(n *node[A, V], labelAt, keyAt int),
	edge func(n *node[A, V], slot, keyAt int),
) {
	keyAt := 0
	labelAt := 0

	for {
		label := n.label

		for keyAt < len(key) && labelAt < len(label) && label[labelAt] == key[keyAt] {
			labelAt++
			keyAt++
		}

		if keyAt == len(key) {
			if labelAt == len(label) {
				if exactMatch != nil {
					exactMatch(n)
				}
			} else if endInTheMiddle != nil {
				endInTheMiddle(n, labelAt)
			}
			return
		}

		if labelAt < len(label) {
			if splitInTheMiddle != nil {
				splitInTheMiddle(n, labelAt, keyAt)
			}
			return
		}

		slot := n.find(key[keyAt])
		if slot < 0 {
			if noNextEdge != nil {
				noNextEdge(n, keyAt)
			}
			return
		}

		if edge != nil {
			edge(n, slot, keyAt)
		}

		n = n.children[slot]
		labelAt = 1 // the child's first atom is the one we just found
		keyAt++
	}
}

// InsertWith stores value at key. If the key is already present,
// replace decides the outcome; otherwise the value is set and the size
// grows. Any atom sequence, including the empty one, is a valid key.
func (m *Map[A, V]) InsertWith(key []A, value V, replace func(old *V, value V)) {
	if len(m.nodes) == 0 {
		m.insertEdge(nil, key, value)
		m.size++
		return
	}

	m.search(m.root(), key,
		func(n *node[A, V]) {
			if n.hasValue {
				replace(&n.value, value)
			} else {
				n.setValue(value)
				m.size++
			}
		},

		func(n *node[A, V], keyAt int) {
			m.insertEdge(n, key[keyAt:], value)
			m.size++
		},

		func(n *node[A, V], labelAt int) {
			n.split(m.newEdge(1), labelAt)
			n.setValue(value)
			m.size++
		},

		func(n *node[A, V], labelAt, keyAt int) {
			n.split(m.newEdge(2), labelAt)
			m.insertEdge(n, key[keyAt:], value)
			m.size++
		},

		nil,
	)
}

// Insert stores value at key, overwriting any previous value.
func (m *Map[A, V]) Insert(key []A, value V) {
	m.InsertWith(key, value, func(old *V, value V) { *old = value })
}

// Get returns a pointer to the value at key. The pointer stays valid
// across any number of later insertions; a later Insert at the same
// key updates the pointed-to value in place.
func (m *Map[A, V]) Get(key []A) (*V, bool) {
	if len(m.nodes) == 0 {
		return nil, false
	}

	var result *V

	m.search(m.root(), key,
		func(n *node[A, V]) {
			if n.hasValue {
				result = &n.value
			}
		},
		nil, nil, nil, nil,
	)

	return result, result != nil
}

// Contains reports whether key holds a value.
func (m *Map[A, V]) Contains(key []A) bool {
	_, ok := m.Get(key)
	return ok
}

// At is Get with a hard failure: absent keys yield ErrOutOfRange.
func (m *Map[A, V]) At(key []A) (*V, error) {
	v, ok := m.Get(key)
	if !ok {
		return nil, ErrOutOfRange
	}
	return v, nil
}

// Find returns an iterator positioned at key, or the end iterator when
// the key holds no value.
func (m *Map[A, V]) Find(key []A) *Iterator[A, V] {
	if len(m.nodes) == 0 {
		return &Iterator[A, V]{}
	}

	cur := &cursor[A, V]{root: m.root()}
	found := false

	m.search(m.root(), key,
		func(n *node[A, V]) { found = n.hasValue },
		nil, nil, nil,
		func(n *node[A, V], slot, _ int) { cur.push(n, slot) },
	)

	if !found {
		return &Iterator[A, V]{}
	}

	return &Iterator[A, V]{impl: cur}
}

// findPrefix descends from start. When the key is fully consumed, the
// returned iterator is rooted at the reached node and enumerates every
// key the query is a prefix of. basePrefix receives the query atoms
// strictly before the reached node's own label, so Key reconstruction
// never counts a label twice. onExact fires when the query itself
// holds a value.
func (m *Map[A, V]) findPrefix(start *node[A, V], key []A, onExact func()) *Iterator[A, V] {
	var reached *node[A, V]
	prefixEnd := 0

	m.search(start, key,
		func(n *node[A, V]) {
			if n.hasValue && onExact != nil {
				onExact()
			}
			reached = n
		},

		nil,

		func(n *node[A, V], _ int) { reached = n },

		nil,

		func(_ *node[A, V], _, keyAt int) { prefixEnd = keyAt },
	)

	if reached == nil {
		return &Iterator[A, V]{}
	}

	it := &Iterator[A, V]{impl: &cursor[A, V]{
		root:       reached,
		basePrefix: append([]A(nil), key[:prefixEnd]...),
	}}
	it.normalize()

	return it
}

// FindPrefix returns an iterator over every key that key is a prefix
// of, or the end iterator when nothing matches.
func (m *Map[A, V]) FindPrefix(key []A) *Iterator[A, V] {
	return m.FindPrefixFunc(key, nil)
}

// FindPrefixFunc is FindPrefix with a callback fired when the query is
// itself a present key.
func (m *Map[A, V]) FindPrefixFunc(key []A, onExact func()) *Iterator[A, V] {
	if len(m.nodes) == 0 {
		return &Iterator[A, V]{}
	}
	return m.findPrefix(m.root(), key, onExact)
}

// FindPrefixMatch is FindPrefix writing the exact-match outcome
// through exact. The flag is always written: false unless the query is
// a present key.
func (m *Map[A, V]) FindPrefixMatch(key []A, exact *bool) *Iterator[A, V] {
	*exact = false
	return m.FindPrefixFunc(key, func() { *exact = true })
}

// FindPrefixFrom is FindPrefixFunc rooted at base's current node
// instead of the trie root.
func (m *Map[A, V]) FindPrefixFrom(base *Iterator[A, V], key []A, onExact func()) *Iterator[A, V] {
	if !base.Valid() {
		return &Iterator[A, V]{}
	}
	return m.findPrefix(base.impl.current(), key, onExact)
}

// Begin returns an iterator on the first value-bearing node, or the
// end iterator for an empty trie.
func (m *Map[A, V]) Begin() *Iterator[A, V] {
	if len(m.nodes) == 0 {
		return &Iterator[A, V]{}
	}

	it := &Iterator[A, V]{impl: &cursor[A, V]{root: m.root()}}
	it.normalize()

	return it
}

// End returns the end iterator.
func (m *Map[A, V]) End() *Iterator[A, V] { return &Iterator[A, V]{} }

// edgeCount is the total node count, root included. Exposed for tests
// and debug output.
func (m *Map[A, V]) edgeCount() int { return len(m.nodes) }

// chunkCount is the number of arena buffers backing the labels.
func (m *Map[A, V]) chunkCount() int { return len(m.arena.chunks) }
