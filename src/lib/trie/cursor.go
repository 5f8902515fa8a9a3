package trie

import (
	"github.com/kephir4eg/trie/src/lib"
)

// frame is one level of a depth-first descent: the parent node and the
// slot of the child the cursor is standing on.
type frame[A Atom, V any] struct {
	parent *node[A, V]
	slot   int
}

// cursor is a stateful position in the trie: the node the walk started
// from, a stack of child-slot frames, and the atoms consumed before
// the walk's root (set by prefix lookups). root == nil marks the end
// position.
type cursor[A Atom, V any] struct {
	basePrefix []A
	root       *node[A, V]
	stack      []frame[A, V]
}

func (c *cursor[A, V]) current() *node[A, V] {
	if len(c.stack) == 0 {
		return c.root
	}
	f := c.stack[len(c.stack)-1]
	return f.parent.children[f.slot]
}

func (c *cursor[A, V]) push(parent *node[A, V], slot int) {
	c.stack = append(c.stack, frame[A, V]{parent: parent, slot: slot})
}

// stepDown descends to the current node's first occupied child slot.
func (c *cursor[A, V]) stepDown() bool {
	x := c.current()

	for slot, child := range x.children {
		if child != nil {
			c.push(x, slot)
			return true
		}
	}

	return false
}

// stepFore advances the top frame to the next occupied slot of its
// parent. On failure the frame is left exhausted for stepUp to pop.
func (c *cursor[A, V]) stepFore() bool {
	if len(c.stack) == 0 {
		return false
	}

	f := &c.stack[len(c.stack)-1]

	for f.slot++; f.slot < len(f.parent.children); f.slot++ {
		if f.parent.children[f.slot] != nil {
			return true
		}
	}

	return false
}

func (c *cursor[A, V]) stepUp() bool {
	c.stack = c.stack[:len(c.stack)-1]
	return c.stepFore()
}

// next moves to the next node in depth-first order, or to the end
// position when the walk is exhausted.
func (c *cursor[A, V]) next() {
	if c.stepDown() {
		return
	}
	if c.stepFore() {
		return
	}

	for len(c.stack) > 0 {
		if c.stepUp() {
			return
		}
	}

	c.root = nil
}

// nextValue runs next until a value-bearing node or the end.
func (c *cursor[A, V]) nextValue() bool {
	for {
		c.next()
		if c.root == nil {
			return false
		}
		if c.current().hasValue {
			return true
		}
	}
}

// key rebuilds the full key at the cursor: the base prefix, the walk
// root's label, then the label of each descended child.
func (c *cursor[A, V]) key() []A {
	parts := make([][]A, 0, len(c.stack)+2)
	parts = append(parts, c.basePrefix, c.root.label)

	for _, f := range c.stack {
		parts = append(parts, f.parent.children[f.slot].label)
	}

	return lib.Concat(parts...)
}

func (c *cursor[A, V]) clone() *cursor[A, V] {
	return &cursor[A, V]{
		basePrefix: lib.Clone(c.basePrefix),
		root:       c.root,
		stack:      lib.Clone(c.stack),
	}
}

// Iterator enumerates the value-bearing nodes of a Map in depth-first
// order. The zero Iterator is the end iterator. Iterators own their
// traversal stack, so assignment shares state; use Clone for an
// independent copy. Order within a node follows the physical child
// table, which is deterministic for a given insertion history but not
// a sort.
type Iterator[A Atom, V any] struct {
	impl *cursor[A, V]
}

// Valid reports whether the iterator points at a node.
func (it *Iterator[A, V]) Valid() bool {
	return it != nil && it.impl != nil && it.impl.root != nil
}

// normalize advances a freshly built iterator to the first
// value-bearing node.
func (it *Iterator[A, V]) normalize() {
	if it.Valid() && !it.impl.current().hasValue {
		it.Next()
	}
}

// Next advances to the next value-bearing node; the iterator becomes
// the end iterator when none remains.
func (it *Iterator[A, V]) Next() {
	if it.Valid() && !it.impl.nextValue() {
		it.impl = nil
	}
}

// Key reconstructs the key at the current position.
func (it *Iterator[A, V]) Key() []A { return it.impl.key() }

// Value returns a pointer to the value at the current position.
func (it *Iterator[A, V]) Value() *V { return &it.impl.current().value }

// Clone returns an independent copy of the iterator.
func (it *Iterator[A, V]) Clone() *Iterator[A, V] {
	if !it.Valid() {
		return &Iterator[A, V]{}
	}
	return &Iterator[A, V]{impl: it.impl.clone()}
}

// Equal reports whether both iterators stand on the same node; all end
// iterators are equal to each other.
func (it *Iterator[A, V]) Equal(other *Iterator[A, V]) bool {
	if !it.Valid() || !other.Valid() {
		return it.Valid() == other.Valid()
	}
	return it.impl.current() == other.impl.current()
}
