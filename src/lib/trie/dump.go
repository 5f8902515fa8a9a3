package trie

import (
	"fmt"
	"strings"
)

// DebugString renders the node tree as label(=value){children...},
// following physical table order. A trie whose root has no children
// prints the root and stops; the walk never steps past it.
func (m *Map[A, V]) DebugString() string {
	if len(m.nodes) == 0 {
		return "[ empty ]"
	}

	var b strings.Builder
	c := &cursor[A, V]{root: m.root()}

	for {
		n := c.current()

		for _, a := range n.label {
			b.WriteRune(rune(a))
		}
		if n.hasValue {
			fmt.Fprintf(&b, "(=%v)", n.value)
		}

		if c.stepDown() {
			b.WriteByte('{')
			continue
		}

		if len(c.stack) == 0 {
			break
		}

		if c.stepFore() {
			b.WriteString("}{")
			continue
		}

		moved := false
		for len(c.stack) > 0 {
			b.WriteByte('}')
			if c.stepUp() {
				moved = true
				break
			}
		}
		if !moved {
			break
		}
		b.WriteString("}{")
	}

	return b.String()
}
