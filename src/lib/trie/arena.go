package trie

// chunk is one append-only buffer of label atoms. Once written, atoms
// are never moved or rewritten; labels are subslices into chunk.data.
type chunk[A Atom] struct {
	data []A
}

// arena owns the chunks holding every edge label in a trie. min is the
// reservation unit for fresh chunks; min == 0 gives every label its own
// chunk.
type arena[A Atom] struct {
	min    int
	chunks []*chunk[A]
}

func (ar *arena[A]) last() *chunk[A] {
	if len(ar.chunks) == 0 {
		return nil
	}
	return ar.chunks[len(ar.chunks)-1]
}

// place appends key to a chunk and returns that chunk together with the
// stable slice covering the appended atoms. hint is the chunk holding
// the parent's label; when the key fits the reservation there, siblings
// and ancestors end up in the same buffer.
//
// Appends never exceed a chunk's reserved capacity, so slices returned
// earlier are never invalidated.
func (ar *arena[A]) place(key []A, hint *chunk[A]) (*chunk[A], []A) {
	target := hint

	if target == nil || len(target.data)+len(key) > ar.min {
		target = ar.last()

		if ar.min == 0 || target == nil || len(target.data)+len(key) > ar.min {
			reserve := ar.min
			if len(key) > reserve {
				reserve = len(key)
			}
			target = &chunk[A]{data: make([]A, 0, reserve)}
			ar.chunks = append(ar.chunks, target)
		}
	}

	begin := len(target.data)
	target.data = append(target.data, key...)
	end := len(target.data)

	return target, target.data[begin:end:end]
}
