package trie

import (
	"math/rand"
	"testing"
)

func benchKeys(n int) [][]byte {
	g := rand.New(rand.NewSource(2345))
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}

	keys := make([][]byte, n)
	for i := range keys {
		key := words[g.Intn(len(words))] + "." + words[g.Intn(len(words))] + "." + words[g.Intn(len(words))]
		keys[i] = []byte(key)
	}
	return keys
}

func BenchmarkInsert(b *testing.B) {
	keys := benchKeys(1 << 12)

	b.Run("chunked", func(b *testing.B) {
		m := New[byte, int]()
		for i := 0; i < b.N; i++ {
			m.Insert(keys[i%len(keys)], i)
		}
	})

	b.Run("per-label", func(b *testing.B) {
		m := NewChunked[byte, int](0)
		for i := 0; i < b.N; i++ {
			m.Insert(keys[i%len(keys)], i)
		}
	})

	b.Run("stdmap", func(b *testing.B) {
		m := map[string]int{}
		for i := 0; i < b.N; i++ {
			m[string(keys[i%len(keys)])] = i
		}
	})
}

func BenchmarkGet(b *testing.B) {
	keys := benchKeys(1 << 12)

	m := New[byte, int]()
	for i, k := range keys {
		m.Insert(k, i)
	}

	std := map[string]int{}
	for i, k := range keys {
		std[string(k)] = i
	}

	b.Run("trie", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, ok := m.Get(keys[i%len(keys)]); !ok {
				b.Fatal("lost key")
			}
		}
	})

	b.Run("stdmap", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, ok := std[string(keys[i%len(keys)])]; !ok {
				b.Fatal("lost key")
			}
		}
	})
}
