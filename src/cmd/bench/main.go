package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"github.com/kephir4eg/trie/src/lib/log"
	"github.com/kephir4eg/trie/src/lib/trie"
)

// Generator composes dotted multi-word keys out of the word list.
// Determinism and uniformness are not really important.
type Generator struct {
	seqsz   int
	rnd     *rand.Rand
	wordset []string
}

func (g *Generator) Next() string {
	var b strings.Builder

	for i := g.seqsz; i > 0; i-- {
		b.WriteString(g.wordset[g.rnd.Intn(len(g.wordset))])
		b.WriteByte('.')
	}
	b.WriteString(g.wordset[g.rnd.Intn(len(g.wordset))])

	return b.String()
}

func readWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			words = append(words, line)
		}
	}
	return words, scanner.Err()
}

// inserter and lookup level the playing field between the tries and
// the builtin map.
type container struct {
	name   string
	insert func(key string, x int)
	lookup func(key string) bool
}

func trieContainer(name string, m *trie.Map[byte, int]) container {
	return container{
		name:   name,
		insert: func(key string, x int) { m.Insert([]byte(key), x) },
		lookup: func(key string) bool { _, ok := m.Get([]byte(key)); return ok },
	}
}

func mapContainer() container {
	m := map[string]int{}
	return container{
		name: "stdmap",
		insert: func(key string, x int) {
			// Explicitly copy the string to be fair.
			m[string(append([]byte(nil), key...))] = x
		},
		lookup: func(key string) bool { _, ok := m[key]; return ok },
	}
}

func psec(trial string, dt time.Duration, itemCount int) {
	fmt.Printf("%s.avg\t%d\n", trial, dt.Nanoseconds()/int64(itemCount))
}

func runTest(c container, generator *Generator, itemCount int) {
	words := make([]string, 0, itemCount*20)
	for i := 0; i < itemCount*20; i++ {
		words = append(words, generator.Next())
	}

	var length uint64
	for _, w := range words {
		length += uint64(len(w))
	}
	fmt.Printf("Average length : ~%d\n", length/uint64(len(words)))

	for total := 20; total > 0; total-- {
		t0 := time.Now()
		for i := 0; i < itemCount; i++ {
			c.insert(words[(i+total*itemCount)%len(words)], i)
		}
		psec(c.name+".insert", time.Since(t0), itemCount)

		found := 0
		t0 = time.Now()
		for i := 0; i < itemCount*10; i++ {
			if c.lookup(words[(i+total*itemCount)%len(words)]) {
				found++
			}
		}
		psec(c.name+".lookup", time.Since(t0), itemCount*10)

		if found == 0 {
			fmt.Println("Lost everything")
		}
	}

	// Mostly-miss lookups against fresh keys.
	misses := make([]string, 0, itemCount*3)
	for i := 0; i < itemCount*3; i++ {
		misses = append(misses, generator.Next())
	}

	found := 0
	t0 := time.Now()
	for i := 0; i < itemCount*10; i++ {
		if c.lookup(misses[i%len(misses)]) {
			found++
		}
	}
	psec(c.name+".random-lookup", time.Since(t0), itemCount*10)
	fmt.Printf("Positive found : %d\n", found)
}

func main() {
	parser := argparse.NewParser("trie bench", "word-list benchmark for the trie")

	wordfile := parser.String("w", "words", &argparse.Options{Required: false, Help: "newline-delimited word list", Default: "/usr/share/dict/words"})
	seqsz := parser.Int("s", "seqsz", &argparse.Options{Required: false, Help: "extra words per key", Default: 2})
	items := parser.Int("n", "items", &argparse.Options{Required: false, Help: "insertions per round", Default: 10000})
	seed := parser.Int("r", "seed", &argparse.Options{Required: false, Help: "generator seed", Default: 2345})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		return
	}

	words, err := readWords(*wordfile)
	if err != nil {
		log.Fatal("unable to read word list", zap.String("filename", *wordfile), zap.Error(err))
	}
	log.Info("benchmark starting", zap.Int("words", len(words)),
		zap.Int("items per round", *items), zap.Int("seqsz", *seqsz))

	containers := []container{
		trieContainer("trie-chunked", trie.New[byte, int]()),
		trieContainer("trie-per-label", trie.NewChunked[byte, int](0)),
		mapContainer(),
	}

	for _, c := range containers {
		generator := &Generator{
			seqsz:   *seqsz,
			rnd:     rand.New(rand.NewSource(int64(*seed))),
			wordset: words,
		}
		runTest(c, generator, *items)
	}
}
