package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/akamensky/argparse"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kephir4eg/trie/src/lib/log"
	"github.com/kephir4eg/trie/src/lib/trieapi"
)

func MustMarshal(v any) []byte {
	b := new(bytes.Buffer)
	encoder := json.NewEncoder(b)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(v)
	if err != nil {
		panic(err)
	}

	return b.Bytes()
}

func Moan(complaint error) {
	log.Fatal("", zap.Error(complaint))
	os.Exit(1)
}

func main() {
	parser := argparse.NewParser("trie client", "trie store client code")

	endpoint := parser.String("e", "endpoint", &argparse.Options{Required: true, Help: "endpoint to address", Default: "http://localhost:1337"})

	putCmd := parser.NewCommand("put", "put one key")
	putKey := putCmd.String("k", "key", &argparse.Options{Required: true, Help: "key to store"})
	putValue := putCmd.String("v", "value", &argparse.Options{Required: false, Help: "value to store; if not present, reads from stdin"})

	getCmd := parser.NewCommand("get", "get one key")
	getKey := getCmd.String("k", "key", &argparse.Options{Required: true, Help: "key to look up"})

	prefixCmd := parser.NewCommand("prefix", "enumerate keys under a prefix")
	prefixKey := prefixCmd.String("k", "prefix", &argparse.Options{Required: true, Help: "prefix to enumerate"})

	statsCmd := parser.NewCommand("stats", "get node statistics")

	peerPut := parser.NewCommand("peer-put", "puts the peer list")
	peerFile := peerPut.String("f", "file", &argparse.Options{Required: true, Help: "list of the peers"})
	peerGet := parser.NewCommand("peer-get", "gets the peer list")

	// Parse input
	err := parser.Parse(os.Args)
	if err != nil {
		// In case of error print error and print usage
		// This can also be done by passing -h or --help flags
		fmt.Print(parser.Usage(err))
		return
	}

	if putCmd.Happened() {
		value := *putValue
		if value == "" {
			sin, err := io.ReadAll(os.Stdin)
			if err != nil {
				Moan(err)
			}
			value = string(sin)
		}
		record := &trieapi.Record{
			Uuid:      uuid.New(),
			Timestamp: time.Now().Unix(),
			Key:       *putKey,
			Value:     value,
		}
		if err := trieapi.PutRecord(record, *endpoint); err != nil {
			Moan(err)
		}
	} else if getCmd.Happened() {
		response, err := trieapi.GetKey(*getKey, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(response)))
	} else if prefixCmd.Happened() {
		response, err := trieapi.GetPrefix(*prefixKey, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(response)))
	} else if statsCmd.Happened() {
		stats, err := trieapi.GetStatistics(*endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(stats)))
	} else if peerPut.Happened() {
		filedata, err := os.ReadFile(*peerFile)
		if err != nil {
			Moan(err)
		}
		peers := &trieapi.Peerage{}
		if err := json.Unmarshal(filedata, peers); err != nil {
			Moan(err)
		}
		if err := trieapi.PutPeers(peers, *endpoint); err != nil {
			Moan(err)
		}
	} else if peerGet.Happened() {
		peers, err := trieapi.GetPeers(*endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(peers)))
	} else {
		Moan(fmt.Errorf("can't happen"))
	}
}
