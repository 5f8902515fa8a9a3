package trieapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/kephir4eg/trie/src/lib/log"
)

// Record is one key/value write travelling between client, node, and
// peers.
type Record struct {
	// Uuid should be randomly generated for each record; nodes use it
	// to drop writes they have already seen.
	Uuid uuid.UUID `json:"uuid"`
	// Timestamp should be the time the record is synthesized.
	Timestamp int64  `json:"unixtime"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// KeyResponse answers a single-key lookup.
type KeyResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Found bool   `json:"found"`
}

// Item is one key/value pair in a prefix enumeration.
type Item struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PrefixResponse answers a prefix enumeration.
type PrefixResponse struct {
	Prefix string `json:"prefix"`
	Exact  bool   `json:"exact"`
	Items  []Item `json:"items"`
}

type Statistics struct {
	MempoolSize int    `json:"mempool_size"`
	StoreSize   int    `json:"store_size"`
	Digest      string `json:"digest"`
}

type Peerage struct {
	Peers []string `json:"peers"`
}

const http_put = "PUT"

func httpPut(addr string, text []byte) (*http.Response, error) {
	return httpMethod(http_put, addr, text)
}

func httpMethod(method, addr string, text []byte) (*http.Response, error) {
	buf := bytes.NewBuffer(text)
	client := &http.Client{}
	req, err := http.NewRequest(method, addr, buf)
	if err != nil {
		log.Warn("http error", zap.Error(err), zap.String("host", addr))
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Warn("http error", zap.Error(err), zap.String("host", addr))
		return nil, err
	}

	return resp, nil
}

// PutRecord writes one record to the node at addr.
func PutRecord(r *Record, addr string) error {
	text, err := json.Marshal(r)
	if err != nil {
		return err
	}
	formulatedAddress := fmt.Sprintf("%v/api/record", addr)

	resp, err := httpPut(formulatedAddress, text)
	if err != nil {
		log.Printf("error writing peer %v", err)
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("bad request")
	case http.StatusNotAcceptable:
		return fmt.Errorf("already seen this record")
	case http.StatusInternalServerError:
		return fmt.Errorf("something went sideways")
	case http.StatusCreated:
	case http.StatusOK:
	}

	return nil
}

// GetKey looks one key up on the node at addr.
func GetKey(key, addr string) (*KeyResponse, error) {
	formulatedAddress := fmt.Sprintf("%v/api/key?k=%v", addr, url.QueryEscape(key))

	s := &KeyResponse{}
	if err := getJson(formulatedAddress, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetPrefix enumerates every key under prefix on the node at addr.
func GetPrefix(prefix, addr string) (*PrefixResponse, error) {
	formulatedAddress := fmt.Sprintf("%v/api/prefix?p=%v", addr, url.QueryEscape(prefix))

	s := &PrefixResponse{}
	if err := getJson(formulatedAddress, s); err != nil {
		return nil, err
	}
	return s, nil
}

func GetStatistics(addr string) (*Statistics, error) {
	formulatedAddress := fmt.Sprintf("%v/api/statistics", addr)

	s := &Statistics{}
	if err := getJson(formulatedAddress, s); err != nil {
		return nil, err
	}
	return s, nil
}

func PutPeers(data *Peerage, addr string) error {
	text, err := json.Marshal(data)
	if err != nil {
		return err
	}
	formulatedAddress := fmt.Sprintf("%v/api/peers", addr)
	resp, err := httpPut(formulatedAddress, text)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("bad request made, erroring")
	case http.StatusOK:
	}
	return nil
}

func GetPeers(addr string) (*Peerage, error) {
	formulatedAddress := fmt.Sprintf("%v/api/peers", addr)

	s := &Peerage{}
	if err := getJson(formulatedAddress, s); err != nil {
		return nil, err
	}
	return s, nil
}

func getJson(formulatedAddress string, out any) error {
	resp, err := http.Get(formulatedAddress)
	if err != nil {
		log.Warn("http error", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("bad request made, erroring")
	case http.StatusNotFound:
		return fmt.Errorf("no such resource")
	case http.StatusOK:
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(out); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return err
	}
	return nil
}
