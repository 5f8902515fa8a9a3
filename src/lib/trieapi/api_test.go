package trieapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestPutRecord(t *testing.T) {
	var got Record

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" || r.URL.Path != "/api/record" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	record := &Record{Uuid: uuid.New(), Timestamp: 1234, Key: "k", Value: "v"}
	if err := PutRecord(record, srv.URL); err != nil {
		t.Fatalf("PutRecord() error = %v", err)
	}

	if got.Key != "k" || got.Value != "v" || got.Uuid != record.Uuid {
		t.Errorf("server saw %+v", got)
	}
}

func TestPutRecordRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
	}))
	defer srv.Close()

	record := &Record{Uuid: uuid.New(), Key: "k"}
	if err := PutRecord(record, srv.URL); err == nil {
		t.Errorf("PutRecord() did not surface the rejection")
	}
}

func TestGetKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/key" || r.URL.Query().Get("k") != "a b" {
			t.Errorf("unexpected request: %s %v", r.URL.Path, r.URL.Query())
		}
		json.NewEncoder(w).Encode(&KeyResponse{Key: "a b", Value: "v", Found: true})
	}))
	defer srv.Close()

	resp, err := GetKey("a b", srv.URL)
	if err != nil {
		t.Fatalf("GetKey() error = %v", err)
	}
	if !resp.Found || resp.Value != "v" {
		t.Errorf("GetKey() = %+v", resp)
	}
}
