package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/akamensky/argparse"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"go.uber.org/zap"

	"github.com/kephir4eg/trie/src/lib/log"
	"github.com/kephir4eg/trie/src/lib/prefixstore"
	"github.com/kephir4eg/trie/src/lib/trie"
	"github.com/kephir4eg/trie/src/lib/trieapi"
)

var STORE *prefixstore.Store
var GLOBAL_PEERS *prefixstore.Peers
var NODE_MEMPOOL *prefixstore.Fifo[*trieapi.Record]

// InternalTrie guards a counting set for shared use.
type InternalTrie struct {
	*trie.Set[byte]
	sync.RWMutex
}

func (t *InternalTrie) Put(a []byte) {
	t.Lock()
	defer t.Unlock()
	t.Set.Insert(a)
}

func (t *InternalTrie) Exist(a []byte) bool {
	t.RLock()
	defer t.RUnlock()
	return t.Set.Contains(a)
}

// SEEN_RECORDS remembers record uuids so replicated writes do not loop
// between peers forever.
var SEEN_RECORDS *InternalTrie

const DURANCE = time.Second * 5

// Allow for spikes
const MAX_LOCAL_POOL = 1000

func hasSeen(r *trieapi.Record) bool {
	bin, _ := r.Uuid.MarshalBinary()

	if SEEN_RECORDS.Exist(bin) {
		return true
	}
	SEEN_RECORDS.Put(bin)
	return false
}

func enterRecord(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)

	record := &trieapi.Record{}
	if err := decoder.Decode(record); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("query parse fail"))
		return
	}

	if record.Key == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("empty key!"))
		return
	}

	if hasSeen(record) {
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = w.Write([]byte("already seen this record"))
		return
	}

	NODE_MEMPOOL.Lock()
	err := NODE_MEMPOOL.Put(record)
	NODE_MEMPOOL.Unlock()
	if err != nil {
		log.Error("Failure storing the record in the FIFO", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	go replicateToPeers(record)

	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("ok"))
}

func replicateToPeers(record *trieapi.Record) {
	for _, p := range GLOBAL_PEERS.GetPeers() {
		if _, err := url.Parse(p); err != nil {
			log.Info("unable to send to peer, unparsable url", zap.Error(err))
			continue
		}
		log.Info("writing record to peer", zap.String("host", p), zap.String("key", record.Key))
		if err := trieapi.PutRecord(record, p); err != nil {
			log.Warn("unable to put record to peer", zap.String("host", p))
		}
	}
}

// processRecords drains the mempool into the store, either every
// DURANCE or when the pool runs hot.
func processRecords() {
	// time before we startup...
	time.Sleep(time.Second * 1)

	nextDump := time.Now().Add(DURANCE)
	log.Info("record processor...", zap.Duration("time between flushes", DURANCE),
		zap.Int("max local pool size", MAX_LOCAL_POOL))
	// never ending loop

	for {
		if time.Now().After(nextDump) || NODE_MEMPOOL.Length() >= MAX_LOCAL_POOL {
			NODE_MEMPOOL.Lock()
			drained := 0
			for {
				res, ok := NODE_MEMPOOL.Pop()
				if !ok {
					break
				}
				STORE.Put(res.Key, res.Value)
				drained++
			}
			NODE_MEMPOOL.Unlock()

			if drained > 0 {
				log.Info("flushed mempool", zap.Int("records", drained),
					zap.Int("store size", STORE.Size()))
			}

			nextDump = time.Now().Add(DURANCE)
		}

		time.Sleep(time.Millisecond * 250)
	}
}

func getKey(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("k")

	value, found := STORE.Get(key)
	response := &trieapi.KeyResponse{Key: key, Value: value, Found: found}

	bytes, err := json.Marshal(response)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(bytes)
}

func getPrefix(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("p")

	response := &trieapi.PrefixResponse{
		Prefix: prefix,
		Exact:  STORE.Contains(prefix),
		Items:  []trieapi.Item{},
	}
	for _, e := range STORE.Keys(prefix) {
		response.Items = append(response.Items, trieapi.Item{Key: e.Key, Value: e.Value})
	}

	bytes, err := json.Marshal(response)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(bytes)
}

func statistics(w http.ResponseWriter, r *http.Request) {
	bytes, err := json.Marshal(&trieapi.Statistics{
		MempoolSize: NODE_MEMPOOL.Length(),
		StoreSize:   STORE.Size(),
		Digest:      STORE.Digest(),
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "failed to gather stats")
		return
	}

	_, _ = w.Write(bytes)
}

func digest(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(STORE.Digest()))
}

func putPeers(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)

	peers := trieapi.Peerage{}
	if err := decoder.Decode(&peers); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("couldn't decode"))
		return
	}

	GLOBAL_PEERS.SetPeers(peers.Peers)
	_, _ = w.Write([]byte("ok"))
}

func getPeers(w http.ResponseWriter, r *http.Request) {
	bytes, err := json.Marshal(&trieapi.Peerage{Peers: GLOBAL_PEERS.GetPeers()})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(bytes)
}

func fastPeerage(peers *string) {
	log.Info("Peers file provided...reading", zap.String("filename", *peers))
	peerContents, err := os.ReadFile(*peers)
	if err != nil {
		log.Error("Unable to read peer file", zap.String("filename", *peers), zap.Error(err))
		return
	}
	peersStruct := trieapi.Peerage{}
	if err := json.Unmarshal(peerContents, &peersStruct); err != nil {
		log.Error("unable to decode peer file", zap.String("filename", *peers), zap.Error(err))
		return
	}

	GLOBAL_PEERS.SetPeers(peersStruct.Peers)
}

//////////////////////////////////////////////////////////////

func init() {
	STORE = prefixstore.NewStore()
	GLOBAL_PEERS = prefixstore.NewPeers()
	NODE_MEMPOOL = prefixstore.NewFifo[*trieapi.Record]()
	SEEN_RECORDS = &InternalTrie{Set: trie.NewSet[byte]()}
}

func Default(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "ok")
}

func Index(w http.ResponseWriter, r *http.Request) {
	index := `<html>
   <head>
      <script type = "text/javascript">
			function setDiv(data) {
				console.log(data);
				let pp = JSON.stringify(data["items"],null,8);
				document.getElementById("keys").innerHTML=pp;
			}
			function viewKeys() {
				let p = document.getElementById("prefix").value;
				fetch('/api/prefix?p=' + encodeURIComponent(p))
				.then(response => response.json())
				.then(setDiv);
			}
      </script>
   </head>

   <body>
<h1> trie store</h1>
      <input type = "text" id = "prefix" />
      <input type = "button" onclick = "viewKeys()" value = "ViewPrefix" />
		<pre><div  id="keys"></div></pre>

<hr>

   </body>
</html>`
	fmt.Fprintf(w, index)

	w.WriteHeader(http.StatusOK)
}

func Wut(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "your content is in another url")
}

func loggerHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

//////////////////////////////////////////////////////////////

func main() {
	parser := argparse.NewParser("print", "runs trie store node")

	host := parser.String("i", "ip", &argparse.Options{Required: false, Help: "ip to bind to", Default: "0.0.0.0"})
	port := parser.String("p", "port", &argparse.Options{Required: false, Help: "port to bind to", Default: "1337"})
	peers := parser.String("q", "peers", &argparse.Options{Required: false, Help: "file containing name of peers; if provided, replicates records to them"})
	// Parse input
	err := parser.Parse(os.Args)
	if err != nil {
		// In case of error print error and print usage
		// This can also be done by passing -h or --help flags
		fmt.Print(parser.Usage(err))
		return
	}

	log.Printf("Good morning, Bilbo Baggins. I am listening on %s:%s", *host, *port)

	r := mux.NewRouter()
	errorChain := alice.New(loggerHandler)
	r.HandleFunc("/", Index)
	r.HandleFunc("/healthz", Default)

	r.HandleFunc("/api/record", enterRecord).Methods("PUT")
	r.HandleFunc("/api/key", getKey).Methods("GET")
	r.HandleFunc("/api/prefix", getPrefix).Methods("GET")
	r.HandleFunc("/api/statistics", statistics).Methods("GET")
	r.HandleFunc("/api/digest", digest).Methods("GET")

	r.HandleFunc("/api/peers", putPeers).Methods("PUT")
	r.HandleFunc("/api/peers", getPeers).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(Wut)

	if *peers != "" {
		fastPeerage(peers)
	}

	go processRecords()

	srv := &http.Server{
		Handler:      errorChain.Then(r),
		Addr:         fmt.Sprintf("%s:%s", *host, *port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Fatal("server failure", zap.Error(srv.ListenAndServe()))
}
