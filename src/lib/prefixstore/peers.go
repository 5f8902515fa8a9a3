package prefixstore

import (
	"sync"

	"github.com/kephir4eg/trie/src/lib/trieapi"
)

type Peers struct {
	trieapi.Peerage
	sync.Mutex
}

func NewPeers() *Peers {
	p := trieapi.Peerage{Peers: []string{}}
	return &Peers{Peerage: p}
}

func (r *Peers) GetPeers() []string {
	r.Lock()
	defer r.Unlock()
	retval := []string{}
	for _, e := range r.Peers {
		retval = append(retval, e)
	}
	return retval
}

func (r *Peers) SetPeers(peers []string) {
	r.Lock()
	defer r.Unlock()
	r.Peers = append([]string{}, peers...)
}
