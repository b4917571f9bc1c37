package oracle

// Engine ties the trust store, the capability registry and the ingestion
// protocol together. All mutating calls are serialized by a single mutex;
// reads go straight to the store.

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/AlexxNica/dnssec-oracle/rr"
)

type Engine struct {
	Store    *TrustStore
	Registry *Registry
	NotifyQ  chan UpdateNotification

	mu          sync.Mutex
	nowFn       func() time.Time
	subscribers []chan UpdateNotification
}

// NewEngine builds an engine around store and registry and seeds the trust
// anchor: wire-format DS records for the root, stored unvalidated with
// inception zero and the maximum expiration. When the store was reloaded
// from disk and already holds an anchor, the seed is left alone.
func NewEngine(store *TrustStore, registry *Registry, anchor []byte) (*Engine, error) {
	e := &Engine{
		Store:    store,
		Registry: registry,
		NotifyQ:  make(chan UpdateNotification, 100),
		nowFn:    time.Now,
	}

	if store.lookup(rr.RootName, rr.TypeDS, rr.ClassINET) == nil {
		err := store.Put(rr.RootName, rr.TypeDS, rr.ClassINET, &RRset{
			Name:       ".",
			Type:       rr.TypeDS,
			Class:      rr.ClassINET,
			Inception:  0,
			Expiration: math.MaxUint32,
			InsertedAt: 0,
			Wire:       anchor,
		})
		if err != nil {
			return nil, err
		}
		if Globals.Verbose {
			log.Printf("Engine: seeded root trust anchor (%d octets)", len(anchor))
		}
	}
	return e, nil
}

// now reads the clock once; each call treats that instant as the single
// temporal truth.
func (e *Engine) now() uint32 {
	return uint32(e.nowFn().Unix())
}

// GetRRset returns the stored set for (class, type, name), or nil when none
// exists or the stored one has expired.
func (e *Engine) GetRRset(class, rrtype uint16, name rr.Name) *RRset {
	return e.Store.Get(name, rrtype, class, e.now())
}

// RegisterAlgorithm installs a verifier for an algorithm id. Privileged;
// the API layer gates access.
func (e *Engine) RegisterAlgorithm(id uint8, alg Algorithm) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Registry.SetAlgorithm(id, alg)
	e.notify(UpdateNotification{Kind: "algorithm", AlgId: id})
}

// RegisterDigest installs a digest for a digest-type id. Privileged.
func (e *Engine) RegisterDigest(id uint8, d Digest) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Registry.SetDigest(id, d)
	e.notify(UpdateNotification{Kind: "digest", AlgId: id})
}
