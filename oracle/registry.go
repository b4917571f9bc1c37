package oracle

// Pluggable verification capabilities. Algorithms and digests are looked up
// by their IANA-assigned ids; an unregistered id is a verification failure
// for material that needs it, never a hard error.

import (
	"fmt"
	"sort"
	"sync"
)

// Algorithm verifies a signature over data using the public key carried in
// full DNSKEY rdata (the four header octets followed by the key material).
// Implementations parse the key material themselves.
type Algorithm interface {
	Verify(keyRdata, data, signature []byte) error
}

// Digest computes a one-way hash and checks a candidate digest against it
// in one step.
type Digest interface {
	Verify(data, digest []byte) bool
}

// Registry maps algorithm and digest ids to implementations. Reads vastly
// outnumber writes, so a RWMutex over plain maps is enough; registration
// normally happens once at startup plus the occasional admin call.
type Registry struct {
	mu         sync.RWMutex
	algorithms map[uint8]Algorithm
	digests    map[uint8]Digest
}

func NewRegistry() *Registry {
	return &Registry{
		algorithms: map[uint8]Algorithm{},
		digests:    map[uint8]Digest{},
	}
}

// SetAlgorithm installs or replaces the verifier for an algorithm id.
func (r *Registry) SetAlgorithm(id uint8, alg Algorithm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.algorithms[id] = alg
}

// SetDigest installs or replaces the digest for a digest-type id.
func (r *Registry) SetDigest(id uint8, d Digest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digests[id] = d
}

func (r *Registry) Algorithm(id uint8) (Algorithm, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	alg, ok := r.algorithms[id]
	return alg, ok
}

func (r *Registry) Digest(id uint8) (Digest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.digests[id]
	return d, ok
}

// AlgorithmIds returns the registered algorithm ids in ascending order.
func (r *Registry) AlgorithmIds() []uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uint8, 0, len(r.algorithms))
	for id := range r.algorithms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DigestIds returns the registered digest ids in ascending order.
func (r *Registry) DigestIds() []uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uint8, 0, len(r.digests))
	for id := range r.digests {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DefaultRegistry returns a registry with the standard DNSSEC algorithms
// and digest types installed.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for id, alg := range BuiltinAlgorithms {
		r.SetAlgorithm(id, alg)
	}
	for id, d := range BuiltinDigests {
		r.SetDigest(id, d)
	}
	return r
}

// LookupBuiltinAlgorithm resolves a built-in algorithm by mnemonic, for the
// admin API.
func LookupBuiltinAlgorithm(name string) (uint8, Algorithm, error) {
	for id, alg := range BuiltinAlgorithms {
		if AlgorithmNames[id] == name {
			return id, alg, nil
		}
	}
	return 0, nil, fmt.Errorf("unknown built-in algorithm %q", name)
}

// LookupBuiltinDigest resolves a built-in digest by mnemonic.
func LookupBuiltinDigest(name string) (uint8, Digest, error) {
	for id, d := range BuiltinDigests {
		if DigestNames[id] == name {
			return id, d, nil
		}
	}
	return 0, nil, fmt.Errorf("unknown built-in digest %q", name)
}
