package oracle

// TrustStore holds the verified record sets. The in-memory index is the
// source of truth for reads; when a database is attached, every commit is
// written through so the store survives restarts.
//
// Identity is (canonical owner name, type, class). Expiry is lazy: nothing
// is ever deleted on a timer, an expired set simply stops being visible to
// Get while its bytes remain in place for the replay check.

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/AlexxNica/dnssec-oracle/rr"
)

type TrustStore struct {
	sets cmap.ConcurrentMap[string, *RRset]
	db   *sql.DB
}

// NewTrustStore returns an empty store. db may be nil for a memory-only
// store (tests, ephemeral runs).
func NewTrustStore(db *sql.DB) *TrustStore {
	return &TrustStore{
		sets: cmap.New[*RRset](),
		db:   db,
	}
}

// storeKey builds the index key from the canonical owner name bytes plus
// type and class. Hex keeps the key printable for logs and the database.
func storeKey(name rr.Name, rrtype, class uint16) string {
	return fmt.Sprintf("%s::%d::%d", hex.EncodeToString(name.Canonical()), rrtype, class)
}

// Get returns the stored set for the identity, or nil if none is stored or
// the stored one has expired as of now.
func (ts *TrustStore) Get(name rr.Name, rrtype, class uint16, now uint32) *RRset {
	set, ok := ts.sets.Get(storeKey(name, rrtype, class))
	if !ok {
		return nil
	}
	// Expiration at or before now counts as expired.
	if now >= set.Expiration {
		return nil
	}
	return set
}

// lookup returns the stored set regardless of expiry. The replay check is
// stated over stored bytes, live or not, so it must not go through Get.
func (ts *TrustStore) lookup(name rr.Name, rrtype, class uint16) *RRset {
	set, ok := ts.sets.Get(storeKey(name, rrtype, class))
	if !ok {
		return nil
	}
	return set
}

// Put commits a verified set, replacing whatever the identity held before.
func (ts *TrustStore) Put(name rr.Name, rrtype, class uint16, set *RRset) error {
	key := storeKey(name, rrtype, class)
	ts.sets.Set(key, set)

	if ts.db == nil {
		return nil
	}
	const q = `
INSERT INTO RRsetStore (owner, rrtype, class, name, inception, expiration, inserted, wire)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (owner, rrtype, class) DO UPDATE
SET name=excluded.name, inception=excluded.inception,
    expiration=excluded.expiration, inserted=excluded.inserted, wire=excluded.wire`
	_, err := ts.db.Exec(q, hex.EncodeToString(name.Canonical()), rrtype, class,
		set.Name, set.Inception, set.Expiration, set.InsertedAt, set.Wire)
	if err != nil {
		return fmt.Errorf("failed to persist rrset %s: %v", set.Name, err)
	}
	return nil
}

// Load reads all persisted sets back into the index. Called once at boot.
func (ts *TrustStore) Load() (int, error) {
	if ts.db == nil {
		return 0, nil
	}
	rows, err := ts.db.Query(`SELECT owner, rrtype, class, name, inception, expiration, inserted, wire FROM RRsetStore`)
	if err != nil {
		return 0, fmt.Errorf("failed to load rrset store: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var owner, pname string
		var rrtype, class uint16
		var inception, expiration, inserted uint32
		var wire []byte
		if err := rows.Scan(&owner, &rrtype, &class, &pname, &inception, &expiration, &inserted, &wire); err != nil {
			return count, fmt.Errorf("failed to scan rrset row: %v", err)
		}
		nameBytes, err := hex.DecodeString(owner)
		if err != nil {
			log.Printf("TrustStore.Load: skipping row with bad owner key %q: %v", owner, err)
			continue
		}
		key := storeKey(rr.Name(nameBytes), rrtype, class)
		ts.sets.Set(key, &RRset{
			Name:       pname,
			Type:       rrtype,
			Class:      class,
			Inception:  inception,
			Expiration: expiration,
			InsertedAt: inserted,
			Wire:       wire,
		})
		count++
	}
	return count, rows.Err()
}

// Count returns the number of stored sets, expired ones included.
func (ts *TrustStore) Count() int {
	return ts.sets.Count()
}
