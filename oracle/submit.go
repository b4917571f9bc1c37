package oracle

// Ingestion protocol: end-to-end validation of a submitted record set and
// its commit into the trust store. Every step is a hard precondition; any
// failure aborts the call with nothing written.

import (
	"fmt"
	"log"

	"github.com/AlexxNica/dnssec-oracle/rr"
)

// SubmitRRset validates (class, name, payload, signature) and commits the
// covered records. payload is the signature header (RRSIG rdata without the
// signature field) followed by the canonicalized records it covers;
// signature is the raw signature bytes.
func (e *Engine) SubmitRRset(class uint16, name rr.Name, payload, signature []byte) (*RRset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	header, off, err := rr.ParseSignedSetHeader(payload, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	if err := e.verifySignedSet(class, name, header, payload, signature, now); err != nil {
		return nil, err
	}

	// Monotonic-inception replacement. The check runs against the stored
	// bytes whether or not they are still live: even an expired set must
	// not be rolled back behind.
	if stored := e.Store.lookup(name, header.TypeCovered, class); stored != nil {
		if header.Inception <= stored.Inception {
			return nil, fmt.Errorf("%w: stored inception %d, submitted %d",
				ErrReplay, stored.Inception, header.Inception)
		}
	}

	// The clock must fall strictly inside the validity window.
	if now <= header.Inception || now >= header.Expiration {
		return nil, fmt.Errorf("%w: window [%d, %d], now %d",
			ErrStaleOrPremature, header.Inception, header.Expiration, now)
	}

	// Validate every covered record before anything is committed.
	count := 0
	it := rr.NewIterator(payload[off:])
	for !it.Done() {
		rec, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if rec.Class != class {
			return nil, fmt.Errorf("%w: record %s has class %d, submission says %d",
				ErrRecordSetMismatch, rec.Name.String(), rec.Class, class)
		}
		if rec.Type != header.TypeCovered {
			return nil, fmt.Errorf("%w: record %s has type %d, signature covers %d",
				ErrRecordSetMismatch, rec.Name.String(), rec.Type, header.TypeCovered)
		}
		// The owner name is either exactly the submitted name or its
		// single-label wildcard expansion; nothing else.
		labels := rec.Name.Labels()
		switch {
		case labels == int(header.Labels) && rec.Name.Equal(name):
		case labels == int(header.Labels)+1 && rec.Name.IsWildcardExpansionOf(name):
		default:
			return nil, fmt.Errorf("%w: record name %s does not match signed name %s (%d labels in header)",
				ErrRecordSetMismatch, rec.Name.String(), name.String(), header.Labels)
		}
		count++
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: payload covers no records", ErrMalformedInput)
	}

	set := &RRset{
		Name:       name.String(),
		Type:       header.TypeCovered,
		Class:      class,
		Inception:  header.Inception,
		Expiration: header.Expiration,
		InsertedAt: now,
		Wire:       append([]byte(nil), payload[off:]...),
	}
	if err := e.Store.Put(name, header.TypeCovered, class, set); err != nil {
		return nil, err
	}

	if Globals.Verbose {
		log.Printf("SubmitRRset: committed %s type %d class %d (%d records, inception %d)",
			set.Name, set.Type, set.Class, count, set.Inception)
	}
	e.notify(UpdateNotification{
		Kind:  "rrset",
		Name:  set.Name,
		Type:  set.Type,
		Class: set.Class,
	})
	return set, nil
}
