package oracle

// Signature chain verification: the two-phase trust walk that decides
// whether a submitted signature is anchored in the store.

import (
	"fmt"
	"log"

	"github.com/AlexxNica/dnssec-oracle/rr"
)

// verifySignedSet authenticates signature over signedData (the signature
// header followed by the covered records) for a set owned by name.
//
// Phase A tries every key in the DNSKEY set already stored for the signer.
// Phase B reinterprets the payload's own records as candidate keys for the
// self-signed bootstrap case; a candidate that verifies must then be
// corroborated by a stored DS record, and a candidate that verifies but
// fails corroboration kills the whole call rather than letting the search
// fall through to another key.
func (e *Engine) verifySignedSet(class uint16, name rr.Name, header rr.SignedSetHeader, signedData, signature []byte, now uint32) error {
	// A zone may only sign records at or below itself.
	if !name.HasSuffix(header.SignerName) {
		return fmt.Errorf("%w: signer %s does not contain %s",
			ErrUntrustedSignature, header.SignerName.String(), name.String())
	}

	// Phase A: keys we already trust for the signer.
	if keyset := e.Store.Get(header.SignerName, rr.TypeDNSKEY, class, now); keyset != nil {
		it := rr.NewIterator(keyset.Wire)
		for !it.Done() {
			rec, err := it.Next()
			if err != nil {
				log.Printf("verifySignedSet: stored DNSKEY set for %s is corrupt: %v",
					header.SignerName.String(), err)
				break
			}
			if e.verifyWithKey(rec, header, signedData, signature) {
				return nil
			}
		}
	}

	// Phase B: the payload may be a zone's own key set, signed by itself.
	it := rr.NewIterator(signedData[len(header.Pack()):])
	for !it.Done() {
		rec, err := it.Next()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if !e.verifyWithKey(rec, header, signedData, signature) {
			continue
		}
		// Self-signed key; it only mints trust if a stored DS record
		// vouches for it.
		if e.corroborate(class, rec, now) {
			return nil
		}
		return fmt.Errorf("%w: self-signed key for %s has no corroborating DS record",
			ErrUntrustedSignature, rec.Name.String())
	}

	return fmt.Errorf("%w: no chain found for %s", ErrUntrustedSignature, name.String())
}

// verifyWithKey checks one candidate key against the signature. Every
// reject path returns false rather than an error: an unusable candidate
// just means the search moves on.
func (e *Engine) verifyWithKey(keyRec rr.Record, header rr.SignedSetHeader, signedData, signature []byte) bool {
	key, err := rr.ParseDNSKEY(keyRec.Rdata)
	if err != nil {
		return false
	}
	alg, ok := e.Registry.Algorithm(header.Algorithm)
	if !ok {
		if Globals.Debug {
			log.Printf("verifyWithKey: no algorithm registered for id %d", header.Algorithm)
		}
		return false
	}
	if key.Protocol != rr.ProtocolDNSSEC {
		return false
	}
	if key.Algorithm != header.Algorithm {
		return false
	}
	// Keytag is a cheap filter evaluated before any crypto.
	if key.KeyTag() != header.KeyTag {
		return false
	}
	if !key.IsZoneKey() {
		return false
	}
	if err := alg.Verify(key.Rdata, signedData, signature); err != nil {
		if Globals.Debug {
			log.Printf("verifyWithKey: key %d for %s rejected: %v",
				header.KeyTag, keyRec.Name.String(), err)
		}
		return false
	}
	return true
}

// corroborate checks a self-signed candidate key against the DS set stored
// for the key's own name. A DS record matches when its keytag and algorithm
// agree with the key and its digest, recomputed over the canonical owner
// name followed by the key rdata, is byte-identical. A DS record whose
// digest type has no registered implementation simply cannot corroborate.
func (e *Engine) corroborate(class uint16, keyRec rr.Record, now uint32) bool {
	dsset := e.Store.Get(keyRec.Name, rr.TypeDS, class, now)
	if dsset == nil {
		return false
	}
	key, err := rr.ParseDNSKEY(keyRec.Rdata)
	if err != nil {
		return false
	}
	keytag := key.KeyTag()

	data := append(keyRec.Name.Canonical(), key.Rdata...)

	it := rr.NewIterator(dsset.Wire)
	for !it.Done() {
		rec, err := it.Next()
		if err != nil {
			log.Printf("corroborate: stored DS set for %s is corrupt: %v",
				keyRec.Name.String(), err)
			return false
		}
		ds, err := rr.ParseDS(rec.Rdata)
		if err != nil {
			continue
		}
		if ds.KeyTag != keytag || ds.Algorithm != key.Algorithm {
			continue
		}
		digest, ok := e.Registry.Digest(ds.DigestType)
		if !ok {
			if Globals.Debug {
				log.Printf("corroborate: no digest registered for type %d", ds.DigestType)
			}
			continue
		}
		if digest.Verify(data, ds.Digest) {
			return true
		}
	}
	return false
}
