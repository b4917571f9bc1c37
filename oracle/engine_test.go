package oracle

import (
	"bytes"
	"crypto"
	"encoding/base64"
	"errors"
	"math"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/AlexxNica/dnssec-oracle/rr"
)

// Test clock: all signatures are valid over [tInception, tExpiration] and
// the engine clock starts at tNow, strictly inside.
const (
	tInception  = uint32(1700000000)
	tExpiration = uint32(1700100000)
	tNow        = uint32(1700050000)
)

type testZone struct {
	key    *dns.DNSKEY
	signer crypto.Signer
}

func newZoneKey(t *testing.T, owner string, alg uint8, bits int) testZone {
	t.Helper()
	key := &dns.DNSKEY{
		Hdr:       dns.RR_Header{Name: owner, Rrtype: dns.TypeDNSKEY, Class: dns.ClassINET, Ttl: 3600},
		Flags:     257,
		Protocol:  3,
		Algorithm: alg,
	}
	priv, err := key.Generate(bits)
	if err != nil {
		t.Fatalf("generating key for %s: %v", owner, err)
	}
	return testZone{key: key, signer: priv.(crypto.Signer)}
}

func newP256Zone(t *testing.T, owner string) testZone {
	return newZoneKey(t, owner, dns.ECDSAP256SHA256, 256)
}

// signSet signs records with the zone key and rebuilds the submission
// convention: the signature-less RRSIG header followed by the canonical
// records, plus the raw signature bytes. The signing side is the reference
// implementation, so anything our verifier accepts was produced
// independently of it.
func signSet(t *testing.T, z testZone, signerName string, records []dns.RR, inception, expiration uint32) ([]byte, []byte) {
	t.Helper()
	sig := &dns.RRSIG{
		KeyTag:     z.key.KeyTag(),
		SignerName: signerName,
		Algorithm:  z.key.Algorithm,
		Inception:  inception,
		Expiration: expiration,
		OrigTtl:    records[0].Header().Ttl,
	}
	if err := sig.Sign(z.signer, records); err != nil {
		t.Fatalf("signing %s set: %v", records[0].Header().Name, err)
	}

	signerWire, err := rr.NameFromString(sig.SignerName)
	if err != nil {
		t.Fatalf("packing signer name: %v", err)
	}
	header := rr.SignedSetHeader{
		TypeCovered: sig.TypeCovered,
		Algorithm:   sig.Algorithm,
		Labels:      sig.Labels,
		OrigTTL:     sig.OrigTtl,
		Expiration:  sig.Expiration,
		Inception:   sig.Inception,
		KeyTag:      sig.KeyTag,
		SignerName:  signerWire.Canonical(),
	}

	payload := header.Pack()
	for _, c := range records {
		cc := dns.Copy(c)
		cc.Header().Name = strings.ToLower(cc.Header().Name)
		cc.Header().Ttl = sig.OrigTtl
		buf := make([]byte, dns.Len(cc))
		off, err := dns.PackRR(cc, buf, 0, nil, false)
		if err != nil {
			t.Fatalf("packing record %s: %v", cc.String(), err)
		}
		payload = append(payload, buf[:off]...)
	}

	signature, err := base64.StdEncoding.DecodeString(sig.Signature)
	if err != nil {
		t.Fatalf("decoding signature: %v", err)
	}
	return payload, signature
}

func packRR(t *testing.T, r dns.RR) []byte {
	t.Helper()
	buf := make([]byte, dns.Len(r))
	off, err := dns.PackRR(r, buf, 0, nil, false)
	if err != nil {
		t.Fatalf("PackRR(%s): %v", r.String(), err)
	}
	return buf[:off]
}

func mustName(t *testing.T, s string) rr.Name {
	t.Helper()
	n, err := rr.NameFromString(s)
	if err != nil {
		t.Fatalf("NameFromString(%q): %v", s, err)
	}
	return n
}

// newTestEngine builds a memory-only engine with an adjustable clock.
func newTestEngine(t *testing.T, anchor []byte) (*Engine, *uint32) {
	t.Helper()
	e, err := NewEngine(NewTrustStore(nil), DefaultRegistry(), anchor)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	now := tNow
	e.nowFn = func() time.Time { return time.Unix(int64(now), 0) }
	return e, &now
}

func aRecord(owner, addr string) *dns.A {
	return &dns.A{
		Hdr: dns.RR_Header{Name: owner, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 3600},
		A:   net.ParseIP(addr).To4(),
	}
}

// buildChain seeds an engine with a root key DS anchor, then walks the
// bootstrap: root DNSKEY (self-signed against the anchor), DS set for com
// (signed by root), com DNSKEY (self-signed against the com DS).
func buildChain(t *testing.T) (*Engine, *uint32, testZone, testZone) {
	t.Helper()
	root := newP256Zone(t, ".")
	com := newP256Zone(t, "com.")

	anchor := packRR(t, root.key.ToDS(dns.SHA256))
	e, now := newTestEngine(t, anchor)

	payload, sig := signSet(t, root, ".", []dns.RR{root.key}, tInception, tExpiration)
	if _, err := e.SubmitRRset(rr.ClassINET, rr.RootName, payload, sig); err != nil {
		t.Fatalf("submitting root DNSKEY set: %v", err)
	}

	payload, sig = signSet(t, root, ".", []dns.RR{com.key.ToDS(dns.SHA256)}, tInception, tExpiration)
	if _, err := e.SubmitRRset(rr.ClassINET, mustName(t, "com."), payload, sig); err != nil {
		t.Fatalf("submitting com DS set: %v", err)
	}

	payload, sig = signSet(t, com, "com.", []dns.RR{com.key}, tInception, tExpiration)
	if _, err := e.SubmitRRset(rr.ClassINET, mustName(t, "com."), payload, sig); err != nil {
		t.Fatalf("submitting com DNSKEY set: %v", err)
	}

	return e, now, root, com
}

func TestAnchorQueryableAfterConstruction(t *testing.T) {
	root := newP256Zone(t, ".")
	anchor := packRR(t, root.key.ToDS(dns.SHA256))
	e, _ := newTestEngine(t, anchor)

	set := e.GetRRset(rr.ClassINET, rr.TypeDS, rr.RootName)
	if set == nil {
		t.Fatalf("anchor not queryable after construction")
	}
	if set.Inception != 0 || set.Expiration != math.MaxUint32 {
		t.Errorf("anchor bounds [%d, %d], want [0, %d]", set.Inception, set.Expiration, uint32(math.MaxUint32))
	}
	if !bytes.Equal(set.Wire, anchor) {
		t.Errorf("anchor bytes differ from seed")
	}
}

func TestEndToEndChain(t *testing.T) {
	e, _, _, com := buildChain(t)

	name := mustName(t, "example.com.")
	records := []dns.RR{aRecord("example.com.", "192.0.2.1"), aRecord("example.com.", "192.0.2.2")}
	payload, sig := signSet(t, com, "com.", records, tInception+100, tExpiration)
	set, err := e.SubmitRRset(rr.ClassINET, name, payload, sig)
	if err != nil {
		t.Fatalf("submitting example.com A set: %v", err)
	}

	got := e.GetRRset(rr.ClassINET, rr.TypeA, name)
	if got == nil {
		t.Fatalf("accepted set not queryable")
	}
	if !bytes.Equal(got.Wire, set.Wire) {
		t.Errorf("stored bytes differ from submission result")
	}
	if got.Inception != tInception+100 || got.Expiration != tExpiration {
		t.Errorf("stored bounds [%d, %d]", got.Inception, got.Expiration)
	}
	if got.InsertedAt != tNow {
		t.Errorf("inserted at %d, want %d", got.InsertedAt, tNow)
	}

	// An older signature over the same identity must be rejected and must
	// leave the stored bytes untouched.
	replay, rsig := signSet(t, com, "com.", []dns.RR{aRecord("example.com.", "192.0.2.99")}, tInception+50, tExpiration)
	if _, err := e.SubmitRRset(rr.ClassINET, name, replay, rsig); !errors.Is(err, ErrReplay) {
		t.Fatalf("older inception accepted: %v", err)
	}
	after := e.GetRRset(rr.ClassINET, rr.TypeA, name)
	if after == nil || !bytes.Equal(after.Wire, got.Wire) {
		t.Errorf("rejected replay modified the stored set")
	}

	// Equal inception is a replay as well.
	same, ssig := signSet(t, com, "com.", records, tInception+100, tExpiration)
	if _, err := e.SubmitRRset(rr.ClassINET, name, same, ssig); !errors.Is(err, ErrReplay) {
		t.Errorf("equal inception accepted: %v", err)
	}

	// A strictly newer inception replaces the set wholesale.
	newer, nsig := signSet(t, com, "com.", []dns.RR{aRecord("example.com.", "192.0.2.7")}, tInception+200, tExpiration)
	replaced, err := e.SubmitRRset(rr.ClassINET, name, newer, nsig)
	if err != nil {
		t.Fatalf("newer inception rejected: %v", err)
	}
	got = e.GetRRset(rr.ClassINET, rr.TypeA, name)
	if got == nil || !bytes.Equal(got.Wire, replaced.Wire) {
		t.Errorf("replacement not visible")
	}
}

func TestLazyExpiry(t *testing.T) {
	e, now, _, com := buildChain(t)

	name := mustName(t, "example.com.")
	payload, sig := signSet(t, com, "com.", []dns.RR{aRecord("example.com.", "192.0.2.1")}, tInception, tExpiration)
	set, err := e.SubmitRRset(rr.ClassINET, name, payload, sig)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	*now = tExpiration - 1
	if e.GetRRset(rr.ClassINET, rr.TypeA, name) == nil {
		t.Fatalf("set invisible before expiration")
	}

	// Expiration itself already counts as expired.
	*now = tExpiration
	if e.GetRRset(rr.ClassINET, rr.TypeA, name) != nil {
		t.Errorf("set still visible at expiration")
	}

	// The bytes stay in place until overwritten.
	stale := e.Store.lookup(name, rr.TypeA, rr.ClassINET)
	if stale == nil || !bytes.Equal(stale.Wire, set.Wire) {
		t.Errorf("stale bytes were purged")
	}
}

func TestValidityWindow(t *testing.T) {
	e, _, _, com := buildChain(t)
	name := mustName(t, "example.com.")

	t.Run("expired", func(t *testing.T) {
		payload, sig := signSet(t, com, "com.", []dns.RR{aRecord("example.com.", "192.0.2.1")}, tInception, tNow)
		if _, err := e.SubmitRRset(rr.ClassINET, name, payload, sig); !errors.Is(err, ErrStaleOrPremature) {
			t.Errorf("expired signature accepted: %v", err)
		}
	})
	t.Run("premature", func(t *testing.T) {
		payload, sig := signSet(t, com, "com.", []dns.RR{aRecord("example.com.", "192.0.2.1")}, tNow, tExpiration)
		if _, err := e.SubmitRRset(rr.ClassINET, name, payload, sig); !errors.Is(err, ErrStaleOrPremature) {
			t.Errorf("not-yet-valid signature accepted: %v", err)
		}
	})
	if e.GetRRset(rr.ClassINET, rr.TypeA, name) != nil {
		t.Errorf("rejected submission left state behind")
	}
}

func TestRecordSetMismatchAbortsWholeSet(t *testing.T) {
	e, _, _, com := buildChain(t)
	name := mustName(t, "example.com.")

	records := []dns.RR{
		aRecord("example.com.", "192.0.2.1"),
		aRecord("intruder.com.", "192.0.2.66"),
	}
	payload, sig := signSet(t, com, "com.", records, tInception, tExpiration)
	if _, err := e.SubmitRRset(rr.ClassINET, name, payload, sig); !errors.Is(err, ErrRecordSetMismatch) {
		t.Fatalf("foreign record accepted: %v", err)
	}
	if e.GetRRset(rr.ClassINET, rr.TypeA, name) != nil {
		t.Errorf("partial insert after rejected set")
	}
}

func TestWildcardExpansion(t *testing.T) {
	e, _, _, com := buildChain(t)
	name := mustName(t, "example.com.")

	wild := &dns.TXT{
		Hdr: dns.RR_Header{Name: "*.example.com.", Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 300},
		Txt: []string{"wildcard"},
	}
	payload, sig := signSet(t, com, "com.", []dns.RR{wild}, tInception, tExpiration)
	if _, err := e.SubmitRRset(rr.ClassINET, name, payload, sig); err != nil {
		t.Fatalf("wildcard expansion rejected: %v", err)
	}
	if e.GetRRset(rr.ClassINET, rr.TypeTXT, name) == nil {
		t.Errorf("wildcard set not queryable under the signed name")
	}

	// Two extra labels is not a valid expansion.
	deep := &dns.TXT{
		Hdr: dns.RR_Header{Name: "*.deep.example.com.", Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 300},
		Txt: []string{"too deep"},
	}
	payload, sig = signSet(t, com, "com.", []dns.RR{deep}, tInception+10, tExpiration)
	if _, err := e.SubmitRRset(rr.ClassINET, name, payload, sig); !errors.Is(err, ErrRecordSetMismatch) {
		t.Errorf("over-deep wildcard accepted: %v", err)
	}
}

func TestSelfSignedKeyWithoutDS(t *testing.T) {
	e, _, _, _ := buildChain(t)

	net_ := newP256Zone(t, "net.")
	payload, sig := signSet(t, net_, "net.", []dns.RR{net_.key}, tInception, tExpiration)
	_, err := e.SubmitRRset(rr.ClassINET, mustName(t, "net."), payload, sig)
	if !errors.Is(err, ErrUntrustedSignature) {
		t.Fatalf("uncorroborated self-signed key accepted: %v", err)
	}
	if e.GetRRset(rr.ClassINET, rr.TypeDNSKEY, mustName(t, "net.")) != nil {
		t.Errorf("uncorroborated key set was stored")
	}
}

func TestFailedCorroborationAborts(t *testing.T) {
	e, _, _, com := buildChain(t)

	// A rogue key signs a key set that also carries the real, DS-backed
	// com key. The rogue candidate verifies the signature, fails DS
	// corroboration, and the search must stop there instead of probing
	// the rest of the set.
	rogue := newP256Zone(t, "com.")
	payload, sig := signSet(t, rogue, "com.", []dns.RR{rogue.key, com.key}, tInception+500, tExpiration)
	_, err := e.SubmitRRset(rr.ClassINET, mustName(t, "com."), payload, sig)
	if !errors.Is(err, ErrUntrustedSignature) {
		t.Fatalf("rogue key set accepted: %v", err)
	}
	if !strings.Contains(err.Error(), "no corroborating DS record") {
		t.Errorf("expected the corroboration abort, got: %v", err)
	}
}

func TestSignerOutsideZone(t *testing.T) {
	e, _, _, com := buildChain(t)

	// com must not be able to sign names outside itself.
	payload, sig := signSet(t, com, "com.", []dns.RR{aRecord("example.org.", "192.0.2.1")}, tInception, tExpiration)
	_, err := e.SubmitRRset(rr.ClassINET, mustName(t, "example.org."), payload, sig)
	if !errors.Is(err, ErrUntrustedSignature) {
		t.Errorf("out-of-zone signer accepted: %v", err)
	}
}

func TestUnregisteredAlgorithmIsLocalFailure(t *testing.T) {
	root := newP256Zone(t, ".")
	anchor := packRR(t, root.key.ToDS(dns.SHA256))

	e, err := NewEngine(NewTrustStore(nil), NewRegistry(), anchor)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.nowFn = func() time.Time { return time.Unix(int64(tNow), 0) }

	payload, sig := signSet(t, root, ".", []dns.RR{root.key}, tInception, tExpiration)
	_, err = e.SubmitRRset(rr.ClassINET, rr.RootName, payload, sig)
	if !errors.Is(err, ErrUntrustedSignature) {
		t.Errorf("empty registry should fail verification, got: %v", err)
	}
}

func TestMalformedPayload(t *testing.T) {
	e, _, _, _ := buildChain(t)
	_, err := e.SubmitRRset(rr.ClassINET, mustName(t, "example.com."), []byte{1, 2, 3, 4, 5}, nil)
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("truncated payload accepted: %v", err)
	}
}

func TestNotificationsEmitted(t *testing.T) {
	e, _, _, com := buildChain(t)

	// Drain the bootstrap notifications.
	for len(e.NotifyQ) > 0 {
		<-e.NotifyQ
	}

	payload, sig := signSet(t, com, "com.", []dns.RR{aRecord("example.com.", "192.0.2.1")}, tInception, tExpiration)
	if _, err := e.SubmitRRset(rr.ClassINET, mustName(t, "example.com."), payload, sig); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case n := <-e.NotifyQ:
		if n.Kind != "rrset" || n.Name != "example.com." || n.Type != rr.TypeA {
			t.Errorf("unexpected notification %+v", n)
		}
		if n.Id == "" {
			t.Errorf("notification without event id")
		}
	default:
		t.Fatalf("no notification after accepted submission")
	}

	e.RegisterDigest(DigestSHA384, BuiltinDigests[DigestSHA384])
	select {
	case n := <-e.NotifyQ:
		if n.Kind != "digest" || n.AlgId != DigestSHA384 {
			t.Errorf("unexpected notification %+v", n)
		}
	default:
		t.Fatalf("no notification after registry update")
	}
}
