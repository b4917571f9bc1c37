package rr

import (
	"bytes"
	"net"
	"testing"

	"github.com/miekg/dns"
)

func packTestRR(t *testing.T, r dns.RR) []byte {
	t.Helper()
	buf := make([]byte, dns.Len(r))
	off, err := dns.PackRR(r, buf, 0, nil, false)
	if err != nil {
		t.Fatalf("PackRR(%s): %v", r.String(), err)
	}
	return buf[:off]
}

func TestIterator(t *testing.T) {
	records := []dns.RR{
		&dns.A{
			Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 3600},
			A:   net.IPv4(192, 0, 2, 1).To4(),
		},
		&dns.A{
			Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 3600},
			A:   net.IPv4(192, 0, 2, 2).To4(),
		},
		&dns.TXT{
			Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 60},
			Txt: []string{"hello"},
		},
	}

	var buf []byte
	for _, r := range records {
		buf = append(buf, packTestRR(t, r)...)
	}

	it := NewIterator(buf)
	for i, want := range records {
		if it.Done() {
			t.Fatalf("iterator done after %d records, want %d", i, len(records))
		}
		rec, err := it.Next()
		if err != nil {
			t.Fatalf("Next() record %d: %v", i, err)
		}
		h := want.Header()
		if rec.Name.String() != h.Name {
			t.Errorf("record %d: name %q, want %q", i, rec.Name.String(), h.Name)
		}
		if rec.Type != h.Rrtype {
			t.Errorf("record %d: type %d, want %d", i, rec.Type, h.Rrtype)
		}
		if rec.Class != h.Class {
			t.Errorf("record %d: class %d, want %d", i, rec.Class, h.Class)
		}
		if rec.TTL != h.Ttl {
			t.Errorf("record %d: ttl %d, want %d", i, rec.TTL, h.Ttl)
		}
	}
	if !it.Done() {
		t.Errorf("iterator not done after all records")
	}
}

func TestIteratorRawCoversWholeRecord(t *testing.T) {
	a := &dns.A{
		Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 3600},
		A:   net.IPv4(192, 0, 2, 1).To4(),
	}
	wire := packTestRR(t, a)

	it := NewIterator(wire)
	rec, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !bytes.Equal(rec.Raw, wire) {
		t.Errorf("Raw = %v, want %v", rec.Raw, wire)
	}
}

func TestIteratorTruncated(t *testing.T) {
	a := &dns.A{
		Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 3600},
		A:   net.IPv4(192, 0, 2, 1).To4(),
	}
	wire := packTestRR(t, a)

	for _, cut := range []int{len(wire) - 1, len(wire) - 4, 14, 5} {
		it := NewIterator(wire[:cut])
		if _, err := it.Next(); err == nil {
			t.Errorf("Next accepted record truncated to %d octets", cut)
		}
	}
}

func TestIndependentIterators(t *testing.T) {
	a := &dns.A{
		Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 3600},
		A:   net.IPv4(192, 0, 2, 1).To4(),
	}
	wire := packTestRR(t, a)
	buf := append(append([]byte{}, wire...), wire...)

	outer := NewIterator(buf)
	if _, err := outer.Next(); err != nil {
		t.Fatalf("outer.Next: %v", err)
	}

	// A nested scan over the same buffer must not disturb the outer cursor.
	inner := NewIterator(buf)
	for !inner.Done() {
		if _, err := inner.Next(); err != nil {
			t.Fatalf("inner.Next: %v", err)
		}
	}

	if outer.Done() {
		t.Fatalf("outer iterator finished by inner scan")
	}
	if _, err := outer.Next(); err != nil {
		t.Fatalf("outer.Next after inner scan: %v", err)
	}
	if !outer.Done() {
		t.Errorf("outer iterator should be done")
	}
}
