package rr

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/miekg/dns"
)

func TestKeyTagFixedVectors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		rdata []byte
		want  uint16
	}{
		{"empty", nil, 0},
		{"single even byte", []byte{0x01}, 0x0100},
		{"odd length", []byte{0x01, 0x02, 0x03}, 0x0402},
		{"fold carry", []byte{0xff, 0xff, 0xff, 0xff, 0xff}, 0xff00},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := KeyTag(tc.rdata); got != tc.want {
				t.Errorf("KeyTag(%v) = 0x%04x, want 0x%04x", tc.rdata, got, tc.want)
			}
		})
	}
}

// The checksum must agree with the reference implementation over real key
// material.
func TestKeyTagAgainstReference(t *testing.T) {
	key := &dns.DNSKEY{
		Hdr:       dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeDNSKEY, Class: dns.ClassINET, Ttl: 3600},
		Flags:     257,
		Protocol:  3,
		Algorithm: dns.ECDSAP256SHA256,
	}
	if _, err := key.Generate(256); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	material, err := base64.StdEncoding.DecodeString(key.PublicKey)
	if err != nil {
		t.Fatalf("decoding key material: %v", err)
	}
	rdata := make([]byte, 4, 4+len(material))
	binary.BigEndian.PutUint16(rdata, key.Flags)
	rdata[2] = key.Protocol
	rdata[3] = key.Algorithm
	rdata = append(rdata, material...)

	if got, want := KeyTag(rdata), key.KeyTag(); got != want {
		t.Errorf("KeyTag = %d, reference says %d", got, want)
	}
}
