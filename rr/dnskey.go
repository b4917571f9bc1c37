package rr

// DNSKEY rdata layout (RFC 4034, section 2.1).

import (
	"encoding/binary"
	"fmt"
)

type DNSKEY struct {
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
	PublicKey []byte
	// Rdata is the full key rdata including the four header octets; the
	// keytag and DS digests are computed over it.
	Rdata []byte
}

// ParseDNSKEY decodes DNSKEY rdata.
func ParseDNSKEY(rdata []byte) (DNSKEY, error) {
	var k DNSKEY
	if len(rdata) < 4 {
		return k, fmt.Errorf("dnskey rdata too short: %d octets", len(rdata))
	}
	k.Flags = binary.BigEndian.Uint16(rdata)
	k.Protocol = rdata[2]
	k.Algorithm = rdata[3]
	k.PublicKey = rdata[4:]
	k.Rdata = rdata
	return k, nil
}

// IsZoneKey reports whether the zone-key flag bit is set. Keys without it
// cannot be used to verify signatures over zone data.
func (k *DNSKEY) IsZoneKey() bool {
	return k.Flags&FlagZoneKey != 0
}

// IsSEP reports whether the secure-entry-point bit is set.
func (k *DNSKEY) IsSEP() bool {
	return k.Flags&FlagSEP != 0
}

// KeyTag computes the key's RFC 4034 keytag over its rdata.
func (k *DNSKEY) KeyTag() uint16 {
	return KeyTag(k.Rdata)
}
