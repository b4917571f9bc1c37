package rr

// DS rdata layout (RFC 4034, section 5.1).

import (
	"encoding/binary"
	"fmt"
)

type DS struct {
	KeyTag     uint16
	Algorithm  uint8
	DigestType uint8
	Digest     []byte
}

// ParseDS decodes DS rdata.
func ParseDS(rdata []byte) (DS, error) {
	var d DS
	if len(rdata) < 4 {
		return d, fmt.Errorf("ds rdata too short: %d octets", len(rdata))
	}
	d.KeyTag = binary.BigEndian.Uint16(rdata)
	d.Algorithm = rdata[2]
	d.DigestType = rdata[3]
	d.Digest = rdata[4:]
	return d, nil
}
