package rr

// RRSIG rdata without the trailing signature field (RFC 4034, section 3.1).
// The signed message is this header followed by the covered records in
// canonical order, so the header keeps a Pack method that reproduces its
// exact wire bytes.

import (
	"encoding/binary"
	"fmt"
)

type SignedSetHeader struct {
	TypeCovered uint16
	Algorithm   uint8
	Labels      uint8
	OrigTTL     uint32
	Expiration  uint32
	Inception   uint32
	KeyTag      uint16
	SignerName  Name
}

// ParseSignedSetHeader reads the signature-less RRSIG fields from buf
// starting at off and returns the header plus the offset where the covered
// record data begins.
func ParseSignedSetHeader(buf []byte, off int) (SignedSetHeader, int, error) {
	var h SignedSetHeader
	if off+18 > len(buf) {
		return h, 0, fmt.Errorf("signature header overruns buffer at offset %d", off)
	}
	h.TypeCovered = binary.BigEndian.Uint16(buf[off:])
	h.Algorithm = buf[off+2]
	h.Labels = buf[off+3]
	h.OrigTTL = binary.BigEndian.Uint32(buf[off+4:])
	h.Expiration = binary.BigEndian.Uint32(buf[off+8:])
	h.Inception = binary.BigEndian.Uint32(buf[off+12:])
	h.KeyTag = binary.BigEndian.Uint16(buf[off+16:])
	name, off, err := ParseName(buf, off+18)
	if err != nil {
		return h, 0, fmt.Errorf("signer name: %v", err)
	}
	h.SignerName = name
	return h, off, nil
}

// Pack returns the header's wire encoding.
func (h *SignedSetHeader) Pack() []byte {
	buf := make([]byte, 18+len(h.SignerName))
	binary.BigEndian.PutUint16(buf[0:], h.TypeCovered)
	buf[2] = h.Algorithm
	buf[3] = h.Labels
	binary.BigEndian.PutUint32(buf[4:], h.OrigTTL)
	binary.BigEndian.PutUint32(buf[8:], h.Expiration)
	binary.BigEndian.PutUint32(buf[12:], h.Inception)
	binary.BigEndian.PutUint16(buf[16:], h.KeyTag)
	copy(buf[18:], h.SignerName)
	return buf
}
