package rr

// KeyTag computes the RFC 4034 Appendix B checksum over DNSKEY rdata.
// Octets at even offsets contribute their value shifted left eight bits,
// octets at odd offsets contribute their value as-is; the carry is folded
// in once at the end.
func KeyTag(rdata []byte) uint16 {
	var sum uint32
	for i, b := range rdata {
		if i&1 == 0 {
			sum += uint32(b) << 8
		} else {
			sum += uint32(b)
		}
	}
	sum += sum >> 16
	return uint16(sum)
}
