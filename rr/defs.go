package rr

// Record types and classes the oracle deals in. Values are IANA-assigned.
const (
	TypeA      uint16 = 1
	TypeNS     uint16 = 2
	TypeCNAME  uint16 = 5
	TypeSOA    uint16 = 6
	TypeTXT    uint16 = 16
	TypeDS     uint16 = 43
	TypeRRSIG  uint16 = 46
	TypeDNSKEY uint16 = 48

	ClassINET uint16 = 1
)

// DNSKEY flag bits (RFC 4034, section 2.1.1).
const (
	FlagZoneKey uint16 = 0x0100
	FlagSEP     uint16 = 0x0001
)

// DNSKEY protocol field must be 3 (RFC 4034, section 2.1.2).
const ProtocolDNSSEC = 3
