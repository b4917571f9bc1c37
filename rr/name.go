package rr

// Wire-format DNS names. Everything that moves through the oracle is an
// uncompressed label sequence; compression pointers never appear in signed
// data and are rejected as malformed.

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

const (
	maxNameLen  = 255
	maxLabelLen = 63
)

// Name is a DNS name in uncompressed wire format: a sequence of
// length-prefixed labels terminated by a zero-length root label.
type Name []byte

// RootName is the wire encoding of the DNS root ".".
var RootName = Name{0}

// ParseName reads an uncompressed name from buf starting at off and returns
// the name together with the offset of the first byte after it.
func ParseName(buf []byte, off int) (Name, int, error) {
	start := off
	for {
		if off >= len(buf) {
			return nil, 0, fmt.Errorf("name overruns buffer at offset %d", off)
		}
		l := int(buf[off])
		if l == 0 {
			off++
			break
		}
		if l > maxLabelLen {
			// High bits set means a compression pointer, which is not
			// permitted inside signed data.
			return nil, 0, fmt.Errorf("illegal label length %d at offset %d", l, off)
		}
		off += 1 + l
		if off > len(buf) {
			return nil, 0, fmt.Errorf("label overruns buffer at offset %d", off)
		}
		if off-start > maxNameLen {
			return nil, 0, fmt.Errorf("name exceeds %d octets", maxNameLen)
		}
	}
	return Name(buf[start:off]), off, nil
}

// NameFromString converts a presentation-format name to wire format.
func NameFromString(s string) (Name, error) {
	buf := make([]byte, maxNameLen)
	off, err := dns.PackDomainName(dns.Fqdn(s), buf, 0, nil, false)
	if err != nil {
		return nil, fmt.Errorf("cannot pack name %q: %v", s, err)
	}
	return Name(buf[:off]), nil
}

// Labels returns the number of labels in the name, excluding the root.
func (n Name) Labels() int {
	count := 0
	for off := 0; off < len(n); {
		l := int(n[off])
		if l == 0 {
			break
		}
		count++
		off += 1 + l
	}
	return count
}

// Canonical returns the name with all ASCII letters folded to lower case,
// per the DNSSEC canonical form (RFC 4034, section 6.2). The receiver is
// not modified.
func (n Name) Canonical() Name {
	out := make(Name, len(n))
	copy(out, n)
	for i := range out {
		if out[i] >= 'A' && out[i] <= 'Z' {
			out[i] += 'a' - 'A'
		}
	}
	return out
}

// Equal reports whether two names have the same canonical content.
func (n Name) Equal(other Name) bool {
	if len(n) != len(other) {
		return false
	}
	for i := range n {
		if foldByte(n[i]) != foldByte(other[i]) {
			return false
		}
	}
	return true
}

// HasSuffix reports whether suffix is equal to n or to n with one or more
// leading labels removed. Every name has the root as a suffix.
func (n Name) HasSuffix(suffix Name) bool {
	if len(n) == 0 {
		return false
	}
	off := 0
	for {
		if Name(n[off:]).Equal(suffix) {
			return true
		}
		l := int(n[off])
		if l == 0 {
			return false
		}
		off += 1 + l
	}
}

// IsWildcardExpansionOf reports whether n is base with a single literal "*"
// label prepended. The first two bytes of a wildcard owner name encode the
// one-character "*" label.
func (n Name) IsWildcardExpansionOf(base Name) bool {
	if len(n) < 2 || n[0] != 1 || n[1] != '*' {
		return false
	}
	return Name(n[2:]).Equal(base)
}

// String returns the presentation form of the name.
func (n Name) String() string {
	if len(n) == 0 {
		return ""
	}
	if len(n) == 1 && n[0] == 0 {
		return "."
	}
	var sb strings.Builder
	for off := 0; off < len(n); {
		l := int(n[off])
		if l == 0 {
			break
		}
		sb.Write(n[off+1 : off+1+l])
		sb.WriteByte('.')
		off += 1 + l
	}
	return sb.String()
}

func foldByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
