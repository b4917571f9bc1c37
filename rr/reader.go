package rr

// Sequential reader over concatenated wire-format resource records. Each
// record is owner name + fixed header + length-prefixed rdata, no message
// framing and no name compression.

import (
	"encoding/binary"
	"fmt"
)

// Record is one resource record cut out of a wire buffer. Raw covers the
// record's full extent (name through rdata) and aliases the input buffer.
type Record struct {
	Name  Name
	Type  uint16
	Class uint16
	TTL   uint32
	Rdata []byte
	Raw   []byte
}

// Iterator walks a buffer of concatenated records front to back. A fresh
// iterator is created per scan; there is no rewind.
type Iterator struct {
	buf []byte
	off int
}

func NewIterator(buf []byte) *Iterator {
	return &Iterator{buf: buf}
}

// Done reports whether the iterator has consumed the whole buffer.
func (it *Iterator) Done() bool {
	return it.off >= len(it.buf)
}

// Next parses the record at the current offset and advances past it.
func (it *Iterator) Next() (Record, error) {
	var rec Record
	start := it.off

	name, off, err := ParseName(it.buf, it.off)
	if err != nil {
		return rec, err
	}
	if off+10 > len(it.buf) {
		return rec, fmt.Errorf("record header overruns buffer at offset %d", off)
	}
	rec.Name = name
	rec.Type = binary.BigEndian.Uint16(it.buf[off:])
	rec.Class = binary.BigEndian.Uint16(it.buf[off+2:])
	rec.TTL = binary.BigEndian.Uint32(it.buf[off+4:])
	rdlen := int(binary.BigEndian.Uint16(it.buf[off+8:]))
	off += 10
	if off+rdlen > len(it.buf) {
		return rec, fmt.Errorf("rdata overruns buffer at offset %d", off)
	}
	rec.Rdata = it.buf[off : off+rdlen]
	it.off = off + rdlen
	rec.Raw = it.buf[start:it.off]
	return rec, nil
}
