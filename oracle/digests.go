package oracle

// Built-in DS digest types per the IANA delegation-signer digest registry.

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
)

const (
	DigestSHA1   uint8 = 1
	DigestSHA256 uint8 = 2
	DigestSHA384 uint8 = 4
)

var DigestNames = map[uint8]string{
	DigestSHA1:   "SHA1",
	DigestSHA256: "SHA256",
	DigestSHA384: "SHA384",
}

var BuiltinDigests = map[uint8]Digest{
	DigestSHA1:   sha1Digest{},
	DigestSHA256: sha256Digest{},
	DigestSHA384: sha384Digest{},
}

type sha1Digest struct{}

func (sha1Digest) Verify(data, digest []byte) bool {
	sum := sha1.Sum(data)
	return subtle.ConstantTimeCompare(sum[:], digest) == 1
}

type sha256Digest struct{}

func (sha256Digest) Verify(data, digest []byte) bool {
	sum := sha256.Sum256(data)
	return subtle.ConstantTimeCompare(sum[:], digest) == 1
}

type sha384Digest struct{}

func (sha384Digest) Verify(data, digest []byte) bool {
	sum := sha512.Sum384(data)
	return subtle.ConstantTimeCompare(sum[:], digest) == 1
}
