package oracle

// Built-in signature algorithms. Each Verify receives the full DNSKEY rdata
// and parses the key material out of it: RSA keys use the RFC 3110 exponent
// framing, ECDSA keys are the raw X||Y point, Ed25519 keys are the raw
// 32-octet public key. ECDSA signatures are the raw r||s concatenation, not
// ASN.1.

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"math/big"
)

// Algorithm ids per the IANA DNSSEC algorithm registry.
const (
	AlgRSASHA1         uint8 = 5
	AlgRSASHA256       uint8 = 8
	AlgRSASHA512       uint8 = 10
	AlgECDSAP256SHA256 uint8 = 13
	AlgECDSAP384SHA384 uint8 = 14
	AlgED25519         uint8 = 15
)

var AlgorithmNames = map[uint8]string{
	AlgRSASHA1:         "RSASHA1",
	AlgRSASHA256:       "RSASHA256",
	AlgRSASHA512:       "RSASHA512",
	AlgECDSAP256SHA256: "ECDSAP256SHA256",
	AlgECDSAP384SHA384: "ECDSAP384SHA384",
	AlgED25519:         "ED25519",
}

var BuiltinAlgorithms = map[uint8]Algorithm{
	AlgRSASHA1:         rsaAlgorithm{hash: crypto.SHA1},
	AlgRSASHA256:       rsaAlgorithm{hash: crypto.SHA256},
	AlgRSASHA512:       rsaAlgorithm{hash: crypto.SHA512},
	AlgECDSAP256SHA256: ecdsaAlgorithm{curve: elliptic.P256(), hash: crypto.SHA256},
	AlgECDSAP384SHA384: ecdsaAlgorithm{curve: elliptic.P384(), hash: crypto.SHA384},
	AlgED25519:         ed25519Algorithm{},
}

type rsaAlgorithm struct {
	hash crypto.Hash
}

func (a rsaAlgorithm) Verify(keyRdata, data, signature []byte) error {
	pub, err := parseRSAKey(keyRdata)
	if err != nil {
		return err
	}
	digest := hashData(a.hash, data)
	if err := rsa.VerifyPKCS1v15(pub, a.hash, digest, signature); err != nil {
		return fmt.Errorf("rsa verification failed: %v", err)
	}
	return nil
}

// parseRSAKey decodes the RFC 3110 key material: a one-octet exponent
// length (or zero followed by a two-octet length), the exponent, then the
// modulus.
func parseRSAKey(keyRdata []byte) (*rsa.PublicKey, error) {
	if len(keyRdata) < 5 {
		return nil, fmt.Errorf("rsa key material too short")
	}
	material := keyRdata[4:]
	var expLen, off int
	if material[0] != 0 {
		expLen = int(material[0])
		off = 1
	} else {
		if len(material) < 3 {
			return nil, fmt.Errorf("rsa key material too short")
		}
		expLen = int(material[1])<<8 | int(material[2])
		off = 3
	}
	if expLen == 0 || off+expLen >= len(material) {
		return nil, fmt.Errorf("rsa exponent length %d out of range", expLen)
	}
	exp := new(big.Int).SetBytes(material[off : off+expLen])
	if !exp.IsInt64() || exp.Int64() > int64(1<<31-1) {
		return nil, fmt.Errorf("rsa exponent too large")
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(material[off+expLen:]),
		E: int(exp.Int64()),
	}, nil
}

type ecdsaAlgorithm struct {
	curve elliptic.Curve
	hash  crypto.Hash
}

func (a ecdsaAlgorithm) Verify(keyRdata, data, signature []byte) error {
	coordLen := (a.curve.Params().BitSize + 7) / 8
	if len(keyRdata) != 4+2*coordLen {
		return fmt.Errorf("ecdsa key material is %d octets, want %d", len(keyRdata)-4, 2*coordLen)
	}
	if len(signature) != 2*coordLen {
		return fmt.Errorf("ecdsa signature is %d octets, want %d", len(signature), 2*coordLen)
	}
	material := keyRdata[4:]
	pub := &ecdsa.PublicKey{
		Curve: a.curve,
		X:     new(big.Int).SetBytes(material[:coordLen]),
		Y:     new(big.Int).SetBytes(material[coordLen:]),
	}
	if !a.curve.IsOnCurve(pub.X, pub.Y) {
		return fmt.Errorf("ecdsa public key is not on the curve")
	}
	r := new(big.Int).SetBytes(signature[:coordLen])
	s := new(big.Int).SetBytes(signature[coordLen:])
	if !ecdsa.Verify(pub, hashData(a.hash, data), r, s) {
		return fmt.Errorf("ecdsa verification failed")
	}
	return nil
}

type ed25519Algorithm struct{}

func (ed25519Algorithm) Verify(keyRdata, data, signature []byte) error {
	if len(keyRdata) != 4+ed25519.PublicKeySize {
		return fmt.Errorf("ed25519 key material is %d octets, want %d", len(keyRdata)-4, ed25519.PublicKeySize)
	}
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("ed25519 signature is %d octets, want %d", len(signature), ed25519.SignatureSize)
	}
	if !ed25519.Verify(ed25519.PublicKey(keyRdata[4:]), data, signature) {
		return fmt.Errorf("ed25519 verification failed")
	}
	return nil
}

func hashData(h crypto.Hash, data []byte) []byte {
	switch h {
	case crypto.SHA1:
		sum := sha1.Sum(data)
		return sum[:]
	case crypto.SHA256:
		sum := sha256.Sum256(data)
		return sum[:]
	case crypto.SHA384:
		sum := sha512.Sum384(data)
		return sum[:]
	case crypto.SHA512:
		sum := sha512.Sum512(data)
		return sum[:]
	}
	panic(fmt.Sprintf("unsupported hash %v", h))
}
