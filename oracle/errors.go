package oracle

import "errors"

// Submission and verification failures fall into one of these classes.
// Call sites wrap them with context via fmt.Errorf("...: %w", ...), so
// errors.Is works against the sentinels.
var (
	// ErrMalformedInput covers wire-format defects: truncated buffers,
	// compression pointers, bad rdata lengths, empty record sets.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUntrustedSignature means no trusted key (stored or DS-corroborated
	// self-signed) verified the signature.
	ErrUntrustedSignature = errors.New("no trusted key verifies the signature")

	// ErrStaleOrPremature means the signature's validity window does not
	// contain the current time.
	ErrStaleOrPremature = errors.New("signature validity window excludes now")

	// ErrReplay means a stored record set with an inception at or after the
	// submitted one already exists for the same identity.
	ErrReplay = errors.New("stored set is as new or newer")

	// ErrRecordSetMismatch means a record in the submitted set disagrees
	// with the signature header on name, type, or class.
	ErrRecordSetMismatch = errors.New("record does not match signature header")
)
