package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a fixed 256-bit content hash.
type Digest [32]byte

// DigestBytes hashes raw bytes.
func DigestBytes(b []byte) Digest {
	return Digest(sha256.Sum256(b))
}

// DigestString hashes a string, e.g. an options fingerprint.
func DigestString(s string) Digest {
	return DigestBytes([]byte(s))
}

// Combine builds an aggregate hash: H( first || rest1 || rest2 ... ).
// The order of parts must be deterministic.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short is the first 12 hex digits, for logs.
func (d Digest) Short() string {
	return d.String()[:12]
}
