// Package fingerprint computes fixed-width BLAKE3 content digests used
// for duplicate detection.
package fingerprint

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Size is the digest width in bytes.
const Size = 32

// Digest is a fixed-width BLAKE3 content digest. The zero value is the
// sentinel for "content could not be read".
type Digest [Size]byte

// Zero is the sentinel digest for unreadable files. Two Zero digests
// never identify a duplicate.
var Zero Digest

// IsZero reports whether d is the unreadable-file sentinel.
func (d Digest) IsZero() bool {
	return d == Zero
}

// String returns the hex-encoded digest, or "-" for the sentinel.
func (d Digest) String() string {
	if d.IsZero() {
		return "-"
	}
	return hex.EncodeToString(d[:])
}

// File computes the digest of the file at path, streaming in 32 KiB
// chunks. Open or read failures yield the Zero sentinel rather than an
// error: one unreadable file must not abort a scan.
func File(path string) Digest {
	f, err := os.Open(path)
	if err != nil {
		return Zero
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return Zero
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Sum computes the digest of an in-memory byte slice.
func Sum(data []byte) Digest {
	h := blake3.New()
	h.Write(data)

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
