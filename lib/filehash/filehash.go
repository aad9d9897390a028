// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

// Package filehash computes BLAKE3 digests of report files. The CLI
// prints the digest on upload and download so a student can confirm
// the server stored exactly what was sent.
package filehash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// HashFile computes the digest of the file at path, streaming through
// the hasher so memory stays constant regardless of file size.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()
	return HashReader(file)
}

// HashReader computes the digest of everything readable from r.
func HashReader(r io.Reader) (Digest, error) {
	hasher := blake3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return Digest{}, fmt.Errorf("hashing: %w", err)
	}
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// Format returns the hex encoding of a digest, the canonical form for
// CLI output and logs.
func Format(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// Parse decodes a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
