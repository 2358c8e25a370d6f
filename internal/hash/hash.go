// Package hash provides content fingerprints for generated reports.
//
// A report is rewritten only when its fingerprint changes, so reruns of an
// unchanged build leave the file (and its modification time) untouched.
// Fingerprints use HighwayHash-256 with a fixed key; they are stable across
// runs and machines but are not meant as a security boundary.
package hash

import (
	"encoding/hex"

	"github.com/minio/highwayhash"
)

var key = []byte("thirdparty-report-fingerprint-k1")

// Hasher computes content fingerprints.
// Callers read files through their own fsops.FS and hash the bytes.
type Hasher interface {
	// Sum returns the fingerprint of data.
	Sum(data []byte) string
}

// HighwayHasher implements Hasher using HighwayHash-256.
type HighwayHasher struct{}

// NewHighwayHasher creates a new HighwayHasher.
func NewHighwayHasher() *HighwayHasher {
	return &HighwayHasher{}
}

// Sum returns the hex-encoded HighwayHash-256 of data.
func (h *HighwayHasher) Sum(data []byte) string {
	sum := highwayhash.Sum(data, key)
	return hex.EncodeToString(sum[:])
}
