package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"
)

// Fingerprint identifies a content version of a source file.
// The content hash is authoritative for change detection; size and
// modification time are kept as cheap metadata for display and debugging.
type Fingerprint struct {
	// SHA256 is the hex-encoded content hash.
	SHA256 string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the file modification time.
	ModTime time.Time
}

// Equal reports whether two fingerprints refer to the same content.
// Only the hash participates: a touched-but-unchanged file must not
// trigger reprocessing.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.SHA256 != "" && f.SHA256 == other.SHA256
}

// ComputeFingerprint hashes the file at path and captures its metadata.
func ComputeFingerprint(path string) (Fingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return Fingerprint{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	return Fingerprint{
		SHA256:  hex.EncodeToString(h.Sum(nil)),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
