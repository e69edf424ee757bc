package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates invalid run configuration, e.g. a chunk
	// overlap that is not smaller than the chunk size. It is the only
	// fatal error class: it aborts a run before any document is touched.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrExtraction indicates a document could not be converted to text
	// (unreadable file, unsupported format, image-only pages). It fails
	// the affected document only; the batch continues.
	ErrExtraction = errors.New("extraction failed")

	// ErrSynchronization indicates a sink write failed while publishing a
	// document's chunk set. The document's registry entry is not updated,
	// so the next run reprocesses it and heals any divergence.
	ErrSynchronization = errors.New("synchronization failed")

	// ErrUnsupportedType indicates no extractor handles the file type.
	ErrUnsupportedType = errors.New("unsupported type")
)

// ValidateChunkParams checks chunking parameters before a run starts.
// size must be positive and overlap must satisfy 0 <= overlap < size,
// otherwise chunk production could loop forever.
func ValidateChunkParams(size, overlap int) error {
	if size <= 0 {
		return &ConfigError{Field: "chunk-size", Reason: "must be positive"}
	}
	if overlap < 0 {
		return &ConfigError{Field: "chunk-overlap", Reason: "must not be negative"}
	}
	if overlap >= size {
		return &ConfigError{Field: "chunk-overlap", Reason: "must be smaller than chunk size"}
	}
	return nil
}

// ConfigError carries the offending field for configuration failures.
// It unwraps to ErrConfiguration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Field + " " + e.Reason
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}
