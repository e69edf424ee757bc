// Package domain defines the core business entities for chunkforge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A source document under processing
//   - ExtractedText: Normalised text produced by an extractor
//   - Chunk: A fixed-size, overlapping slice of a document's text
//   - Collection: The consolidated multi-document output artifact
//   - RunReport: Aggregate statistics for one pipeline run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
