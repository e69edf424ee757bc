// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Scanner: Enumerates candidate source files
//   - Extractor: Converts a source file into normalised text
//   - Chunker: Splits text into fixed-size overlapping chunks
//   - ChunkSink: Publishes a document's chunk set to one output format
//   - ProcessedStore: Registry persistence for incremental processing
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - ChunkSource: Read-back access to published chunks, used by search;
//     without it, the search command is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
