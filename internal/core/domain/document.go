package domain

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Document represents a source document discovered in the input directory.
// Its Name is the stable identity used across the registry and all sinks.
type Document struct {
	// Name is the sanitised file stem, stable across runs.
	Name string

	// Path is the location of the source file.
	Path string

	// Source is the original file name including extension.
	Source string

	// Fingerprint identifies the content version of the file.
	Fingerprint Fingerprint
}

// ExtractedText is the normalised output of an extractor.
// It is transient: only its derivatives (chunks, sink artifacts) persist.
type ExtractedText struct {
	// Body is the full plain text. Never empty on successful extraction.
	Body string

	// Title is a best-effort document title.
	Title string

	// Pages is the page count, 0 when the format has no page concept.
	Pages int
}

// Chunk is a bounded, possibly overlapping substring of a document's
// extracted text. Identity is the (DocName, Index) pair, which is stable
// across reprocessing runs for fixed chunking parameters.
type Chunk struct {
	// DocName links to the owning Document.
	DocName string

	// Index is the 0-based sequence position within the document.
	Index int

	// Start is the inclusive character offset in the source text.
	Start int

	// End is the exclusive character offset in the source text.
	End int

	// Text is the chunk content.
	Text string
}

// ProcessRecord is the registry's persisted state for one document.
type ProcessRecord struct {
	// Name is the document identity.
	Name string

	// Path is the source file location at last processing.
	Path string

	// Fingerprint is the content version last processed.
	Fingerprint Fingerprint

	// Pages and Chunks record the output shape of the last run.
	Pages  int
	Chunks int

	// ProcessedAt is when the document was last successfully published.
	ProcessedAt time.Time
}

// PublishedDocument is a document as read back from a sink, carrying
// enough state to rebuild derived artifacts.
type PublishedDocument struct {
	// Name is the document identity.
	Name string

	// Title is the extracted title, possibly empty.
	Title string

	// Source is the original file name including extension.
	Source string

	// Pages is the page count recorded at publish time.
	Pages int

	// Chunks is the complete published chunk set.
	Chunks []Chunk
}

// SourceFile is a candidate file found by the scanner.
type SourceFile struct {
	// Path is the file location.
	Path string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the file modification time.
	ModTime time.Time
}

var unsafeNameChars = regexp.MustCompile(`[^\w\-.]`)

// NameFromPath derives the stable document name from a file path.
// The extension is dropped and characters outside [A-Za-z0-9_-.] are
// replaced with underscores, so the name is safe as a file stem and as
// a key in every sink.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return unsafeNameChars.ReplaceAllString(stem, "_")
}
