package domain

// Collection is the consolidated output artifact handed to the external
// knowledge-base import feature. It aggregates every known document with
// its full chunk list.
type Collection struct {
	// Name is the collection display name.
	Name string `json:"name"`

	// Documents holds one entry per published document.
	Documents []CollectionEntry `json:"documents"`
}

// CollectionEntry aggregates all chunks of one document.
// It is rebuilt whenever any chunk of the document changes and left
// untouched otherwise. The ID is reused across rebuilds when the entry
// already exists, so downstream imports stay stable.
type CollectionEntry struct {
	ID     string            `json:"id"`
	URL    string            `json:"url"`
	Title  string            `json:"title"`
	Chunks []CollectionChunk `json:"content_chunks"`
}

// CollectionChunk is one chunk in the collection format.
type CollectionChunk struct {
	ID       string              `json:"id"`
	DocID    string              `json:"doc_id"`
	Content  string              `json:"content"`
	Metadata CollectionChunkMeta `json:"metadata"`
}

// CollectionChunkMeta maps a collection chunk back to its source.
type CollectionChunkMeta struct {
	Source      string `json:"source"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
}

// Entry returns the entry for the named document, or nil.
func (c *Collection) Entry(title string) *CollectionEntry {
	for i := range c.Documents {
		if c.Documents[i].Title == title {
			return &c.Documents[i]
		}
	}
	return nil
}

// Upsert replaces the entry with the same title, or appends a new one.
// Existing entries for other documents are never reordered or modified.
func (c *Collection) Upsert(entry CollectionEntry) {
	for i := range c.Documents {
		if c.Documents[i].Title == entry.Title {
			c.Documents[i] = entry
			return
		}
	}
	c.Documents = append(c.Documents, entry)
}
