// Package extractors provides shared helpers for the text extractor
// adapters.
package extractors

import (
	"strings"

	"github.com/chunkforge/chunkforge/internal/core/domain"
)

// maxTitleLength truncates implausibly long first lines.
const maxTitleLength = 120

// TitleFromText derives a best-effort title: the first non-empty line of
// the extracted text, falling back to the file name when the text starts
// with nothing usable.
func TitleFromText(text, path string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxTitleLength {
			line = line[:maxTitleLength]
		}
		return line
	}
	return domain.NameFromPath(path)
}
