// Package filesystem discovers source documents in a local directory.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
)

// Ensure Scanner implements the interface.
var _ driven.Scanner = (*Scanner)(nil)

// Scanner walks a directory tree looking for files with a recognised
// extension. Directories listed in excludeDirs are never entered, so a
// pipeline whose output directory nests inside its input never
// re-ingests its own artifacts.
type Scanner struct {
	extensions map[string]bool
	excluded   []string
}

// New creates a scanner accepting the given extensions (lower-case,
// with leading dot). Any excludeDirs are resolved to absolute paths
// and skipped wholesale during scans.
func New(extensions []string, excludeDirs ...string) *Scanner {
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = true
	}

	var excluded []string
	for _, dir := range excludeDirs {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = filepath.Clean(dir)
		}
		excluded = append(excluded, abs)
	}
	return &Scanner{extensions: set, excluded: excluded}
}

// Scan returns recognised files under dir, sorted by path so runs are
// deterministic. Hidden directories are skipped.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]domain.SourceFile, error) {
	var files []domain.SourceFile

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != dir && (strings.HasPrefix(d.Name(), ".") || s.Excluded(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.Recognises(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, domain.SourceFile{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Recognises reports whether the path carries an accepted extension.
func (s *Scanner) Recognises(path string) bool {
	return s.extensions[strings.ToLower(filepath.Ext(path))]
}

// Excluded reports whether the path is, or lies under, an excluded
// directory.
func (s *Scanner) Excluded(path string) bool {
	if len(s.excluded) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	for _, ex := range s.excluded {
		if abs == ex || strings.HasPrefix(abs, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
