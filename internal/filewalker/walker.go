// Package filewalker discovers source files for key extraction.
package filewalker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"glue-localizer/internal/fsys"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions lists the Lua-family file types scanned for key references.
var SupportedExtensions = map[string]bool{
	".lua": true,
	".xml": true,
	".toc": true,
}

// Walker traverses a source tree and collects scannable files.
type Walker struct {
	fs fsys.FS
	// skipDirs are directory names excluded from the walk; the locale files
	// themselves must not feed the valid-keys set.
	skipDirs map[string]bool
}

func NewWalker(storage fsys.FS) *Walker {
	return &Walker{
		fs: storage,
		skipDirs: map[string]bool{
			"locales": true,
			"libs":    true,
		},
	}
}

// Walk returns every supported file under root, sorted. A missing root is a
// caller-side path error and is surfaced immediately.
func (w *Walker) Walk(root string) ([]string, error) {
	if !w.fs.DirExists(root) {
		return nil, fmt.Errorf("source directory %s: %w", root, fs.ErrNotExist)
	}

	files, err := w.fs.ListFiles(root, "*", true)
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	var out []string
	for _, path := range files {
		if !SupportedExtensions[strings.ToLower(filepath.Ext(path))] {
			continue
		}
		if w.skipped(root, path) {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)

	log.Info().Int("count", len(out)).Str("root", root).Msg("Discovered source files")
	return out, nil
}

func (w *Walker) skipped(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.skipDirs[strings.ToLower(part)] {
			return true
		}
	}
	return false
}
