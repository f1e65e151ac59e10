// Package fsys is the narrow filesystem contract the engine depends on.
// All reads and writes are UTF-8 without a byte-order mark.
package fsys

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FS is the storage contract consumed by the engine. Any implementation
// satisfying it can back the tool; the engine never touches os directly.
type FS interface {
	FileExists(path string) bool
	DirExists(path string) bool
	// ListFiles returns files under dir whose base name matches the glob
	// pattern, descending into subdirectories when recursive is set.
	ListFiles(dir, pattern string, recursive bool) ([]string, error)
	ReadText(path string) (string, error)
	ReadLines(path string) ([]string, error)
	WriteText(path, text string) error
	WriteLines(path string, lines []string) error
	Remove(path string) error
}

const bom = "\xef\xbb\xbf"

// SplitLines splits file text into lines, tolerating CRLF endings and a
// trailing newline.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, bom)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// JoinLines is the inverse of SplitLines: LF endings and a final newline.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// OS is the real-filesystem implementation.
type OS struct{}

func NewOS() OS { return OS{} }

func (OS) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (OS) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OS) ListFiles(dir, pattern string, recursive bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return out, nil
}

func (OS) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimPrefix(string(data), bom), nil
}

func (o OS) ReadLines(path string) ([]string, error) {
	text, err := o.ReadText(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(text), nil
}

func (OS) WriteText(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (o OS) WriteLines(path string, lines []string) error {
	return o.WriteText(path, JoinLines(lines))
}

func (OS) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
