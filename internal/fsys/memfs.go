package fsys

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// Mem is an in-memory FS used by tests and dry runs. Paths use forward
// slashes; directories exist implicitly once a file lives under them.
type Mem struct {
	mu    sync.RWMutex
	files map[string]string
}

func NewMem() *Mem {
	return &Mem{files: make(map[string]string)}
}

func (m *Mem) FileExists(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[path.Clean(p)]
	return ok
}

func (m *Mem) DirExists(p string) bool {
	prefix := path.Clean(p) + "/"
	m.mu.RLock()
	defer m.mu.RUnlock()
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			return true
		}
	}
	return false
}

func (m *Mem) ListFiles(dir, pattern string, recursive bool) ([]string, error) {
	prefix := path.Clean(dir) + "/"
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for f := range m.files {
		if !strings.HasPrefix(f, prefix) {
			continue
		}
		rel := strings.TrimPrefix(f, prefix)
		if !recursive && strings.Contains(rel, "/") {
			continue
		}
		ok, err := path.Match(pattern, path.Base(f))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Mem) ReadText(p string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.files[path.Clean(p)]
	if !ok {
		return "", fmt.Errorf("read %s: %w", p, fs.ErrNotExist)
	}
	return text, nil
}

func (m *Mem) ReadLines(p string) ([]string, error) {
	text, err := m.ReadText(p)
	if err != nil {
		return nil, err
	}
	return SplitLines(text), nil
}

func (m *Mem) WriteText(p, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(p)] = text
	return nil
}

func (m *Mem) WriteLines(p string, lines []string) error {
	return m.WriteText(p, JoinLines(lines))
}

func (m *Mem) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := path.Clean(p)
	if _, ok := m.files[key]; !ok {
		return fmt.Errorf("remove %s: %w", p, fs.ErrNotExist)
	}
	delete(m.files, key)
	return nil
}
