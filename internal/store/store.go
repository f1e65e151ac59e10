// Package store orchestrates directory-level loading, saving and scanning.
package store

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"glue-localizer/internal/dataset"
	"glue-localizer/internal/filewalker"
	"glue-localizer/internal/fsys"
	"glue-localizer/internal/locale"
	"glue-localizer/internal/parser"
	"glue-localizer/internal/synth"
	"glue-localizer/internal/worker"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNotFound marks a missing file or directory given to an entry point.
	ErrNotFound = errors.New("not found")
	// ErrInvalidLocale marks an unrecognized locale code; the operation does
	// not proceed.
	ErrInvalidLocale = errors.New("invalid locale")
)

const backupTimeFormat = "20060102_150405"

// SaveOptions controls a locale save.
type SaveOptions struct {
	// Backup copies the existing file to a timestamped .backup before the
	// destructive write.
	Backup bool
}

// Progress reports one completed unit of a batch save.
type Progress struct {
	Locale    string
	Processed int
	Total     int
	Err       error
}

// Store ties the filesystem, extractor and synthesizer to one locale directory.
type Store struct {
	fs    fsys.FS
	dir   string
	ext   *parser.Extractor
	synth *synth.Synthesizer
}

func New(storage fsys.FS, dir, table string) *Store {
	return &Store{
		fs:    storage,
		dir:   dir,
		ext:   parser.NewExtractorForTable(table),
		synth: synth.NewForTable(table),
	}
}

// LocaleFile returns the path of a locale's file.
func (s *Store) LocaleFile(code string) string {
	return filepath.Join(s.dir, code+".lua")
}

// GTFile returns the path of a machine-translation bucket's file.
func (s *Store) GTFile(gtCode string) string {
	return filepath.Join(s.dir, gtCode+"-GT.lua")
}

// LoadDataSet reads every present locale and machine-translation file in the
// directory into a fresh data set. Loading never deletes or rewrites anything.
func (s *Store) LoadDataSet() (*dataset.Set, error) {
	if !s.fs.DirExists(s.dir) {
		return nil, fmt.Errorf("locale directory %s: %w", s.dir, ErrNotFound)
	}

	ds := dataset.New()
	for _, l := range locale.All() {
		path := s.LocaleFile(l.Code)
		if !s.fs.FileExists(path) {
			continue
		}
		entries, err := s.readAssignments(path)
		if err != nil {
			return nil, err
		}
		ds.AddLocale(l.Code, entries)
	}

	for _, gt := range locale.GTCodes() {
		path := s.GTFile(gt)
		if !s.fs.FileExists(path) {
			continue
		}
		entries, err := s.readAssignments(path)
		if err != nil {
			return nil, err
		}
		ds.AddGTLocale(gt, entries)
	}

	log.Info().
		Int("locales", len(ds.Locales())).
		Int("gt_buckets", len(ds.GTLocales())).
		Int("keys", len(ds.AllKeys())).
		Msg("Loaded locale directory")
	return ds, nil
}

func (s *Store) readAssignments(path string) ([]dataset.Assignment, error) {
	lines, err := s.fs.ReadLines(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	var entries []dataset.Assignment
	for _, line := range lines {
		if key, value, ok := s.ext.ParseAssignment(line); ok {
			entries = append(entries, dataset.Assignment{Key: key, Value: value})
		}
	}
	return entries, nil
}

// SaveLocale regenerates one locale file from the data set.
func (s *Store) SaveLocale(ds *dataset.Set, code string, opts SaveOptions) error {
	if !locale.IsSupported(code) {
		return fmt.Errorf("locale %q: %w", code, ErrInvalidLocale)
	}
	return s.saveFile(s.LocaleFile(code), []string{code}, ds.Translations(code), opts)
}

// SaveGTLocale regenerates a machine-translation file. Its guard covers every
// locale variant of the bucket.
func (s *Store) SaveGTLocale(ds *dataset.Set, gtCode string, opts SaveOptions) error {
	codes := locale.VariantsOf(gtCode)
	if len(codes) == 0 {
		return fmt.Errorf("gt bucket %q: %w", gtCode, ErrInvalidLocale)
	}
	return s.saveFile(s.GTFile(gtCode), codes, ds.GTTranslations(gtCode), opts)
}

func (s *Store) saveFile(path string, codes []string, translations map[string]string, opts SaveOptions) error {
	var existing []string
	if s.fs.FileExists(path) {
		lines, err := s.fs.ReadLines(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		existing = lines
		if existing == nil {
			existing = []string{}
		}
		if opts.Backup {
			if err := s.writeBackup(path); err != nil {
				return err
			}
		}
	}

	out := s.synth.Synthesize(codes, existing, translations)
	if err := s.fs.WriteLines(path, out); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (s *Store) writeBackup(path string) error {
	text, err := s.fs.ReadText(path)
	if err != nil {
		return fmt.Errorf("backup read %s: %w", path, err)
	}
	backupPath := fmt.Sprintf("%s.%s.backup", path, time.Now().Format(backupTimeFormat))
	if err := s.fs.WriteText(backupPath, text); err != nil {
		return fmt.Errorf("backup write %s: %w", backupPath, err)
	}
	log.Debug().Str("backup", backupPath).Msg("Wrote backup")
	return nil
}

// SaveAll regenerates every loaded locale's file concurrently. Per-locale
// failures are reported through the progress callback and do not stop other
// locales; the batch only aborts on context cancellation.
func (s *Store) SaveAll(ctx context.Context, ds *dataset.Set, workers int, opts SaveOptions, onProgress func(Progress)) error {
	codes := ds.Locales()
	total := len(codes)

	var mu sync.Mutex
	processed := 0
	report := func(code string, err error) {
		mu.Lock()
		processed++
		p := Progress{Locale: code, Processed: processed, Total: total, Err: err}
		mu.Unlock()
		if onProgress != nil {
			onProgress(p)
		}
	}

	pool := worker.NewPool(workers, func(ctx context.Context, code string) (struct{}, error) {
		err := s.SaveLocale(ds, code, opts)
		report(code, err)
		return struct{}{}, err
	})
	pool.Execute(ctx, codes)
	return ctx.Err()
}

// Backups lists the backup files for one regenerated file, sorted. The
// timestamped name format makes lexicographic order chronological.
func (s *Store) Backups(path string) ([]string, error) {
	matches, err := s.fs.ListFiles(s.dir, filepath.Base(path)+".*.backup", false)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// RestoreBackup overwrites path with its most recent backup and returns the
// backup used.
func (s *Store) RestoreBackup(path string) (string, error) {
	backups, err := s.Backups(path)
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", fmt.Errorf("no backup for %s: %w", path, ErrNotFound)
	}
	latest := backups[len(backups)-1]
	text, err := s.fs.ReadText(latest)
	if err != nil {
		return "", fmt.Errorf("read backup: %w", err)
	}
	if err := s.fs.WriteText(path, text); err != nil {
		return "", fmt.Errorf("restore %s: %w", path, err)
	}
	return latest, nil
}

// DeleteBackups removes every backup file in the locale directory and returns
// the count removed.
func (s *Store) DeleteBackups() (int, error) {
	matches, err := s.fs.ListFiles(s.dir, "*.backup", false)
	if err != nil {
		return 0, fmt.Errorf("list backups: %w", err)
	}
	removed := 0
	for _, path := range matches {
		if err := s.fs.Remove(path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// ScanSource extracts key references from a source tree. Files are parsed in
// parallel; merging stays sequential because it mutates the shared per-key
// location lists under the cap rule.
func (s *Store) ScanSource(ctx context.Context, root string, workers int) (*parser.ParseResult, error) {
	w := filewalker.NewWalker(s.fs)
	files, err := w.Walk(root)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", root, ErrNotFound)
		}
		return nil, err
	}

	pool := worker.NewPool(workers, func(ctx context.Context, path string) (*parser.ParseResult, error) {
		lines, err := s.fs.ReadLines(path)
		if err != nil {
			return nil, err
		}
		return s.ext.ExtractLines(path, lines), nil
	})
	outcomes := pool.Execute(ctx, files)

	merged := parser.NewParseResult()
	for _, oc := range outcomes {
		if oc.Err != nil {
			log.Warn().Err(oc.Err).Str("file", oc.Input).Msg("Skipping unreadable file")
			continue
		}
		merged.Merge(oc.Result)
	}

	log.Info().Int("files", len(files)).Int("keys", merged.Len()).Msg("Source scan complete")
	return merged, ctx.Err()
}
