// Package cache stores provider translations so repeated fills do not
// re-query the service.
package cache

import (
	"context"
	"fmt"
	"sync"

	"glue-localizer/internal/textutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// TranslationCache fronts an optional PostgreSQL table with an in-memory map.
// Entries are keyed by (target language, source text hash). Without a pool the
// cache is memory-only and lasts one process.
type TranslationCache struct {
	pool   *pgxpool.Pool
	mu     sync.RWMutex
	memory map[string]string
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS translation_cache (
	lang       text NOT NULL,
	hash       text NOT NULL,
	source     text NOT NULL,
	translated text NOT NULL,
	PRIMARY KEY (lang, hash)
)`

// New creates a cache. pool may be nil for memory-only operation.
func New(pool *pgxpool.Pool) *TranslationCache {
	return &TranslationCache{
		pool:   pool,
		memory: make(map[string]string),
	}
}

// Init creates the backing table when a pool is configured.
func (c *TranslationCache) Init(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}
	if _, err := c.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init cache schema: %w", err)
	}
	return nil
}

func memoryKey(lang, hash string) string { return lang + ":" + hash }

// Get retrieves a cached translation for a source text and target language.
func (c *TranslationCache) Get(ctx context.Context, sourceText, lang string) (string, bool) {
	hash := textutil.Hash(sourceText)
	key := memoryKey(lang, hash)

	c.mu.RLock()
	if v, ok := c.memory[key]; ok {
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()

	if c.pool == nil {
		return "", false
	}

	var translated string
	err := c.pool.QueryRow(ctx,
		`SELECT translated FROM translation_cache WHERE lang = $1 AND hash = $2`,
		lang, hash).Scan(&translated)
	if err != nil {
		return "", false
	}

	c.mu.Lock()
	c.memory[key] = translated
	c.mu.Unlock()
	return translated, true
}

// Set stores a translation in memory and, when configured, in PostgreSQL.
func (c *TranslationCache) Set(ctx context.Context, sourceText, lang, translated string) error {
	hash := textutil.Hash(sourceText)

	c.mu.Lock()
	c.memory[memoryKey(lang, hash)] = translated
	c.mu.Unlock()

	if c.pool == nil {
		return nil
	}

	_, err := c.pool.Exec(ctx,
		`INSERT INTO translation_cache (lang, hash, source, translated)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (lang, hash) DO UPDATE SET translated = EXCLUDED.translated`,
		lang, hash, sourceText, translated)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Preload pulls every persisted translation into memory.
func (c *TranslationCache) Preload(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}

	rows, err := c.pool.Query(ctx, `SELECT lang, hash, translated FROM translation_cache`)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}
	defer rows.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for rows.Next() {
		var lang, hash, translated string
		if err := rows.Scan(&lang, &hash, &translated); err != nil {
			return fmt.Errorf("preload cache: %w", err)
		}
		c.memory[memoryKey(lang, hash)] = translated
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	log.Info().Int("count", count).Msg("Preloaded translation cache")
	return nil
}
