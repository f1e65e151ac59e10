package translation

import (
	"context"
	"fmt"
	"time"

	"github.com/bregydoc/gtranslate"
	"github.com/rs/zerolog/log"
)

const maxRetries = 3

// GoogleClient translates through the public Google Translate endpoint.
// A per-call delay keeps request rates under the service's informal limits.
type GoogleClient struct {
	sourceLang string
	delay      time.Duration
}

// NewGoogleClient creates a client translating from sourceLang (a provider
// language code, e.g. "en").
func NewGoogleClient(sourceLang string, delay time.Duration) *GoogleClient {
	return &GoogleClient{sourceLang: sourceLang, delay: delay}
}

// Ready reports whether the client is usable. The public endpoint needs no
// credentials, only a configured source language.
func (c *GoogleClient) Ready() bool {
	return c.sourceLang != ""
}

// Translate translates one string, retrying transient failures with backoff.
func (c *GoogleClient) Translate(ctx context.Context, text, targetLang string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*2) * time.Second
			log.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Retrying translation")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		translated, err := gtranslate.TranslateWithParams(text, gtranslate.TranslationParams{
			From: c.sourceLang,
			To:   targetLang,
		})
		if err == nil {
			return translated, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("translation failed after %d retries: %w", maxRetries, lastErr)
}

// TranslateBatch translates texts one at a time with the configured delay
// between calls. A failing item leaves an empty slot and is reported through
// the progress callback; the rest of the batch proceeds.
func (c *GoogleClient) TranslateBatch(ctx context.Context, texts []string, targetLang string, onProgress ProgressFunc) ([]string, error) {
	results := make([]string, len(texts))

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		translated, err := c.Translate(ctx, text, targetLang)
		if err == nil {
			results[i] = translated
		}
		if onProgress != nil {
			onProgress(Progress{Processed: i + 1, Total: len(texts), Err: err})
		}
	}
	return results, nil
}
