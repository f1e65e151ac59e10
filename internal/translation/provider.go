// Package translation defines the provider contract for filling the
// machine-translation namespace, and the Google-backed implementation.
package translation

import "context"

// Progress reports one completed unit of a batch translation.
type Progress struct {
	Processed int
	Total     int
	// Err carries the failure for this unit; the batch itself continues.
	Err error
}

// ProgressFunc receives batch progress. May be nil.
type ProgressFunc func(Progress)

// Provider is the translation-service contract. The engine's data model is
// provider-agnostic; anything satisfying this interface can populate the
// machine-translation buckets.
type Provider interface {
	// Translate translates one string into the target provider-language code.
	Translate(ctx context.Context, text, targetLang string) (string, error)
	// TranslateBatch translates texts in order. Per-item failures surface
	// through the progress callback and as empty results; they do not abort
	// the batch.
	TranslateBatch(ctx context.Context, texts []string, targetLang string, onProgress ProgressFunc) ([]string, error)
	// Ready reports whether the provider is configured and usable.
	Ready() bool
}
