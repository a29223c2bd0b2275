package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// TranslationCache stores translated text keyed by source text and
// target language, so repeated sends of the same phrase to the same
// language skip the provider round trip.
type TranslationCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, translated string, ttl time.Duration) error
	BuildKey(text, targetLanguage string) string
	Close() error
}
