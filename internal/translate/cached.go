package translate

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/loadsmile/AIchatbot/internal/cache"
	"github.com/loadsmile/AIchatbot/pkg/log"
)

// CachedTranslator wraps a Translator with a translation cache and
// singleflight, so a public send fanning out to several recipients with
// the same target language costs one provider call, and repeated
// phrases skip the provider entirely while the cache entry lives.
type CachedTranslator struct {
	next  Translator
	cache cache.TranslationCache
	ttl   time.Duration
	sf    singleflight.Group
}

func NewCachedTranslator(next Translator, c cache.TranslationCache, ttl time.Duration) *CachedTranslator {
	return &CachedTranslator{next: next, cache: c, ttl: ttl}
}

func (t *CachedTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	key := t.cache.BuildKey(text, targetLanguage)

	result, err, _ := t.sf.Do(key, func() (interface{}, error) {
		cached, err := t.cache.Get(ctx, key)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("translation cache get error")
		}

		translated, err := t.next.Translate(ctx, text, targetLanguage)
		if err != nil {
			return "", err
		}

		// Store in cache (async to avoid blocking delivery)
		go func() {
			cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := t.cache.Set(cacheCtx, key, translated, t.ttl); err != nil {
				l := log.L()
				l.Warn().Err(err).Msg("translation cache set error")
			}
		}()

		return translated, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
