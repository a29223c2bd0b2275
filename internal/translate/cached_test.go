package translate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loadsmile/AIchatbot/internal/cache"
)

type countingTranslator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	return "[" + targetLanguage + "] " + text, nil
}

func (c *countingTranslator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func Test_Cached_Translate_Hits_Cache_On_Repeat(t *testing.T) {
	req := require.New(t)
	inner := &countingTranslator{}
	translator := NewCachedTranslator(inner, cache.NewMemoryTranslationCache(), time.Minute)

	translated, err := translator.Translate(context.Background(), "hello", "es")
	req.NoError(err)
	req.Equal("[es] hello", translated)
	req.Equal(1, inner.count())

	// The cache write is asynchronous; repeat until it lands.
	req.Eventually(func() bool {
		before := inner.count()
		out, err := translator.Translate(context.Background(), "hello", "es")
		return err == nil && out == "[es] hello" && inner.count() == before
	}, 2*time.Second, 10*time.Millisecond)
}

func Test_Cached_Translate_Distinct_Languages_Miss(t *testing.T) {
	req := require.New(t)
	inner := &countingTranslator{}
	translator := NewCachedTranslator(inner, cache.NewMemoryTranslationCache(), time.Minute)

	_, err := translator.Translate(context.Background(), "hello", "es")
	req.NoError(err)
	_, err = translator.Translate(context.Background(), "hello", "fr")
	req.NoError(err)
	req.Equal(2, inner.count())
}

func Test_Cached_Translate_Provider_Error_Not_Cached(t *testing.T) {
	req := require.New(t)
	inner := &countingTranslator{err: errors.New("provider unavailable")}
	translator := NewCachedTranslator(inner, cache.NewMemoryTranslationCache(), time.Minute)

	_, err := translator.Translate(context.Background(), "hello", "es")
	req.Error(err)

	inner.err = nil
	translated, err := translator.Translate(context.Background(), "hello", "es")
	req.NoError(err)
	req.Equal("[es] hello", translated)
	req.Equal(2, inner.count())
}
