package translate

import "context"

// Translator converts text into a target language. Failures are always
// recoverable for callers: the router falls back to the original text
// and annotates the delivered record instead of failing the send.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}
