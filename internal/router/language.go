package router

import "github.com/abadojack/whatlanggo"

// detectLanguage guesses the language of a message when the client
// omitted it. Unreliable detections fall back to the sender's
// registered language.
func detectLanguage(text, fallback string) string {
	info := whatlanggo.Detect(text)
	if info.IsReliable() {
		if code := info.Lang.Iso6391(); code != "" {
			return code
		}
	}
	return fallback
}
