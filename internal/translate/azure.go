package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/loadsmile/AIchatbot/internal/config"
)

var ErrEmptyResponse = errors.New("translator returned no translations")

// AzureTranslator calls the Azure Translator v3 REST API:
// POST {endpoint}/translate?api-version=3.0&to={lang} with a
// [{"text": ...}] body and subscription key/region headers.
type AzureTranslator struct {
	endpoint string
	key      string
	region   string
	client   *http.Client
}

func NewAzureTranslator(cfg config.TranslatorConfig) *AzureTranslator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AzureTranslator{
		endpoint: cfg.Endpoint,
		key:      cfg.Key,
		region:   cfg.Region,
		client:   &http.Client{Timeout: timeout},
	}
}

type azureRequestItem struct {
	Text string `json:"text"`
}

type azureResult struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

func (t *AzureTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	body, err := json.Marshal([]azureRequestItem{{Text: text}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal translation request: %w", err)
	}

	u := fmt.Sprintf("%s/translate?api-version=3.0&to=%s", t.endpoint, url.QueryEscape(targetLanguage))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", t.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", t.region)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translator returned status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var results []azureResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if len(results) == 0 || len(results[0].Translations) == 0 {
		return "", ErrEmptyResponse
	}

	return results[0].Translations[0].Text, nil
}
