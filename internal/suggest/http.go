package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/loadsmile/AIchatbot/internal/config"
)

// HTTPSuggester calls an external analysis service that returns reply
// suggestions for agents.
type HTTPSuggester struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSuggester(cfg config.SuggesterConfig) *HTTPSuggester {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPSuggester{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type suggestRequest struct {
	Message string `json:"message"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (s *HTTPSuggester) Suggest(ctx context.Context, text string) ([]string, error) {
	body, err := json.Marshal(suggestRequest{Message: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal suggestion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build suggestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("suggester returned status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var out suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion response: %w", err)
	}

	return out.Suggestions, nil
}
