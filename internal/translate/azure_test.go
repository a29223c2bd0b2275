package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loadsmile/AIchatbot/internal/config"
)

func azureFixture(t *testing.T, handler http.HandlerFunc) *AzureTranslator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAzureTranslator(config.TranslatorConfig{
		Endpoint: srv.URL,
		Key:      "test-key",
		Region:   "westeurope",
		Timeout:  2 * time.Second,
	})
}

func Test_Azure_Translate_Request_Shape(t *testing.T) {
	req := require.New(t)

	translator := azureFixture(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal(http.MethodPost, r.Method)
		req.Equal("/translate", r.URL.Path)
		req.Equal("3.0", r.URL.Query().Get("api-version"))
		req.Equal("es", r.URL.Query().Get("to"))
		req.Equal("test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		req.Equal("westeurope", r.Header.Get("Ocp-Apim-Subscription-Region"))
		req.Equal("application/json", r.Header.Get("Content-Type"))

		var body []map[string]string
		req.NoError(json.NewDecoder(r.Body).Decode(&body))
		req.Len(body, 1)
		req.Equal("hello", body[0]["text"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"translations":[{"text":"hola","to":"es"}]}]`))
	})

	translated, err := translator.Translate(context.Background(), "hello", "es")
	req.NoError(err)
	req.Equal("hola", translated)
}

func Test_Azure_Translate_Non_200_Status(t *testing.T) {
	req := require.New(t)

	translator := azureFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401000,"message":"invalid subscription key"}}`))
	})

	_, err := translator.Translate(context.Background(), "hello", "es")
	req.Error(err)
	req.Contains(err.Error(), "status 401")
}

func Test_Azure_Translate_Empty_Response(t *testing.T) {
	req := require.New(t)

	translator := azureFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := translator.Translate(context.Background(), "hello", "es")
	req.ErrorIs(err, ErrEmptyResponse)
}

func Test_Azure_Translate_Context_Cancelled(t *testing.T) {
	req := require.New(t)

	translator := azureFixture(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[{"translations":[{"text":"hola","to":"es"}]}]`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := translator.Translate(ctx, "hello", "es")
	req.Error(err)
}
