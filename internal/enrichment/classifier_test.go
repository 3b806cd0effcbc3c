package enrichment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/enrichment"
)

func TestHTTPClassifierSendsTextAndDecodes(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":"6","priority":"high","extra":{"score":0.8}}`))
	}))
	defer srv.Close()

	resp, err := enrichment.NewHTTPClassifier(srv.URL, 2*time.Second).Classify(context.Background(), "passenger fainted")

	require.NoError(t, err)
	assert.Equal(t, "passenger fainted", received["text"])
	assert.Equal(t, "6", resp.Raw["category"])
	assert.Equal(t, "high", resp.Raw["priority"])
}

func TestHTTPClassifierRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := enrichment.NewHTTPClassifier(srv.URL, time.Second).Classify(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPClassifierRejectsMalformedBody(t *testing.T) {
	for _, body := range []string{"", "not json", "[1,2,3]", "null"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := enrichment.NewHTTPClassifier(srv.URL, time.Second).Classify(context.Background(), "x")
		assert.ErrorIs(t, err, enrichment.ErrMalformedResponse, "body %q", body)
		srv.Close()
	}
}

func TestHTTPClassifierUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := enrichment.NewHTTPClassifier(url, time.Second).Classify(context.Background(), "x")
	assert.Error(t, err)
}

func TestHTTPClassifierHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := enrichment.NewHTTPClassifier("http://127.0.0.1:1", time.Second).Classify(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
