package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrMalformedResponse marks a classifier reply that is not a JSON object.
var ErrMalformedResponse = errors.New("classifier returned a malformed response")

// Response is the decoded classifier payload. Unknown fields are kept for
// provenance and otherwise ignored.
type Response struct {
	Raw map[string]any
}

// Classifier guesses a department and priority for complaint text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Response, error)
}

type classifyRequest struct {
	Text string `json:"text"`
}

// HTTPClassifier calls the external classification service over HTTP.
type HTTPClassifier struct {
	url     string
	timeout time.Duration
}

// NewHTTPClassifier builds a client for the given endpoint. A zero timeout
// leaves the client default in place.
func NewHTTPClassifier(url string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{url: strings.TrimSpace(url), timeout: timeout}
}

// Classify issues exactly one POST; there is no retry.
func (h *HTTPClassifier) Classify(ctx context.Context, text string) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if h.url == "" {
		return Response{}, errors.New("classifier url not configured")
	}

	agent := fiber.Post(h.url).JSON(classifyRequest{Text: text})
	if h.timeout > 0 {
		agent.Timeout(h.timeout)
	}
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return Response{}, fmt.Errorf("classifier request: %w", errors.Join(errs...))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return Response{}, fmt.Errorf("classifier responded with status %d", status)
	}
	return decodeResponse(body)
}

func decodeResponse(body []byte) (Response, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return Response{}, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload == nil {
		return Response{}, fmt.Errorf("%w: null body", ErrMalformedResponse)
	}
	return Response{Raw: payload}, nil
}
