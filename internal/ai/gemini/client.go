package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jobhuntd/leads/internal/ai"
)

const (
	defaultModel      = "gemini-2.5-pro"
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
)

// Stubbed in tests to keep backoff instant.
var sleep = time.Sleep

// contentCaller is the slice of the genai client the generator needs.
type contentCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Gemini API behind a bounded-retry protocol: transient
// failures (overload, rate limiting, unavailability) are retried with
// exponential backoff, everything else aborts on the first attempt.
type Generator struct {
	models     contentCaller
	model      string
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:     client.Models,
		model:      model,
		maxRetries: maxRetries,
		baseDelay:  defaultBaseDelay,
		logger:     logger,
	}, nil
}

// GenerateContent sends the prompt and returns the concatenated textual
// response. At most maxRetries attempts are made; backoff doubles between
// attempts and is never applied after the last one. The returned error carries
// the classification for the orchestrator's fallback decision.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", &ai.ServiceError{Kind: ai.KindFatal, Err: errors.New("prompt must not be empty")}
	}

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err == nil {
			return collectText(resp)
		}

		if !isTransient(err) {
			return "", &ai.ServiceError{Kind: ai.KindFatal, Err: err}
		}
		lastErr = err

		if attempt < g.maxRetries-1 {
			delay := g.baseDelay << attempt
			g.logger.Warn("analysis service overloaded, backing off",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", g.maxRetries),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
			sleep(delay)
		}
	}

	return "", &ai.ServiceError{
		Kind: ai.KindTransient,
		Err:  fmt.Errorf("retries exhausted after %d attempts: %w", g.maxRetries, lastErr),
	}
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// transientCodes are the HTTP statuses the service uses for overload and rate
// limiting, including the non-standard 529 some gateways emit.
var transientCodes = map[int]bool{
	429: true,
	500: true,
	503: true,
	529: true,
}

func isTransient(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	if transientCodes[apiErr.Code] {
		return true
	}

	switch apiErr.Status {
	case "RESOURCE_EXHAUSTED", "UNAVAILABLE":
		return true
	}

	return false
}

func collectText(resp *genai.GenerateContentResponse) (string, error) {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", &ai.ServiceError{Kind: ai.KindMalformedResponse, Err: errors.New("empty response")}
	}

	return output, nil
}
