package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/jobhuntd/leads/internal/ai"
)

// decodeResponse parses the raw model output into the typed target. Non-JSON
// wrapping (code fences, explanatory prose around a JSON object) is stripped
// first; if nothing parseable remains the error is classified as a malformed
// response, which is not retryable.
func decodeResponse(raw string, target any) error {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return &ai.ServiceError{
			Kind: ai.KindMalformedResponse,
			Err:  fmt.Errorf("parse response: %w", err),
		}
	}

	// The model is loose with primitive types (scores as strings, ints as
	// floats); decode weakly into the typed record. Unknown fields are
	// ignored, missing ones stay zero-valued.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return &ai.ServiceError{
			Kind: ai.KindMalformedResponse,
			Err:  fmt.Errorf("decode response: %w", err),
		}
	}

	return nil
}

// extractJSON strips markdown fences and, as a last resort, cuts the substring
// between the first "{" and the last "}". Handles services that wrap valid
// payloads in explanatory prose.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	if !strings.HasPrefix(raw, "{") {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}

	return strings.TrimSpace(raw)
}
