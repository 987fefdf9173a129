package gemini

import (
	"testing"

	"github.com/jobhuntd/leads/internal/ai"
)

func TestDecodeResponseStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"match_level\": \"High Match\", \"confidence_score\": 8.5}\n```"

	var analysis ai.MatchAnalysis
	if err := decodeResponse(raw, &analysis); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.MatchLevel != ai.MatchHigh {
		t.Fatalf("unexpected match level: %q", analysis.MatchLevel)
	}
	if analysis.ConfidenceScore != 8.5 {
		t.Fatalf("unexpected confidence score: %v", analysis.ConfidenceScore)
	}
}

func TestDecodeResponseExtractsObjectFromProse(t *testing.T) {
	raw := `Sure! Here is the analysis you asked for:
{"match_level": "Medium Match", "key_reasons": ["skills overlap"]}
Let me know if you need anything else.`

	var analysis ai.MatchAnalysis
	if err := decodeResponse(raw, &analysis); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.MatchLevel != ai.MatchMedium {
		t.Fatalf("unexpected match level: %q", analysis.MatchLevel)
	}
	if len(analysis.KeyReasons) != 1 || analysis.KeyReasons[0] != "skills overlap" {
		t.Fatalf("unexpected key reasons: %v", analysis.KeyReasons)
	}
}

func TestDecodeResponseWeaklyTypedFields(t *testing.T) {
	// Scores sometimes arrive as strings; the decode must coerce them.
	raw := `{"confidence_score": "7", "match_level": "Low Match"}`

	var analysis ai.MatchAnalysis
	if err := decodeResponse(raw, &analysis); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.ConfidenceScore != 7 {
		t.Fatalf("unexpected confidence score: %v", analysis.ConfidenceScore)
	}
}

func TestDecodeResponseRejectsGarbage(t *testing.T) {
	var analysis ai.MatchAnalysis
	err := decodeResponse("I could not produce a JSON object, sorry.", &analysis)
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
	if kind := ai.KindOf(err); kind != ai.KindMalformedResponse {
		t.Fatalf("expected malformed response classification, got %v", kind)
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain object", raw: `{"a": 1}`, want: `{"a": 1}`},
		{name: "fenced", raw: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "fenced without language", raw: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "surrounded by prose", raw: "result: {\"a\": 1} done", want: `{"a": 1}`},
		{name: "whitespace", raw: "  {\"a\": 1}\n", want: `{"a": 1}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := extractJSON(tt.raw); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
