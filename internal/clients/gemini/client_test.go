package gemini

import (
	"testing"

	"google.golang.org/genai"
)

func TestExtractTextFromResponse(t *testing.T) {
	tests := []struct {
		name   string
		result *genai.GenerateContentResponse
		want   string
	}{
		{"nil", nil, ""},
		{"no candidates", &genai.GenerateContentResponse{}, ""},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, ""},
		{
			"joins parts",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: "Fixed "}, nil, {Text: "bonds"}}},
			}}},
			"Fixed bonds",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTextFromResponse(tt.result); got != tt.want {
				t.Errorf("extractTextFromResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}
