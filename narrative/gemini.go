package narrative

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// GeminiGenerator adapts a Gemini model to the Generator interface.
// The API key attached at client construction is the caller identity
// every outbound request carries.
type GeminiGenerator struct {
	Model *genai.GenerativeModel
}

// Generate issues one content-generation request and returns the first
// candidate's text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.Model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("response contained no candidates")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("response part is not text")
	}
	return string(text), nil
}
