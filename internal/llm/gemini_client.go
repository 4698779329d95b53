package llm

import (
	"context"
	"fmt"

	"aiupstart.com/go-improve/internal/utils"
	"google.golang.org/genai"
)

// GeminiClient generates text with Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini API client. An empty baseURL uses the public endpoint.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (LLMResponse, error) {
	utils.Logger.Debug().Str("module", "llm").Str("model", c.model).Msgf("Generating response with Gemini model for prompt of %d bytes", len(prompt))

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		utils.Logger.Error().Err(err).Str("module", "llm").Msg("Failed to generate response from Gemini")
		return LLMResponse{}, fmt.Errorf("Gemini API error: %w", err)
	}
	if len(result.Candidates) == 0 {
		utils.Logger.Error().Str("module", "llm").Msg("No candidates returned from Gemini API")
		return LLMResponse{}, fmt.Errorf("no candidates returned from Gemini API")
	}
	text := result.Text()
	utils.Logger.Debug().Str("module", "llm").Msgf("Gemini response: %s", text)

	resp := LLMResponse{Content: text}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return resp, nil
}
