package llm

import (
	"context"
	"fmt"

	"aiupstart.com/go-improve/internal/utils"
	openai "github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a chat-completions client. An empty baseURL uses the public API.
func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (LLMResponse, error) {
	utils.Logger.Debug().Str("module", "llm").Str("model", c.model).Msgf("Generating response with OpenAI model for prompt of %d bytes", len(prompt))

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Logger.Error().Err(err).Str("module", "llm").Msg("Failed to generate response from OpenAI")
		return LLMResponse{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		utils.Logger.Error().Str("module", "llm").Msg("No choices returned from OpenAI API")
		return LLMResponse{}, fmt.Errorf("no choices returned from OpenAI API")
	}
	utils.Logger.Debug().Str("module", "llm").Msgf("OpenAI response: %s", resp.Choices[0].Message.Content)

	return LLMResponse{
		Content: resp.Choices[0].Message.Content,
		Usage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
