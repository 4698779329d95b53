package agent

import (
	"context"
	"errors"
	"fmt"

	improve "aiupstart.com/go-improve"
	"aiupstart.com/go-improve/internal/llm"
	"aiupstart.com/go-improve/internal/metrics"
	"aiupstart.com/go-improve/internal/utils"
)

// ErrUpstream marks a failed model call. Callers map it to a 500.
var ErrUpstream = errors.New("upstream model call failed")

// Improver turns a code selection and an instruction into rewritten code and an
// explanation with a single model call.
type Improver struct {
	llmClient llm.LLMClient
	extractor improve.CodeExtractor
}

func NewImprover(llmClient llm.LLMClient) *Improver {
	return &Improver{
		llmClient: llmClient,
		extractor: improve.MarkdownCodeExtractor{},
	}
}

// Improve builds the prompt, calls the model once and extracts the result. A reply
// without a code block is not an error; it yields empty code and the sentinel
// explanation.
func (a *Improver) Improve(ctx context.Context, code, instruction string) (improve.ExtractionResult, error) {
	prompt := BuildPrompt(code, instruction)
	utils.Logger.Debug().Str("module", "agent").Int("prompt_bytes", len(prompt)).Msg("Prompt going to LLM")

	llmResp, err := a.llmClient.Generate(ctx, prompt)
	if err != nil {
		utils.Logger.Error().Err(err).Str("module", "agent").Msg("Model call failed")
		return improve.ExtractionResult{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	result := a.extractor.Extract(llmResp.Content)
	metrics.ExtractionsTotal.WithLabelValues(
		metrics.Present(result.Code != ""),
		metrics.Present(result.Explanation != improve.NoExplanation),
	).Inc()
	if result.Code == "" {
		utils.Logger.Warn().Str("module", "agent").Msg("No code block found in LLM response")
	}
	return result, nil
}
