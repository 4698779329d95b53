package llm

import (
	"context"
	"time"

	"aiupstart.com/go-improve/internal/metrics"
	"aiupstart.com/go-improve/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentedClient wraps an LLMClient and records call counts, latency and token
// usage per provider.
type InstrumentedClient struct {
	provider string
	inner    LLMClient
}

func NewInstrumentedClient(provider string, inner LLMClient) *InstrumentedClient {
	return &InstrumentedClient{provider: provider, inner: inner}
}

func (c *InstrumentedClient) Generate(ctx context.Context, prompt string) (LLMResponse, error) {
	timer := prometheus.NewTimer(metrics.LLMLatencySeconds.WithLabelValues(c.provider))
	start := time.Now()
	resp, err := c.inner.Generate(ctx, prompt)
	timer.ObserveDuration()

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return resp, err
	}
	metrics.LLMRequestsTotal.WithLabelValues(c.provider, "ok").Inc()
	metrics.LLMTokensTotal.WithLabelValues(c.provider, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensTotal.WithLabelValues(c.provider, "completion").Add(float64(resp.Usage.CompletionTokens))
	metrics.LLMTokensTotal.WithLabelValues(c.provider, "total").Add(float64(resp.Usage.TotalTokens))

	utils.Logger.Info().
		Str("module", "llm").
		Str("provider", c.provider).
		Dur("elapsed", time.Since(start)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("Model call completed")
	return resp, nil
}
