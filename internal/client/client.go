package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	improve "aiupstart.com/go-improve"
)

// DefaultBaseURL is where the editor extension expects the service.
const DefaultBaseURL = "http://localhost:8000"

// Client calls a running improve service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Improve sends the selection and instruction and returns the extracted result.
func (c *Client) Improve(ctx context.Context, code, prompt string) (improve.ExtractionResult, error) {
	payload, err := json.Marshal(map[string]string{"code": code, "prompt": prompt})
	if err != nil {
		return improve.ExtractionResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ai-improve", bytes.NewReader(payload))
	if err != nil {
		return improve.ExtractionResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "go-improve/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return improve.ExtractionResult{}, fmt.Errorf("failed to connect to AI backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return improve.ExtractionResult{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return improve.ExtractionResult{}, fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return improve.ExtractionResult{}, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var result improve.ExtractionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return improve.ExtractionResult{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}
