package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultCompletionsURL = "https://api.openai.com/v1/chat/completions"
	defaultModel          = "gpt-3.5-turbo"
	defaultTimeout        = 10 * time.Second

	// defaultStartingPrompt is used when the completion comes back empty.
	defaultStartingPrompt = "Start with any word!"
)

// OpenAIOracle validates word associations with the OpenAI chat
// completions API. The API key is supplied per call by the client, not
// held by the server.
type OpenAIOracle struct {
	url        string
	model      string
	httpClient *http.Client
}

type NewOpenAIOracleOptions struct {
	// URL overrides the completions endpoint, e.g. for tests.
	URL string
	// Model overrides the completions model.
	Model string
	// Timeout bounds each request. Ignored if HTTPClient is set.
	Timeout time.Duration
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// NewOpenAIOracle creates an oracle backed by the OpenAI API.
func NewOpenAIOracle(opts NewOpenAIOracleOptions) *OpenAIOracle {
	if opts.URL == "" {
		opts.URL = defaultCompletionsURL
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	return &OpenAIOracle{
		url:        opts.URL,
		model:      opts.Model,
		httpClient: opts.HTTPClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ValidateAssociation asks the completions API whether candidate logically
// follows prior. The judgment is reduced to a boolean by checking the
// completion text for "valid".
func (o *OpenAIOracle) ValidateAssociation(ctx context.Context, prior string, candidate string, apiKey string) (bool, error) {
	req := chatCompletionRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: "Validate if the new word logically follows in a word association game."},
			{Role: "user", Content: fmt.Sprintf("Previous word: %s, New word: %s", prior, candidate)},
		},
		MaxTokens: 30,
	}

	content, err := o.complete(ctx, req, apiKey)
	if err != nil {
		return false, err
	}

	return strings.Contains(content, "valid"), nil
}

// GeneratePrompt asks the completions API for a starting word.
func (o *OpenAIOracle) GeneratePrompt(ctx context.Context, apiKey string) (string, error) {
	req := chatCompletionRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: "Generate a starting word for a word association game."},
		},
		MaxTokens: 10,
	}

	content, err := o.complete(ctx, req, apiKey)
	if err != nil {
		return "", err
	}

	if content == "" {
		return defaultStartingPrompt, nil
	}
	return content, nil
}

func (o *OpenAIOracle) complete(ctx context.Context, completionReq chatCompletionRequest, apiKey string) (string, error) {
	body, err := json.Marshal(completionReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", &ErrOracleUnavailable{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ErrOracleUnavailable{Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	completionResp := &chatCompletionResponse{}
	if err := json.NewDecoder(resp.Body).Decode(completionResp); err != nil {
		return "", &ErrOracleUnavailable{Reason: fmt.Sprintf("failed to decode response: %v", err)}
	}

	if len(completionResp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(completionResp.Choices[0].Message.Content), nil
}
