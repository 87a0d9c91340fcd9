package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ollamaProvider implements Provider for Ollama's native API.
// Ollama also exposes an OpenAI-compatible endpoint, but the native
// /api/generate endpoint gives direct control over JSON output mode.
type ollamaProvider struct {
	base openAICompatClient
}

// NewOllama creates a provider for Ollama.
func NewOllama(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	return &ollamaProvider{base: newOpenAICompatClient(cfg, "ollama")}
}

func (p *ollamaProvider) Name() string { return p.base.name }

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type ollamaGenerateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (p *ollamaProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.base.cfg.Model
	}

	// Collapse the message list into a single prompt; /api/generate is
	// not chat-shaped.
	var prompt bytes.Buffer
	for _, m := range req.Messages {
		prompt.WriteString(m.Content)
		prompt.WriteString("\n")
	}

	body := ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt.String(),
		Stream: false,
	}
	if req.ResponseFormat == "json_object" {
		body.Format = "json"
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := p.base.cfg.BaseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.base.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &TransientError{Err: fmt.Errorf("request to %s: %w", url, ctx.Err())}
		}
		return nil, &TransientError{Err: fmt.Errorf("ollama request failed (server running at %s?): %w", p.base.cfg.BaseURL, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("reading ollama response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("ollama API error %d: %s", resp.StatusCode, string(respBody))
		if retryableStatusCode(resp.StatusCode) {
			return nil, &TransientError{Err: apiErr, RetryAfter: retryAfterHeader(resp)}
		}
		return nil, apiErr
	}

	var genResp ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("decoding ollama response: %w", err)
	}

	if genResp.Response == "" {
		return nil, fmt.Errorf("empty response content from ollama model %s", model)
	}

	return &ChatResponse{
		Content:          genResp.Response,
		Model:            genResp.Model,
		FinishReason:     genResp.DoneReason,
		PromptTokens:     genResp.PromptEvalCount,
		CompletionTokens: genResp.EvalCount,
		TotalTokens:      genResp.PromptEvalCount + genResp.EvalCount,
	}, nil
}
