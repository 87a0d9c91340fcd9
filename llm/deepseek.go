package llm

import "context"

// deepSeekProvider implements Provider for the DeepSeek API, which is
// OpenAI-compatible.
//
// Supported chat models:
//
//	deepseek-chat      — general purpose, JSON mode capable  — default
//	deepseek-reasoner  — long-form reasoning
//
// API key: set via config or DEEPSEEK_API_KEY env var.
type deepSeekProvider struct {
	base openAICompatClient
}

// NewDeepSeek creates a provider for DeepSeek.
func NewDeepSeek(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepseek.com"
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek-chat"
	}
	return &deepSeekProvider{base: newOpenAICompatClient(cfg, "deepseek")}
}

func (p *deepSeekProvider) Name() string { return p.base.name }

func (p *deepSeekProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return p.base.chat(ctx, req)
}
