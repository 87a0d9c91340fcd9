package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leohan123123/bridge-3D-AI1/llm"
)

// Policy bounds the failover loop: how long each provider attempt may
// run, how often a transient failure is retried on the same provider,
// and how long successful results stay cached.
type Policy struct {
	AttemptTimeout time.Duration
	MaxRetries     int           // transient retries per provider, in addition to the first attempt
	RetryDelay     time.Duration // base wait before a retry, doubled each further attempt
	CacheTTL       time.Duration
	CacheSize      int
}

// DefaultPolicy mirrors the stock server configuration.
func DefaultPolicy() Policy {
	return Policy{
		AttemptTimeout: 30 * time.Second,
		MaxRetries:     2,
		RetryDelay:     time.Second,
		CacheTTL:       10 * time.Minute,
		CacheSize:      512,
	}
}

// Analyzer walks an ordered provider list until one yields a parseable
// extraction. It is total: Analyze always returns a Result, degraded
// when the whole list is exhausted.
type Analyzer struct {
	providers []llm.Provider
	policy    Policy
	cache     *Cache
}

// New creates an analyzer over the given providers, tried in order.
func New(providers []llm.Provider, policy Policy) *Analyzer {
	if policy.AttemptTimeout <= 0 {
		policy.AttemptTimeout = 30 * time.Second
	}
	if policy.RetryDelay <= 0 {
		policy.RetryDelay = time.Second
	}
	if policy.CacheTTL <= 0 {
		policy.CacheTTL = 10 * time.Minute
	}
	return &Analyzer{
		providers: providers,
		policy:    policy,
		cache:     NewCache(policy.CacheSize, policy.CacheTTL),
	}
}

// Cache exposes the analyzer's cache for diagnostics.
func (a *Analyzer) Cache() *Cache { return a.cache }

// Analyze extracts structured requirements for the given text and
// context parameters. Repeated identical requests within the cache TTL
// are served from the cache without touching any provider. Provider
// failures fall through to the next provider; only when the whole list
// is exhausted does it return a degraded (and uncached) result.
func (a *Analyzer) Analyze(ctx context.Context, text string, params map[string]string) Result {
	fp := Fingerprint(text, params)
	if res, ok := a.cache.Get(fp); ok {
		slog.Debug("analysis: cache hit", "fingerprint", fp[:12])
		return res
	}

	if len(a.providers) == 0 {
		return Degraded("no analysis providers configured")
	}

	prompt := BuildExtractionPrompt(text)
	var lastErr error

	for _, p := range a.providers {
		req, err := a.tryProvider(ctx, p, prompt)
		if err != nil {
			lastErr = err
			slog.Warn("analysis: provider failed, falling through",
				"provider", p.Name(), "error", err)
			continue
		}

		res := Result{Requirements: req, Provider: p.Name()}
		a.cache.Add(fp, res)
		slog.Info("analysis: extraction succeeded", "provider", p.Name())
		return res
	}

	slog.Error("analysis: all providers exhausted", "providers", len(a.providers), "error", lastErr)
	return Degraded(fmt.Sprintf("all analysis providers failed or returned errors: %v", lastErr))
}

// tryProvider runs one provider with the policy's timeout and retry
// budget. Only transient errors are retried; a fatal error (bad
// request, auth failure, unparseable output) skips straight to the
// next provider.
func (a *Analyzer) tryProvider(ctx context.Context, p llm.Provider, prompt string) (Requirements, error) {
	var lastErr error

	for attempt := 0; attempt <= a.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := a.backoffDelay(attempt, lastErr)
			slog.Info("analysis: retrying provider",
				"provider", p.Name(), "attempt", attempt+1, "delay", delay, "error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Requirements{}, ctx.Err()
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, a.policy.AttemptTimeout)
		resp, err := p.Chat(attemptCtx, llm.ChatRequest{
			Messages:       []llm.Message{{Role: "user", Content: prompt}},
			Temperature:    0.2,
			MaxTokens:      1024,
			ResponseFormat: "json_object",
		})
		cancel()

		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return Requirements{}, ctx.Err()
			}
			if llm.IsTransient(err) {
				continue
			}
			return Requirements{}, err
		}

		req, err := parseRequirements(resp.Content)
		if err != nil {
			// Malformed output is a provider fault, not a transient
			// network condition; move on to the next provider.
			return Requirements{}, fmt.Errorf("%s: %w", p.Name(), err)
		}
		return req, nil
	}

	return Requirements{}, fmt.Errorf("%s: retries exhausted: %w", p.Name(), lastErr)
}

// backoffDelay computes the wait before retry attempt n (1-based):
// exponential growth from the policy's base delay, stretched further
// when the failed response stated a longer Retry-After wait.
func (a *Analyzer) backoffDelay(attempt int, lastErr error) time.Duration {
	delay := a.policy.RetryDelay * time.Duration(1<<(attempt-1))
	if hint := llm.RetryAfterHint(lastErr); hint > delay {
		delay = hint
	}
	return delay
}
