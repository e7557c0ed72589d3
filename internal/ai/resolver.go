package ai

import (
	"context"
	"log"
	"strings"
	"time"
)

// emptyMessagePlaceholder is substituted when a caller hands the resolver
// a blank message; the resolver itself never rejects input.
const emptyMessagePlaceholder = "(empty message)"

// fallbackLatencyMs is the nominal latency reported for local replies.
const fallbackLatencyMs = 50

// Resolver produces a bot response for a user message: remote provider
// first when one is configured, local fallback on any provider trouble.
// Resolve never fails; a provider error is downgraded to a log line.
type Resolver struct {
	provider Provider // nil = local fallback only
	fallback *Fallback
	cfg      GenerationConfig
	timeout  time.Duration
}

func NewResolver(provider Provider, fallback *Fallback, cfg GenerationConfig, timeout time.Duration) *Resolver {
	if fallback == nil {
		fallback = NewFallback()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Resolver{provider: provider, fallback: fallback, cfg: cfg, timeout: timeout}
}

func (r *Resolver) Resolve(ctx context.Context, message string) Resolution {
	message = strings.TrimSpace(message)
	if message == "" {
		message = emptyMessagePlaceholder
	}

	if r.provider != nil {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		start := time.Now()
		text, err := r.provider.Generate(cctx, message, r.cfg)
		cancel()
		elapsed := time.Since(start)

		switch {
		case err != nil:
			log.Printf("resolver: provider=%s failed cost=%s err=%v", r.provider.Name(), elapsed, err)
		case strings.TrimSpace(text) == "":
			log.Printf("resolver: provider=%s returned empty text cost=%s", r.provider.Name(), elapsed)
		default:
			return Resolution{
				Text:           text,
				ResponseTimeMs: int(elapsed.Milliseconds()),
				TokensUsed:     EstimateTokens(text),
				Provider:       r.provider.Name(),
			}
		}
	}

	reply := r.fallback.Reply(message)
	return Resolution{
		Text:           reply,
		ResponseTimeMs: fallbackLatencyMs,
		TokensUsed:     EstimateTokens(reply),
		Provider:       "local",
	}
}
