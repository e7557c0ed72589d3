package ai

import (
	"context"
	"strings"
)

// Provider generates one assistant reply for a user prompt. Implementations
// are treated as unreliable: callers must be prepared for errors, timeouts
// and empty output.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
}

// GenerationConfig is fixed per deployment; requests do not tune it.
type GenerationConfig struct {
	MaxOutputTokens int
	Temperature     float32
}

// Resolution carries the reply plus the telemetry persisted with the turn.
type Resolution struct {
	Text           string
	ResponseTimeMs int
	TokensUsed     int
	Provider       string
}

// EstimateTokens approximates usage from output word count. An estimate,
// not billing-accurate.
func EstimateTokens(text string) int {
	return int(float64(len(strings.Fields(text))) * 1.3)
}
