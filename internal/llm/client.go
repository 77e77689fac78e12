// Package llm provides AI-assisted spot checks for synthesized forecasts.
package llm

import (
	"context"
)

// Client defines the interface for LLM providers.
type Client interface {
	Review(ctx context.Context, prompt string) (ReviewResponse, error)
}

// ReviewResponse contains the LLM's verdict on a forecast.
type ReviewResponse struct {
	Explanation       string
	Issues            []string
	Confidence        float64
	NeedsReview       bool
	SuggestedOverride bool
}

// Config contains configuration for creating an LLM client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}
