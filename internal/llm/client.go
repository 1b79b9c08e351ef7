// Package llm is the model-completion boundary: a Client interface with
// provider implementations (Gemini via the genai SDK, Anthropic and
// OpenAI-compatible HTTP APIs) plus helpers for extracting structured JSON
// from model output. Every flow stage goes through this boundary; callers
// validate the returned shape and treat violations as stage failures.
package llm

import "context"

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
