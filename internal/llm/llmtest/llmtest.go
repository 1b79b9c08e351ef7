// Package llmtest provides a deterministic in-memory Client for tests of
// model-backed stages. Responses are routed by system prompt content rather
// than call order, because pipeline stages may run concurrently.
package llmtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call records one completion request.
type Call struct {
	System string
	Prompt string
}

// Rule matches a request by a substring of its system prompt. An empty
// SystemContains matches everything, so a catch-all rule goes last.
type Rule struct {
	SystemContains string
	Response       string
	Err            error
}

// RuleClient replies according to the first matching rule. Calls with no
// matching rule fail, which surfaces as a stage failure in the caller.
type RuleClient struct {
	mu    sync.Mutex
	rules []Rule
	calls []Call
}

// NewRuleClient creates a client with the given rules.
func NewRuleClient(rules ...Rule) *RuleClient {
	return &RuleClient{rules: rules}
}

// Complete routes like CompleteWithSystem with an empty system prompt.
func (c *RuleClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem records the call and replies per the first matching rule.
func (c *RuleClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, Call{System: systemPrompt, Prompt: userPrompt})
	for _, r := range c.rules {
		if r.SystemContains == "" || strings.Contains(systemPrompt, r.SystemContains) {
			if r.Err != nil {
				return "", r.Err
			}
			return r.Response, nil
		}
	}
	return "", fmt.Errorf("llmtest: no rule matches system prompt %q", systemPrompt)
}

// SetRules replaces the rule set.
func (c *RuleClient) SetRules(rules ...Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = rules
}

// Calls returns the recorded requests in order of arrival.
func (c *RuleClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallCount returns how many completions were requested.
func (c *RuleClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}
