package responder

import "fmt"

// Stage names for error reporting.
const (
	StageParse     = "parse"
	StageTriage    = "triage"
	StageTransform = "transform"
)

// StageError reports which pipeline stage failed and why. A stage fails when
// its completion call errors or when the returned payload misses its schema.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ParseResult is the parse stage output: the message's intent plus any
// extracted entities (may be empty).
type ParseResult struct {
	Intent   string            `json:"intent"`
	Entities map[string]string `json:"entities"`
}

func (r *ParseResult) validate() error {
	if r.Intent == "" {
		return fmt.Errorf("missing intent field")
	}
	return nil
}

// TriageResult is the triage stage output.
type TriageResult struct {
	Sentiment    string `json:"sentiment"`
	IsSpam       bool   `json:"is_spam"`
	Topic        string `json:"topic"`
	Priority     string `json:"priority"`
	RouteToAgent bool   `json:"route_to_agent"`
}

func (r *TriageResult) validate() error {
	if r.Sentiment == "" {
		return fmt.Errorf("missing sentiment field")
	}
	if r.Topic == "" {
		return fmt.Errorf("missing topic field")
	}
	if r.Priority == "" {
		return fmt.Errorf("missing priority field")
	}
	return nil
}

// TransformResult is the transform stage output: the reply shown to the user.
type TransformResult struct {
	Reply string `json:"reply"`
}

func (r *TransformResult) validate() error {
	if r.Reply == "" {
		return fmt.Errorf("missing reply field")
	}
	return nil
}

// Result bundles the outputs of a full pipeline run. Reply is empty when
// triage flagged the message as spam (the transform stage is skipped).
type Result struct {
	Parse  ParseResult
	Triage TriageResult
	Reply  string
}
