// Package responder implements the default three-stage pipeline used when no
// stateful flow is active: parse (intent + entities), triage (sentiment, spam,
// topic, priority), and transform (the actual reply). Each stage is an
// independent model-backed call with a declared JSON schema; a payload that
// misses its schema is a stage failure, never propagated garbage.
package responder

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Fasscorp/FassimoV3/internal/llm"
	"github.com/Fasscorp/FassimoV3/internal/logging"
	"github.com/Fasscorp/FassimoV3/internal/session"
)

// validator is implemented by every stage output type.
type validator interface {
	validate() error
}

// Responder runs the default pipeline over one message.
type Responder struct {
	client llm.Client
}

// New creates a Responder backed by the given completion client.
func New(client llm.Client) *Responder {
	return &Responder{client: client}
}

// Run executes the pipeline. Parse and triage share no state and run
// concurrently; transform runs only when triage says the message is not spam.
// Any stage failure is returned as a *StageError.
func (r *Responder) Run(ctx context.Context, message string, channel session.Channel) (Result, error) {
	timer := logging.StartTimer(logging.CategoryResponder, "pipeline.Run")
	defer timer.Stop()

	var res Result
	userPrompt := stageUserPrompt(message, channel)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.runStage(gctx, StageParse, parseSystemPrompt, userPrompt, &res.Parse)
	})
	g.Go(func() error {
		return r.runStage(gctx, StageTriage, triageSystemPrompt, userPrompt, &res.Triage)
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	logging.Responder("Triage: sentiment=%s spam=%v topic=%q priority=%s",
		res.Triage.Sentiment, res.Triage.IsSpam, res.Triage.Topic, res.Triage.Priority)

	if res.Triage.IsSpam {
		// The router owns the discard notice; nothing left to do here.
		return res, nil
	}

	var transformed TransformResult
	if err := r.runStage(ctx, StageTransform, transformSystemPrompt, userPrompt, &transformed); err != nil {
		return Result{}, err
	}
	res.Reply = transformed.Reply
	return res, nil
}

// runStage issues one completion and decodes + validates its JSON payload.
func (r *Responder) runStage(ctx context.Context, stage, systemPrompt, userPrompt string, out validator) error {
	raw, err := r.client.CompleteWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		logging.Get(logging.CategoryResponder).Error("%s stage completion failed: %v", stage, err)
		return &StageError{Stage: stage, Err: err}
	}
	if err := llm.Decode(raw, out); err != nil {
		logging.Get(logging.CategoryResponder).Error("%s stage returned malformed payload: %v", stage, err)
		return &StageError{Stage: stage, Err: err}
	}
	if err := out.validate(); err != nil {
		logging.Get(logging.CategoryResponder).Error("%s stage schema violation: %v", stage, err)
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}
