// Package router is the conversation orchestration core. It owns per-session
// flow state, decides which flow handles each incoming message or trigger,
// applies completion side effects (task creation) exactly once, and formats
// the outward response as text plus optional action buttons.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Fasscorp/FassimoV3/internal/interview"
	"github.com/Fasscorp/FassimoV3/internal/logging"
	"github.com/Fasscorp/FassimoV3/internal/responder"
	"github.com/Fasscorp/FassimoV3/internal/session"
	"github.com/Fasscorp/FassimoV3/internal/tasks"
)

// User-facing fixed messages.
const (
	greeting = "Hi! I'm Fassimo, your business assistant. Pick an option below, or just tell me what you need."

	plannerUnavailable = "The task planner isn't available yet - it's on our roadmap. In the meantime, pick another option."

	spamNotice = "This message looks like spam, so I've set it aside. If that's wrong, please rephrase and send it again."

	interviewStuck = "I got stuck during onboarding, sorry about that. Please restart the interview."

	cannotProcess = "Sorry, I couldn't process that message. Please try rephrasing it."

	stageTrouble = "Sorry, I'm having trouble understanding messages right now. Please try again in a moment."
)

// Router multiplexes incoming input between the onboarding interview, the
// placeholder planner flow, and the default responder pipeline.
type Router struct {
	sessions  session.Store
	tasks     tasks.Store
	engine    *interview.Engine
	responder *responder.Responder
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Router.
type Option func(*Router)

// WithClock overrides the clock used for task due dates.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// New wires the router to its collaborators. All stores are injected; the
// router never reaches into another component's private state.
func New(sessions session.Store, taskStore tasks.Store, engine *interview.Engine, resp *responder.Responder, opts ...Option) *Router {
	r := &Router{
		sessions:  sessions,
		tasks:     taskStore,
		engine:    engine,
		responder: resp,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle processes one inbound message or trigger for a session and always
// produces a reply: any unexpected failure is caught here, logged, surfaced
// with its detail, and the session is reset to the top level so the user is
// never stuck.
func (r *Router) Handle(ctx context.Context, sessionID, input string, channel session.Channel) Reply {
	unlock := r.lockSession(sessionID)
	defer unlock()

	st := r.sessions.Get(sessionID)
	reply, err := r.dispatch(ctx, st, input, channel)
	if err != nil {
		logging.Get(logging.CategoryRouter).Error("unhandled failure for session %s: %v", sessionID, err)
		text := fmt.Sprintf("Sorry, something went wrong on my end (%v). Let's start over.", err)
		st.Append(session.Turn{Speaker: session.SpeakerAgent, Text: text})
		st.SetFlow(session.FlowNone)
		return Reply{Text: text, Actions: TopLevelActions()}
	}
	return reply
}

// lockSession serializes Handle calls per session id.
func (r *Router) lockSession(id string) func() {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (r *Router) dispatch(ctx context.Context, st *session.State, input string, channel session.Channel) (Reply, error) {
	trimmed := strings.TrimSpace(input)

	// Reserved control tokens bypass normal flow dispatch, reset first.
	if trimmed == TriggerReset {
		logging.Router("Session %s: reset", st.ID())
		st.Reset()
		return Reply{Text: greeting, Actions: TopLevelActions()}, nil
	}
	if trimmed == TriggerViewTasks {
		// Deliberately leaves the active flow untouched: viewing tasks
		// mid-interview must keep the interview resumable.
		items, err := r.tasks.List()
		if err != nil {
			return Reply{}, fmt.Errorf("failed to list tasks: %w", err)
		}
		text := tasks.FormatList(items)
		st.Append(session.Turn{Speaker: session.SpeakerAgent, Text: text})
		logging.Router("Session %s: viewed %d tasks (flow=%q unchanged)", st.ID(), len(items), st.Flow())
		return Reply{Text: text}, nil
	}

	speaker := session.SpeakerUser
	if isActionToken(trimmed) {
		speaker = session.SpeakerAction
	}

	// A flow already in progress takes precedence over any start-trigger in
	// the input. Only an idle session can start a new flow.
	active := st.Flow()
	starting := false
	if active == session.FlowNone {
		switch trimmed {
		case TriggerStartInterview:
			// A fresh interview must not see answers from an earlier,
			// unrelated conversation.
			st.ClearHistory()
			st.SetFlow(session.FlowInterview)
			active = session.FlowInterview
			starting = true
		case TriggerStartPlanner:
			st.SetFlow(session.FlowPlanner)
			active = session.FlowPlanner
			starting = true
		}
	}

	// The initial start-trigger carries no informational content worth
	// retaining; everything else becomes part of the record.
	if !starting {
		st.Append(session.Turn{Speaker: speaker, Text: trimmed})
	}

	logging.RouterDebug("Session %s: flow=%q speaker=%s input=%q", st.ID(), active, speaker, trimmed)

	switch active {
	case session.FlowInterview:
		return r.advanceInterview(st)
	case session.FlowPlanner:
		st.SetFlow(session.FlowNone)
		st.Append(session.Turn{Speaker: session.SpeakerAgent, Text: plannerUnavailable})
		return Reply{Text: plannerUnavailable, Actions: TopLevelActions()}, nil
	default:
		return r.respondDefault(ctx, st, trimmed, channel)
	}
}

// advanceInterview runs the interview engine over the current history and
// applies its outcome, including the one-shot task creation on completion.
func (r *Router) advanceInterview(st *session.State) (Reply, error) {
	res, err := r.engine.Advance(st.History())
	if err != nil {
		logging.Get(logging.CategoryRouter).Error("session %s: interview engine error: %v", st.ID(), err)
		return r.recoverInterview(st), nil
	}

	switch res.Status {
	case interview.StatusAsk:
		if res.Question == "" {
			logging.Get(logging.CategoryRouter).Error("session %s: engine asked with empty question", st.ID())
			return r.recoverInterview(st), nil
		}
		st.Append(session.Turn{Speaker: session.SpeakerAgent, Text: res.Question})
		return Reply{Text: res.Question, Actions: actionsFromOptions(res.Options)}, nil

	case interview.StatusComplete:
		if res.Answers == nil {
			logging.Get(logging.CategoryRouter).Error("session %s: engine complete without answers", st.ID())
			return r.recoverInterview(st), nil
		}
		return r.finishInterview(st, res)

	default:
		logging.Get(logging.CategoryRouter).Error("session %s: engine returned unknown status %q", st.ID(), res.Status)
		return r.recoverInterview(st), nil
	}
}

// recoverInterview handles an engine contract violation: the user gets a
// specific message and the session drops back to the top level.
func (r *Router) recoverInterview(st *session.State) Reply {
	st.Append(session.Turn{Speaker: session.SpeakerAgent, Text: interviewStuck})
	st.SetFlow(session.FlowNone)
	return Reply{Text: interviewStuck, Actions: TopLevelActions()}
}

// finishInterview builds the final message and, when the prerequisite question
// was answered on this very turn, creates the follow-up task. The
// PrerequisiteJustAnswered guard means re-deriving "complete" from stable
// history never creates a second task.
func (r *Router) finishInterview(st *session.State, res interview.Result) (Reply, error) {
	var taskNote string
	if res.PrerequisiteJustAnswered {
		draft, ok := tasks.DraftOnboarding(&res.Answers.ConfirmedPrerequisite, r.now())
		if ok {
			created, err := r.tasks.Add(draft.Description, draft.Priority, draft.DueDate)
			if err != nil {
				return Reply{}, fmt.Errorf("failed to create onboarding task: %w", err)
			}
			if created.DueDate != nil {
				taskNote = fmt.Sprintf("\n\nI've added a %s-priority task for you: %q (due %s).",
					created.Priority, created.Description, created.DueDate.Local().Format("January 2, 2006"))
			} else {
				taskNote = fmt.Sprintf("\n\nI've added a %s-priority task for you: %q.",
					created.Priority, created.Description)
			}
			logging.Router("Session %s: interview complete, created task %s", st.ID(), created.ID)
		}
	} else {
		logging.Router("Session %s: interview already complete, no task created", st.ID())
	}

	answersJSON, err := json.MarshalIndent(res.Answers, "", "  ")
	if err != nil {
		return Reply{}, fmt.Errorf("failed to encode interview answers: %w", err)
	}

	text := fmt.Sprintf("Thanks %s, you're all set! Here's what I captured:\n%s%s",
		res.Answers.Name, string(answersJSON), taskNote)
	st.Append(session.Turn{Speaker: session.SpeakerAgent, Text: text})
	st.SetFlow(session.FlowNone)
	return Reply{Text: text}, nil
}

// respondDefault runs the parse/triage/transform pipeline on free input.
func (r *Router) respondDefault(ctx context.Context, st *session.State, message string, channel session.Channel) (Reply, error) {
	res, err := r.responder.Run(ctx, message, channel)
	if err != nil {
		var stageErr *responder.StageError
		if errors.As(err, &stageErr) {
			text := stageTrouble
			if stageErr.Stage == responder.StageTransform {
				text = cannotProcess
			}
			logging.Get(logging.CategoryRouter).Warn("session %s: %v", st.ID(), stageErr)
			st.Append(session.Turn{Speaker: session.SpeakerAgent, Text: text})
			return Reply{Text: text}, nil
		}
		return Reply{}, err
	}

	if res.Triage.IsSpam {
		logging.Router("Session %s: message flagged as spam (topic=%q)", st.ID(), res.Triage.Topic)
		st.Append(session.Turn{Speaker: session.SpeakerAgent, Text: spamNotice})
		return Reply{Text: spamNotice}, nil
	}

	st.Append(session.Turn{Speaker: session.SpeakerAgent, Text: res.Reply})
	return Reply{Text: res.Reply}, nil
}
