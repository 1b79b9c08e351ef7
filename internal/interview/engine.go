// Package interview drives the fixed-sequence onboarding questionnaire. The
// engine is an idempotent function of conversation history: it keeps no state
// of its own, so re-running it over the same turns always yields the same
// result, and a restored session resumes at exactly the question it was on.
package interview

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Fasscorp/FassimoV3/internal/logging"
	"github.com/Fasscorp/FassimoV3/internal/session"
)

// ErrInconsistent reports an interview history that reached an impossible
// state, e.g. a completed sequence holding an answer outside the allowed
// choices. The engine fails loudly instead of returning plausible-looking but
// wrong answers; the caller's recovery path handles it.
var ErrInconsistent = errors.New("interview state inconsistent")

// Status is the explicit outcome of an Advance call. The caller must switch on
// this, never on the wording of the question or answers.
type Status string

const (
	// StatusAsk means the interview continues with Result.Question.
	StatusAsk Status = "ask"
	// StatusComplete means all questions are validly answered.
	StatusComplete Status = "complete"
)

// Answers is the structured record extracted from a completed interview.
type Answers struct {
	Name                  string          `json:"name"`
	Goal                  string          `json:"goal"`
	Channel               session.Channel `json:"channel"`
	ConfirmedPrerequisite bool            `json:"confirmedPrerequisite"`
}

// Result is the outcome of advancing the interview by one evaluation.
//
// PrerequisiteJustAnswered is true only when the final turn pair in history is
// the prerequisite question and its valid answer. It lets the caller trigger
// completion side effects exactly once: re-deriving "complete" from an already
// stable history reports false.
type Result struct {
	Status                   Status
	Question                 string
	Options                  []string
	Answers                  *Answers
	PrerequisiteJustAnswered bool
}

// Engine evaluates interview progress against a history of turns.
type Engine struct {
	questions []Question
}

// NewEngine loads and validates the embedded questionnaire.
func NewEngine() (*Engine, error) {
	qs, err := loadQuestions()
	if err != nil {
		return nil, err
	}
	return &Engine{questions: qs}, nil
}

// Questions returns the fixed question sequence.
func (e *Engine) Questions() []Question {
	return e.questions
}

// Advance scans history to find which questions have been asked by the agent
// and validly answered by the user or an action, in strict sequence. The first
// unanswered question is returned for asking; once all four are answered the
// extracted answers are returned with StatusComplete.
func (e *Engine) Advance(history []session.Turn) (Result, error) {
	answers := make(map[string]string, len(e.questions))

	for _, q := range e.questions {
		answer, ok := e.lastValidAnswer(history, q)
		if !ok {
			logging.Interview("Asking %q question (history=%d turns)", q.Key, len(history))
			return Result{Status: StatusAsk, Question: q.Text, Options: q.Options}, nil
		}
		answers[q.Key] = answer
	}

	extracted, err := extractAnswers(answers)
	if err != nil {
		return Result{}, err
	}

	just := e.prerequisiteJustAnswered(history)
	logging.Interview("Interview complete (prerequisiteJustAnswered=%v)", just)
	return Result{
		Status:                   StatusComplete,
		Answers:                  extracted,
		PrerequisiteJustAnswered: just,
	}, nil
}

// lastValidAnswer finds the most recent time the agent asked q and returns the
// first valid user/action answer that followed it.
func (e *Engine) lastValidAnswer(history []session.Turn, q Question) (string, bool) {
	askIdx := -1
	for i, t := range history {
		if t.Speaker == session.SpeakerAgent && t.Text == q.Text {
			askIdx = i
		}
	}
	if askIdx < 0 {
		return "", false
	}

	for _, t := range history[askIdx+1:] {
		if t.Speaker != session.SpeakerUser && t.Speaker != session.SpeakerAction {
			continue
		}
		answer := strings.TrimSpace(t.Text)
		if q.accepts(answer) {
			return answer, true
		}
		// An invalid reply to a constrained question means the question gets
		// re-asked; later replies answer the re-ask, not this one.
		return "", false
	}
	return "", false
}

// prerequisiteJustAnswered reports whether the final two turns are the
// prerequisite question followed by its valid answer.
func (e *Engine) prerequisiteJustAnswered(history []session.Turn) bool {
	if len(history) < 2 {
		return false
	}
	prereq := e.questions[len(e.questions)-1]
	ask, reply := history[len(history)-2], history[len(history)-1]
	if ask.Speaker != session.SpeakerAgent || ask.Text != prereq.Text {
		return false
	}
	if reply.Speaker != session.SpeakerUser && reply.Speaker != session.SpeakerAction {
		return false
	}
	return prereq.accepts(strings.TrimSpace(reply.Text))
}

// extractAnswers converts raw answer strings into the structured record,
// failing loudly on values that should have been impossible.
func extractAnswers(raw map[string]string) (*Answers, error) {
	name := raw[keyName]
	goal := raw[keyGoal]
	if name == "" || goal == "" {
		return nil, fmt.Errorf("%w: empty free-text answer at completion", ErrInconsistent)
	}

	channel, err := parseChannel(raw[keyChannel])
	if err != nil {
		return nil, err
	}

	confirmed, err := parseYesNo(raw[keyPrerequisite])
	if err != nil {
		return nil, err
	}

	return &Answers{
		Name:                  name,
		Goal:                  goal,
		Channel:               channel,
		ConfirmedPrerequisite: confirmed,
	}, nil
}

func parseChannel(v string) (session.Channel, error) {
	switch v {
	case "Chat":
		return session.ChannelChat, nil
	case "Email":
		return session.ChannelEmail, nil
	case "Whatsapp":
		return session.ChannelWhatsapp, nil
	}
	return "", fmt.Errorf("%w: invalid channel answer %q at completion", ErrInconsistent, v)
}

func parseYesNo(v string) (bool, error) {
	switch v {
	case "Yes":
		return true, nil
	case "No":
		return false, nil
	}
	return false, fmt.Errorf("%w: invalid prerequisite answer %q at completion", ErrInconsistent, v)
}
