package interview

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var questionsYAML []byte

// Question is one step of the fixed interview sequence. Options, when present,
// constrain the answer to an exact match on one of the choices; free-text
// questions accept any non-empty answer.
type Question struct {
	Key     string   `yaml:"key"`
	Text    string   `yaml:"text"`
	Options []string `yaml:"options"`
}

// Constrained reports whether the question only accepts fixed choices.
func (q Question) Constrained() bool {
	return len(q.Options) > 0
}

// accepts reports whether answer is valid for this question.
func (q Question) accepts(answer string) bool {
	if !q.Constrained() {
		return answer != ""
	}
	for _, opt := range q.Options {
		if answer == opt {
			return true
		}
	}
	return false
}

type questionnaire struct {
	Questions []Question `yaml:"questions"`
}

// Answer keys the engine recognizes. The questionnaire must define exactly
// these, in this order.
const (
	keyName         = "name"
	keyGoal         = "goal"
	keyChannel      = "channel"
	keyPrerequisite = "prerequisite"
)

var requiredKeys = []string{keyName, keyGoal, keyChannel, keyPrerequisite}

// loadQuestions parses and validates the embedded questionnaire.
func loadQuestions() ([]Question, error) {
	var qn questionnaire
	if err := yaml.Unmarshal(questionsYAML, &qn); err != nil {
		return nil, fmt.Errorf("failed to parse questionnaire: %w", err)
	}

	if len(qn.Questions) != len(requiredKeys) {
		return nil, fmt.Errorf("questionnaire must define %d questions, got %d", len(requiredKeys), len(qn.Questions))
	}
	for i, q := range qn.Questions {
		if q.Key != requiredKeys[i] {
			return nil, fmt.Errorf("question %d: expected key %q, got %q", i+1, requiredKeys[i], q.Key)
		}
		if q.Text == "" {
			return nil, fmt.Errorf("question %q has empty text", q.Key)
		}
	}
	if !qn.Questions[2].Constrained() || !qn.Questions[3].Constrained() {
		return nil, fmt.Errorf("channel and prerequisite questions must carry fixed options")
	}
	return qn.Questions, nil
}
