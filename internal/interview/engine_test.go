package interview

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fasscorp/FassimoV3/internal/session"
)

func agent(text string) session.Turn {
	return session.Turn{Speaker: session.SpeakerAgent, Text: text}
}

func user(text string) session.Turn {
	return session.Turn{Speaker: session.SpeakerUser, Text: text}
}

func actionTurn(text string) session.Turn {
	return session.Turn{Speaker: session.SpeakerAction, Text: text}
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine()
	require.NoError(t, err)
	return e
}

func TestNewEngine_Questionnaire(t *testing.T) {
	e := newEngine(t)
	qs := e.Questions()
	require.Len(t, qs, 4)

	assert.Equal(t, "name", qs[0].Key)
	assert.Equal(t, "goal", qs[1].Key)
	assert.Equal(t, "channel", qs[2].Key)
	assert.Equal(t, "prerequisite", qs[3].Key)

	assert.False(t, qs[0].Constrained())
	assert.False(t, qs[1].Constrained())
	assert.Equal(t, []string{"Chat", "Email", "Whatsapp"}, qs[2].Options)
	assert.Equal(t, []string{"Yes", "No"}, qs[3].Options)
}

func TestAdvance_FullSequence(t *testing.T) {
	e := newEngine(t)
	qs := e.Questions()

	var history []session.Turn

	t.Run("empty history asks for name without options", func(t *testing.T) {
		res, err := e.Advance(history)
		require.NoError(t, err)
		assert.Equal(t, StatusAsk, res.Status)
		assert.Equal(t, qs[0].Text, res.Question)
		assert.Empty(t, res.Options)
	})

	history = append(history, agent(qs[0].Text), user("Alice"))

	t.Run("name answered asks for goal", func(t *testing.T) {
		res, err := e.Advance(history)
		require.NoError(t, err)
		assert.Equal(t, StatusAsk, res.Status)
		assert.Equal(t, qs[1].Text, res.Question)
		assert.Empty(t, res.Options)
	})

	history = append(history, agent(qs[1].Text), user("grow my business"))

	t.Run("goal answered asks for channel with choices", func(t *testing.T) {
		res, err := e.Advance(history)
		require.NoError(t, err)
		assert.Equal(t, StatusAsk, res.Status)
		assert.Equal(t, qs[2].Text, res.Question)
		assert.Equal(t, []string{"Chat", "Email", "Whatsapp"}, res.Options)
	})

	history = append(history, agent(qs[2].Text), actionTurn("Email"))

	t.Run("channel answered asks prerequisite with yes/no", func(t *testing.T) {
		res, err := e.Advance(history)
		require.NoError(t, err)
		assert.Equal(t, StatusAsk, res.Status)
		assert.Equal(t, qs[3].Text, res.Question)
		assert.Equal(t, []string{"Yes", "No"}, res.Options)
	})

	history = append(history, agent(qs[3].Text), actionTurn("No"))

	t.Run("all answered completes with extracted answers", func(t *testing.T) {
		res, err := e.Advance(history)
		require.NoError(t, err)
		assert.Equal(t, StatusComplete, res.Status)
		assert.Empty(t, res.Question)
		require.NotNil(t, res.Answers)
		assert.True(t, res.PrerequisiteJustAnswered)

		want := &Answers{
			Name:                  "Alice",
			Goal:                  "grow my business",
			Channel:               session.ChannelEmail,
			ConfirmedPrerequisite: false,
		}
		if diff := cmp.Diff(want, res.Answers); diff != "" {
			t.Errorf("answers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("re-advancing stable history is complete but not just-answered", func(t *testing.T) {
		res, err := e.Advance(history)
		require.NoError(t, err)
		assert.Equal(t, StatusComplete, res.Status)
		assert.False(t, res.PrerequisiteJustAnswered)
	})

	t.Run("trailing agent turn clears just-answered", func(t *testing.T) {
		withNoise := append(append([]session.Turn{}, history...), agent("Here are your tasks:"))
		res, err := e.Advance(withNoise)
		require.NoError(t, err)
		assert.Equal(t, StatusComplete, res.Status)
		assert.False(t, res.PrerequisiteJustAnswered)
	})
}

func TestAdvance_InvalidConstrainedAnswerReasks(t *testing.T) {
	e := newEngine(t)
	qs := e.Questions()

	history := []session.Turn{
		agent(qs[0].Text), user("Alice"),
		agent(qs[1].Text), user("grow my business"),
		agent(qs[2].Text), user("Carrier pigeon"),
	}

	res, err := e.Advance(history)
	require.NoError(t, err)
	assert.Equal(t, StatusAsk, res.Status)
	assert.Equal(t, qs[2].Text, res.Question)

	// The re-asked question picks up the next valid reply.
	history = append(history, agent(qs[2].Text), actionTurn("Whatsapp"))
	res, err = e.Advance(history)
	require.NoError(t, err)
	assert.Equal(t, StatusAsk, res.Status)
	assert.Equal(t, qs[3].Text, res.Question)
}

func TestAdvance_BlankFreeTextReasks(t *testing.T) {
	e := newEngine(t)
	qs := e.Questions()

	history := []session.Turn{agent(qs[0].Text), user("   ")}
	res, err := e.Advance(history)
	require.NoError(t, err)
	assert.Equal(t, StatusAsk, res.Status)
	assert.Equal(t, qs[0].Text, res.Question)
}

func TestAdvance_AgentNoiseBetweenAskAndAnswer(t *testing.T) {
	e := newEngine(t)
	qs := e.Questions()

	// A task listing injected mid-interview must not confuse the scan.
	history := []session.Turn{
		agent(qs[0].Text),
		agent("Here are your tasks:\n1. Something"),
		user("Alice"),
	}
	res, err := e.Advance(history)
	require.NoError(t, err)
	assert.Equal(t, StatusAsk, res.Status)
	assert.Equal(t, qs[1].Text, res.Question)
}

func TestAdvance_AnswersAreTrimmed(t *testing.T) {
	e := newEngine(t)
	qs := e.Questions()

	history := []session.Turn{
		agent(qs[0].Text), user("  Alice  "),
		agent(qs[1].Text), user("grow my business"),
		agent(qs[2].Text), actionTurn(" Chat "),
		agent(qs[3].Text), actionTurn("Yes"),
	}
	res, err := e.Advance(history)
	require.NoError(t, err)
	require.Equal(t, StatusComplete, res.Status)
	assert.Equal(t, "Alice", res.Answers.Name)
	assert.Equal(t, session.ChannelChat, res.Answers.Channel)
	assert.True(t, res.Answers.ConfirmedPrerequisite)
	assert.True(t, res.PrerequisiteJustAnswered)
}
