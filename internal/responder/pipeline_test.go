package responder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Fasscorp/FassimoV3/internal/llm/llmtest"
	"github.com/Fasscorp/FassimoV3/internal/session"
)

func TestMain(m *testing.M) {
	// go.opencensus.io starts a background worker in a package init (pulled
	// in transitively); it is not a goroutine owned by this package.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func happyRules() []llmtest.Rule {
	return []llmtest.Rule{
		{SystemContains: "parse", Response: `{"intent": "ask_pricing", "entities": {"product": "premium plan"}}`},
		{SystemContains: "triage", Response: `{"sentiment": "neutral", "is_spam": false, "topic": "pricing", "priority": "medium", "route_to_agent": false}`},
		{SystemContains: "friendly", Response: `{"reply": "Happy to help with pricing!"}`},
	}
}

func TestRun_AllStages(t *testing.T) {
	client := llmtest.NewRuleClient(happyRules()...)
	r := New(client)

	res, err := r.Run(context.Background(), "how much is the premium plan?", session.ChannelChat)
	require.NoError(t, err)

	assert.Equal(t, "ask_pricing", res.Parse.Intent)
	assert.Equal(t, "premium plan", res.Parse.Entities["product"])
	assert.Equal(t, "pricing", res.Triage.Topic)
	assert.False(t, res.Triage.IsSpam)
	assert.Equal(t, "Happy to help with pricing!", res.Reply)
	assert.Equal(t, 3, client.CallCount())
}

func TestRun_SpamSkipsTransform(t *testing.T) {
	client := llmtest.NewRuleClient(
		llmtest.Rule{SystemContains: "parse", Response: `{"intent": "sell", "entities": {}}`},
		llmtest.Rule{SystemContains: "triage", Response: `{"sentiment": "negative", "is_spam": true, "topic": "spam", "priority": "low", "route_to_agent": false}`},
	)
	r := New(client)

	res, err := r.Run(context.Background(), "CLICK HERE", session.ChannelEmail)
	require.NoError(t, err)

	assert.True(t, res.Triage.IsSpam)
	assert.Empty(t, res.Reply)
	assert.Equal(t, 2, client.CallCount())
}

func TestRun_StageFailures(t *testing.T) {
	t.Run("completion error", func(t *testing.T) {
		rules := happyRules()
		rules[0] = llmtest.Rule{SystemContains: "parse", Err: errors.New("model offline")}
		r := New(llmtest.NewRuleClient(rules...))

		_, err := r.Run(context.Background(), "hello", session.ChannelChat)
		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageParse, stageErr.Stage)
	})

	t.Run("missing required field", func(t *testing.T) {
		rules := happyRules()
		rules[1] = llmtest.Rule{SystemContains: "triage", Response: `{"is_spam": false}`}
		r := New(llmtest.NewRuleClient(rules...))

		_, err := r.Run(context.Background(), "hello", session.ChannelChat)
		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageTriage, stageErr.Stage)
	})

	t.Run("non-JSON transform output", func(t *testing.T) {
		rules := happyRules()
		rules[2] = llmtest.Rule{SystemContains: "friendly", Response: `Sure, happy to help!`}
		r := New(llmtest.NewRuleClient(rules...))

		_, err := r.Run(context.Background(), "hello", session.ChannelChat)
		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageTransform, stageErr.Stage)
	})
}

func TestRun_FencedOutputIsAccepted(t *testing.T) {
	rules := happyRules()
	rules[2] = llmtest.Rule{SystemContains: "friendly", Response: "```json\n{\"reply\": \"Fenced but fine.\"}\n```"}
	r := New(llmtest.NewRuleClient(rules...))

	res, err := r.Run(context.Background(), "hello", session.ChannelChat)
	require.NoError(t, err)
	assert.Equal(t, "Fenced but fine.", res.Reply)
}
