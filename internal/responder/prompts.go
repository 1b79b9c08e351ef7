package responder

import (
	"fmt"

	"github.com/Fasscorp/FassimoV3/internal/session"
)

// Stage system prompts. Each stage demands a single JSON object and nothing
// else; the pipeline still tolerates fenced output via llm.ExtractJSON.

const parseSystemPrompt = `You parse incoming customer messages for a business assistant.
Respond with a single JSON object and nothing else:
{"intent": "<one short verb phrase>", "entities": {"<name>": "<value>", ...}}
"entities" may be an empty object.`

const triageSystemPrompt = `You triage incoming customer messages for a business assistant.
Respond with a single JSON object and nothing else:
{"sentiment": "positive|neutral|negative", "is_spam": true|false, "topic": "<short topic>", "priority": "high|medium|low", "route_to_agent": true|false}`

const transformSystemPrompt = `You are a friendly business assistant. Write a short, warm reply to the
customer's message. Respond with a single JSON object and nothing else:
{"reply": "<your reply>"}`

func stageUserPrompt(message string, channel session.Channel) string {
	return fmt.Sprintf("Channel: %s\nMessage: %s", channel, message)
}
