// Package session holds per-conversation state: the active flow and the
// append-only history of turns. State is keyed by session id through a Store
// interface so the router never touches ambient globals.
package session

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerAgent  Speaker = "agent"
	SpeakerSystem Speaker = "system"
	SpeakerAction Speaker = "action" // Button click echoed back as a trigger token
)

// Channel identifies the inbound transport a message arrived on.
type Channel string

const (
	ChannelChat     Channel = "chat"
	ChannelEmail    Channel = "email"
	ChannelWhatsapp Channel = "whatsapp"
	ChannelVoice    Channel = "voice"
)

// Flow names a mode of interaction. Exactly one flow is active per session;
// FlowNone means the default responder handles the next input.
type Flow string

const (
	FlowNone      Flow = ""
	FlowInterview Flow = "interview"
	FlowPlanner   Flow = "planner"
)

// Turn is one atomic entry in conversation history. Immutable once appended;
// insertion order is conversational order.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}
