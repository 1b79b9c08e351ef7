package router

// Reserved control tokens. These are recognized verbatim as input, typically
// echoed by UI buttons rather than typed.
const (
	// TriggerReset clears the session back to its initial state.
	TriggerReset = "RESET_CONVERSATION"
	// TriggerViewTasks lists the task store without touching the active flow.
	TriggerViewTasks = "VIEW_TASKS"
	// TriggerStartInterview begins the onboarding interview flow.
	TriggerStartInterview = "START_ONBOARDING_INTERVIEW"
	// TriggerStartPlanner begins the (not yet implemented) task planner flow.
	TriggerStartPlanner = "START_TASK_PLANNER"
)

// Fixed-choice answer tokens echoed by interview buttons.
var choiceTokens = []string{"Yes", "No", "Chat", "Email", "Whatsapp"}

// ActionOption is a selectable button: a display label paired with the opaque
// trigger token fed back verbatim as the next input when selected.
type ActionOption struct {
	Label   string `json:"label"`
	Trigger string `json:"trigger"`
}

// Reply is the outward response for one handled input. A non-empty Actions
// list tells the UI to render buttons.
type Reply struct {
	Text    string         `json:"responseText"`
	Actions []ActionOption `json:"actions,omitempty"`
}

// TopLevelActions are the entry points offered after a reset or recovery.
func TopLevelActions() []ActionOption {
	return []ActionOption{
		{Label: "Get me set up", Trigger: TriggerStartInterview},
		{Label: "Plan my tasks", Trigger: TriggerStartPlanner},
	}
}

// isActionToken reports whether the input exactly matches a known trigger or
// fixed-choice answer, i.e. it came from a button rather than free typing.
func isActionToken(input string) bool {
	switch input {
	case TriggerReset, TriggerViewTasks, TriggerStartInterview, TriggerStartPlanner:
		return true
	}
	for _, tok := range choiceTokens {
		if input == tok {
			return true
		}
	}
	return false
}

// actionsFromOptions turns interview choice strings into buttons. The token
// fed back on selection is the choice itself.
func actionsFromOptions(options []string) []ActionOption {
	if len(options) == 0 {
		return nil
	}
	out := make([]ActionOption, 0, len(options))
	for _, opt := range options {
		out = append(out, ActionOption{Label: opt, Trigger: opt})
	}
	return out
}
