package tasks

import "time"

// Draft is a task waiting to be submitted to a Store, which assigns the id.
type Draft struct {
	Description string
	Priority    Priority
	DueDate     *time.Time
}

// setupLeadTime is how long the user gets to set up a missing prerequisite.
const setupLeadTime = 5 * 24 * time.Hour

// DraftOnboarding derives the follow-up task from the interview's prerequisite
// answer. A nil answer means the interview never reached the prerequisite
// question; no task is drafted.
func DraftOnboarding(confirmedPrerequisite *bool, now time.Time) (Draft, bool) {
	if confirmedPrerequisite == nil {
		return Draft{}, false
	}
	if !*confirmedPrerequisite {
		due := now.Add(setupLeadTime)
		return Draft{
			Description: "Set up your business profile",
			Priority:    PriorityHigh,
			DueDate:     &due,
		}, true
	}
	return Draft{
		Description: "Connect your existing business profile",
		Priority:    PriorityMedium,
	}, true
}
