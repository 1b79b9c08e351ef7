package tasks

import (
	"fmt"
	"strings"
	"time"
)

// FormatList renders tasks for display in the chat, numbered from 1. Tasks
// without a due date omit that line; a due date at exactly midnight is shown
// without the time of day. An empty store renders an explicit message rather
// than an empty list.
func FormatList(items []Task) string {
	if len(items) == 0 {
		return "You have no pending tasks."
	}

	var b strings.Builder
	b.WriteString("Here are your tasks:\n")
	for i, t := range items {
		status := "open"
		if t.Completed {
			status = "done"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.Description)
		fmt.Fprintf(&b, "   Priority: %s\n", t.Priority)
		if t.DueDate != nil {
			fmt.Fprintf(&b, "   Due: %s\n", formatDue(*t.DueDate))
		}
		fmt.Fprintf(&b, "   Status: %s\n", status)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDue(due time.Time) string {
	local := due.Local()
	if isMidnight(local) {
		return local.Format("January 2, 2006")
	}
	return local.Format("January 2, 2006 at 3:04 PM")
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
