package handlers

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/edgard/taskbot/internal/database"
	"github.com/edgard/taskbot/internal/deadline"
)

const createdLayout = "02.01.2006 15:04"

func statusIcon(completed bool) string {
	if completed {
		return "✅"
	}
	return "⏳"
}

func statusText(completed bool) string {
	if completed {
		return "✅ Completed"
	}
	return "⏳ In Progress"
}

// markedAs is the completion state used in the toggle notice.
func markedAs(completed bool) string {
	if completed {
		return "completed"
	}
	return "not completed"
}

// timeStatus describes the time left until the deadline of an open task.
// It is empty for completed tasks and malformed deadlines.
func timeStatus(t *database.Task, now time.Time) string {
	if t.Completed {
		return ""
	}
	due, err := deadline.Parse(t.Deadline, now.Location())
	if err != nil {
		return ""
	}
	left, ok := deadline.Describe(due.Sub(now))
	if !ok {
		return "⚠️ <b>Deadline passed</b>"
	}
	return "⏳ Remaining: " + left
}

// taskDetails renders the detail view of a task.
func taskDetails(t *database.Task, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔹 <b>%s</b>\n\n", html.EscapeString(t.Name))
	fmt.Fprintf(&sb, "Status: %s\n", statusText(t.Completed))
	fmt.Fprintf(&sb, "Deadline: %s\n", t.Deadline)
	if status := timeStatus(t, now); status != "" {
		sb.WriteString(status + "\n")
	}
	fmt.Fprintf(&sb, "Created: %s", t.CreatedAt.In(now.Location()).Format(createdLayout))
	return sb.String()
}
