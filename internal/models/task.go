package models

import "time"

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "ACTIVE"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

// TaskPriority represents the priority level of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// PriorityFromWord maps the /add priority words to a priority level.
// Unknown words map to LOW.
func PriorityFromWord(word string) TaskPriority {
	switch word {
	case "hard":
		return TaskPriorityHigh
	case "medium":
		return TaskPriorityMedium
	default:
		return TaskPriorityLow
	}
}

// IsPriorityWord reports whether word is one of the recognised /add
// priority words (easy, medium, hard).
func IsPriorityWord(word string) bool {
	return word == "easy" || word == "medium" || word == "hard"
}

// Task represents a single timed to-do item owned by one user.
type Task struct {
	ID           int64        `json:"id" db:"id"`
	UserID       int64        `json:"user_id" db:"user_id"`
	Name         string       `json:"name" db:"name"`
	DueAt        time.Time    `json:"due_at" db:"due_at"`
	Priority     TaskPriority `json:"priority" db:"priority"`
	Status       TaskStatus   `json:"status" db:"status"`
	ReminderSent bool         `json:"reminder_sent" db:"reminder_sent"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	User         *User        `json:"user,omitempty"`
}

// IsCompleted returns true if the task is completed
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// FormatDue renders the due time the way the bot displays it everywhere.
func (t *Task) FormatDue() string {
	return t.DueAt.Format("02.01.06 15:04")
}
