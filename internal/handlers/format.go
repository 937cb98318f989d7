package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ulugbekov/vazifabot/internal/models"
	"github.com/ulugbekov/vazifabot/internal/telegram"
)

// statusEmoji returns an emoji representing the task status.
func statusEmoji(t *models.Task) string {
	if t.IsCompleted() {
		return "✅"
	}
	return "⏳"
}

// priorityEmoji returns an emoji representing the task priority level.
func priorityEmoji(p models.TaskPriority) string {
	switch p {
	case models.TaskPriorityHigh:
		return "🔴"
	case models.TaskPriorityMedium:
		return "🟡"
	case models.TaskPriorityLow:
		return "🟢"
	default:
		return "⬜"
	}
}

func priorityLabel(p models.TaskPriority) string {
	switch p {
	case models.TaskPriorityHigh:
		return "High"
	case models.TaskPriorityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

func statusLabel(t *models.Task) string {
	if t.IsCompleted() {
		return "Completed"
	}
	return "Active"
}

// renderTaskList renders the /tasks listing: counts followed by every
// task most-recent-first with its positional number.
func renderTaskList(tasks []*models.Task) string {
	active, completed := 0, 0
	for _, t := range tasks {
		if t.IsCompleted() {
			completed++
		} else {
			active++
		}
	}

	var sb strings.Builder
	sb.WriteString("📋 *Task List*\n\n")
	sb.WriteString(fmt.Sprintf("📊 *Stats:* %d active, %d completed\n\n", active, completed))

	for i, t := range tasks {
		sb.WriteString(fmt.Sprintf("%s %s *%d. %s*\n", statusEmoji(t), priorityEmoji(t.Priority), i+1, t.Name))
		sb.WriteString(fmt.Sprintf("📅 %s\n", t.FormatDue()))
		sb.WriteString(fmt.Sprintf("🏷 Priority: %s | Status: %s\n\n", priorityLabel(t.Priority), statusLabel(t)))
	}

	sb.WriteString("💡 *Tip:* send a task number (e.g. 1) for quick access")
	return sb.String()
}

// renderQuickDetail renders the short detail card shown for quick access
// and the delete confirmation, with the positional id the user typed.
func renderQuickDetail(t *models.Task, index int) string {
	return fmt.Sprintf("%s *%s*\n📅 %s\n🆔 ID: %d", statusEmoji(t), t.Name, t.FormatDue(), index)
}

// renderFullDetail renders the detail card used by the show callback,
// including priority and status lines.
func renderFullDetail(t *models.Task) string {
	return fmt.Sprintf("%s *%s*\n📅 %s\n🏷 Priority: %s %s\n📊 Status: %s",
		statusEmoji(t), t.Name, t.FormatDue(),
		priorityEmoji(t.Priority), priorityLabel(t.Priority), statusLabel(t))
}

// addConfirmationText renders the /add echo. The echoed id is the
// owner's task count after the insert.
func addConfirmationText(t *models.Task, count int) string {
	return fmt.Sprintf("✅ *Task added!*\n\n📝 *%s*\n📅 Due: %s\n🏷 Priority: %s %s\n🆔 ID: %d\n\nThe task is in the reminder system!",
		t.Name, t.FormatDue(), priorityEmoji(t.Priority), priorityLabel(t.Priority), count)
}

// priorityUpdatedText renders the add confirmation after a priority
// button press; the id line is gone because the count may have changed.
func priorityUpdatedText(t *models.Task) string {
	return fmt.Sprintf("✅ *Task added!*\n\n📝 *%s*\n📅 Due: %s\n🏷 Priority: %s %s\n\nThe task is in the reminder system!",
		t.Name, t.FormatDue(), priorityEmoji(t.Priority), priorityLabel(t.Priority))
}

func callbackButton(text string, action telegram.Action) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, action.Data())
}

// taskActionsKeyboard is the complete/delete row attached to quick
// access replies.
func taskActionsKeyboard(taskID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			callbackButton("✅ Complete", telegram.Action{Kind: telegram.ActionComplete, TaskID: taskID}),
			callbackButton("🗑 Delete", telegram.Action{Kind: telegram.ActionDelete, TaskID: taskID}),
		),
	)
}

// taskDetailKeyboard extends the actions row with a back button for the
// show callback.
func taskDetailKeyboard(taskID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			callbackButton("✅ Complete", telegram.Action{Kind: telegram.ActionComplete, TaskID: taskID}),
			callbackButton("🗑 Delete", telegram.Action{Kind: telegram.ActionDelete, TaskID: taskID}),
		),
		tgbotapi.NewInlineKeyboardRow(
			callbackButton("🔙 Back", telegram.Action{Kind: telegram.ActionBackToTasks}),
		),
	)
}

// confirmDeleteKeyboard asks for delete confirmation. cancel decides
// where the ❌ button leads: back to the detail card (callback flow) or
// a plain cancellation notice (/delete flow).
func confirmDeleteKeyboard(taskID int64, cancel telegram.Action) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			callbackButton("✅ Yes, delete", telegram.Action{Kind: telegram.ActionConfirmDelete, TaskID: taskID}),
			callbackButton("❌ Cancel", cancel),
		),
	)
}

// priorityKeyboard is attached to the /add echo so the priority can be
// adjusted in place.
func priorityKeyboard(taskID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			callbackButton("🟢 Easy", telegram.Action{Kind: telegram.ActionSetPriority, TaskID: taskID, Priority: models.TaskPriorityLow}),
			callbackButton("🟡 Medium", telegram.Action{Kind: telegram.ActionSetPriority, TaskID: taskID, Priority: models.TaskPriorityMedium}),
			callbackButton("🔴 Hard", telegram.Action{Kind: telegram.ActionSetPriority, TaskID: taskID, Priority: models.TaskPriorityHigh}),
		),
	)
}
