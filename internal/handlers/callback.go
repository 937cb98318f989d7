package handlers

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/ulugbekov/vazifabot/internal/service"
	"github.com/ulugbekov/vazifabot/internal/telegram"
)

// answer acknowledges a callback query, optionally with a toast text.
func answer(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, text string) {
	bot.Request(tgbotapi.NewCallback(query.ID, text))
}

// editMarkdown replaces the message the pressed button was attached to.
func editMarkdown(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, text string) {
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(edit)
}

// editMarkdownWithKeyboard replaces the message and its inline keyboard.
func editMarkdownWithKeyboard(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(query.Message.Chat.ID, query.Message.MessageID, text, markup)
	edit.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(edit)
}

// ---------------------------------------------------------------------------
// CompleteCallback – ✅ button on reminders, quick access and detail cards
// ---------------------------------------------------------------------------

// CompleteCallback marks the tagged task completed and rewrites the
// message in place.
type CompleteCallback struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewCompleteCallback creates a new CompleteCallback.
func NewCompleteCallback(svc *service.Service, logger *logrus.Logger) *CompleteCallback {
	return &CompleteCallback{svc: svc, logger: logger}
}

// Handle processes the complete action.
func (h *CompleteCallback) Handle(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, action telegram.Action) error {
	ctx := context.Background()

	task, err := h.svc.CompleteTask(ctx, action.TaskID)
	switch {
	case err == service.ErrTaskNotFound:
		answer(bot, query, "Task not found!")
		return nil
	case err == service.ErrTaskAlreadyCompleted:
		answer(bot, query, "This task is already completed!")
		return nil
	case err != nil:
		return fmt.Errorf("complete task: %w", err)
	}

	editMarkdown(bot, query, fmt.Sprintf("✅ Task marked as completed!\n\n📝 *%s*\nCongratulations!", task.Name))
	answer(bot, query, "Task completed!")

	h.logger.WithFields(logrus.Fields{
		"user_id": query.From.ID,
		"task_id": task.ID,
	}).Info("Task completed via button")

	return nil
}

// ---------------------------------------------------------------------------
// DeleteCallback – 🗑 button, swaps the card for a confirmation
// ---------------------------------------------------------------------------

// DeleteCallback asks for confirmation before the task is removed. The
// cancel button leads back to the task's detail card.
type DeleteCallback struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteCallback creates a new DeleteCallback.
func NewDeleteCallback(svc *service.Service, logger *logrus.Logger) *DeleteCallback {
	return &DeleteCallback{svc: svc, logger: logger}
}

// Handle processes the delete action.
func (h *DeleteCallback) Handle(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, action telegram.Action) error {
	ctx := context.Background()

	task, err := h.svc.Tasks.GetByID(ctx, action.TaskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		answer(bot, query, "Task not found!")
		return nil
	}

	text := fmt.Sprintf("%s *%s*\n📅 %s\n\nDo you want to delete this task?",
		statusEmoji(task), task.Name, task.FormatDue())
	cancel := telegram.Action{Kind: telegram.ActionShowTask, TaskID: task.ID}
	editMarkdownWithKeyboard(bot, query, text, confirmDeleteKeyboard(task.ID, cancel))
	answer(bot, query, "")

	return nil
}

// ---------------------------------------------------------------------------
// ConfirmDeleteCallback – permanent removal
// ---------------------------------------------------------------------------

// ConfirmDeleteCallback deletes the task for good.
type ConfirmDeleteCallback struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewConfirmDeleteCallback creates a new ConfirmDeleteCallback.
func NewConfirmDeleteCallback(svc *service.Service, logger *logrus.Logger) *ConfirmDeleteCallback {
	return &ConfirmDeleteCallback{svc: svc, logger: logger}
}

// Handle processes the confirm_delete action.
func (h *ConfirmDeleteCallback) Handle(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, action telegram.Action) error {
	ctx := context.Background()

	task, err := h.svc.DeleteTask(ctx, action.TaskID)
	if err == service.ErrTaskNotFound {
		answer(bot, query, "Task not found!")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	editMarkdown(bot, query, fmt.Sprintf("🗑 Task deleted!\n\n📝 *%s*\nRemoved successfully.", task.Name))
	answer(bot, query, "Task deleted!")

	h.logger.WithFields(logrus.Fields{
		"user_id": query.From.ID,
		"task_id": action.TaskID,
	}).Info("Task deleted via button")

	return nil
}

// ---------------------------------------------------------------------------
// CancelDeleteCallback
// ---------------------------------------------------------------------------

// CancelDeleteCallback aborts a /delete confirmation.
type CancelDeleteCallback struct {
	logger *logrus.Logger
}

// NewCancelDeleteCallback creates a new CancelDeleteCallback.
func NewCancelDeleteCallback(logger *logrus.Logger) *CancelDeleteCallback {
	return &CancelDeleteCallback{logger: logger}
}

// Handle processes the cancel_delete action.
func (h *CancelDeleteCallback) Handle(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, action telegram.Action) error {
	editMarkdown(bot, query, "❌ Deletion cancelled.")
	answer(bot, query, "Cancelled")
	return nil
}

// ---------------------------------------------------------------------------
// ShowTaskCallback – detail card with actions
// ---------------------------------------------------------------------------

// ShowTaskCallback renders the full detail card for one task.
type ShowTaskCallback struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewShowTaskCallback creates a new ShowTaskCallback.
func NewShowTaskCallback(svc *service.Service, logger *logrus.Logger) *ShowTaskCallback {
	return &ShowTaskCallback{svc: svc, logger: logger}
}

// Handle processes the show action.
func (h *ShowTaskCallback) Handle(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, action telegram.Action) error {
	ctx := context.Background()

	task, err := h.svc.Tasks.GetByID(ctx, action.TaskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		answer(bot, query, "Task not found!")
		return nil
	}

	text := renderFullDetail(task) + "\n\nWhat would you like to do?"
	editMarkdownWithKeyboard(bot, query, text, taskDetailKeyboard(task.ID))
	answer(bot, query, "")

	return nil
}

// ---------------------------------------------------------------------------
// TaskListCallback – show_tasks / back_to_tasks
// ---------------------------------------------------------------------------

// TaskListCallback rewrites the message into the caller's task list, one
// button per task.
type TaskListCallback struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewTaskListCallback creates a new TaskListCallback.
func NewTaskListCallback(svc *service.Service, logger *logrus.Logger) *TaskListCallback {
	return &TaskListCallback{svc: svc, logger: logger}
}

// Handle processes the show_tasks and back_to_tasks actions.
func (h *TaskListCallback) Handle(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, action telegram.Action) error {
	ctx := context.Background()

	user, err := h.svc.Users.GetByTelegramID(ctx, strconv.FormatInt(query.From.ID, 10))
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		answer(bot, query, "User not found!")
		return nil
	}

	tasks, err := h.svc.Tasks.GetByOwner(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	if len(tasks) == 0 {
		editMarkdown(bot, query, "📋 You have no tasks yet. Add one with the /add command.")
		answer(bot, query, "")
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tasks))
	for i, task := range tasks {
		label := fmt.Sprintf("%s %s %d. %s", statusEmoji(task), priorityEmoji(task.Priority), i+1, task.Name)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			callbackButton(label, telegram.Action{Kind: telegram.ActionShowTask, TaskID: task.ID}),
		))
	}

	editMarkdownWithKeyboard(bot, query,
		"📋 *Your tasks:*\n\nTap a task to see its details:",
		tgbotapi.NewInlineKeyboardMarkup(rows...))
	answer(bot, query, "")

	return nil
}

// ---------------------------------------------------------------------------
// PriorityCallback – priority row on the /add echo
// ---------------------------------------------------------------------------

// PriorityCallback updates the task's priority and rewrites the add
// confirmation in place.
type PriorityCallback struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewPriorityCallback creates a new PriorityCallback.
func NewPriorityCallback(svc *service.Service, logger *logrus.Logger) *PriorityCallback {
	return &PriorityCallback{svc: svc, logger: logger}
}

// Handle processes the priority action.
func (h *PriorityCallback) Handle(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, action telegram.Action) error {
	ctx := context.Background()

	task, err := h.svc.SetPriority(ctx, action.TaskID, action.Priority)
	if err == service.ErrTaskNotFound {
		answer(bot, query, "Task not found!")
		return nil
	}
	if err != nil {
		return fmt.Errorf("set priority: %w", err)
	}

	editMarkdown(bot, query, priorityUpdatedText(task))
	answer(bot, query, "Priority set!")

	return nil
}
