package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/ulugbekov/vazifabot/internal/models"
	"github.com/ulugbekov/vazifabot/internal/service"
	"github.com/ulugbekov/vazifabot/internal/telegram"
)

// telegramID renders the sender's id the way user records store it.
func telegramID(message *tgbotapi.Message) string {
	return strconv.FormatInt(message.From.ID, 10)
}

// replyMarkdown sends a Markdown-formatted reply to the message's chat.
func replyMarkdown(bot *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
}

// ---------------------------------------------------------------------------
// AddHandler – /add <name> [date] [time] [priority]
// ---------------------------------------------------------------------------

// AddHandler handles the /add command to create a new task.
type AddHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewAddHandler creates a new AddHandler.
func NewAddHandler(svc *service.Service, logger *logrus.Logger) *AddHandler {
	return &AddHandler{svc: svc, logger: logger}
}

// Handle processes the /add command.
func (h *AddHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		replyMarkdown(bot, message.Chat.ID, `📝 *How to add a task:*

🔹 *Format:* /add <name> [date] [time] [priority]
🔹 *Example:* /add Read a book 25.12.25 09:00 hard

📅 *Date:* dd.mm.yy or dd.mm.yyyy
⏰ *Time:* hh:mm
🏷 *Priorities:* easy, medium, hard`)
		return nil
	}

	ctx := context.Background()

	user, err := h.svc.EnsureUser(ctx, telegramID(message))
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	name, dueAt, priority := ParseAddArgs(args, time.Now())

	task, count, err := h.svc.CreateTask(ctx, user.ID, name, dueAt, priority)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, addConfirmationText(task, count))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = priorityKeyboard(task.ID)
	bot.Send(msg)

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"task_id": task.ID,
	}).Info("Task added")

	return nil
}

// ---------------------------------------------------------------------------
// ListHandler – /tasks
// ---------------------------------------------------------------------------

// ListHandler handles the /tasks command to display all of the caller's
// tasks, most recently created first.
type ListHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewListHandler creates a new ListHandler.
func NewListHandler(svc *service.Service, logger *logrus.Logger) *ListHandler {
	return &ListHandler{svc: svc, logger: logger}
}

// Handle processes the /tasks command.
func (h *ListHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()

	user, err := h.svc.Users.GetByTelegramID(ctx, telegramID(message))
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		replyMarkdown(bot, message.Chat.ID, "📋 You have no tasks yet.\n\nAdd one with the /add command!")
		return nil
	}

	tasks, err := h.svc.Tasks.GetByOwner(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	if len(tasks) == 0 {
		replyMarkdown(bot, message.Chat.ID, "📋 You have no tasks yet.\n\nAdd one with the /add command!")
		return nil
	}

	replyMarkdown(bot, message.Chat.ID, renderTaskList(tasks))

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"count":   len(tasks),
	}).Info("Listed tasks")

	return nil
}

// ---------------------------------------------------------------------------
// CompleteHandler – /complete <number>
// ---------------------------------------------------------------------------

// CompleteHandler handles the /complete command. The number is a 1-based
// position in the caller's most-recent-first task list, not a stored id.
type CompleteHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewCompleteHandler creates a new CompleteHandler.
func NewCompleteHandler(svc *service.Service, logger *logrus.Logger) *CompleteHandler {
	return &CompleteHandler{svc: svc, logger: logger}
}

// Handle processes the /complete command.
func (h *CompleteHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	task, ok, err := resolveIndexArg(h.svc, bot, message, args, "/complete 1")
	if err != nil || !ok {
		return err
	}

	ctx := context.Background()
	done, err := h.svc.CompleteTask(ctx, task.ID)
	switch {
	case err == service.ErrTaskAlreadyCompleted:
		replyMarkdown(bot, message.Chat.ID, "This task is already completed!")
		return nil
	case err != nil:
		return fmt.Errorf("complete task: %w", err)
	}

	replyMarkdown(bot, message.Chat.ID,
		fmt.Sprintf("✅ Task marked as completed!\n\n📝 *%s*\nCongratulations!", done.Name))

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"task_id": done.ID,
	}).Info("Task completed via command")

	return nil
}

// ---------------------------------------------------------------------------
// DeleteHandler – /delete <number>
// ---------------------------------------------------------------------------

// DeleteHandler handles the /delete command. Deletion is confirmed with
// an inline keyboard before anything is removed.
type DeleteHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteHandler creates a new DeleteHandler.
func NewDeleteHandler(svc *service.Service, logger *logrus.Logger) *DeleteHandler {
	return &DeleteHandler{svc: svc, logger: logger}
}

// Handle processes the /delete command.
func (h *DeleteHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	task, ok, err := resolveIndexArg(h.svc, bot, message, args, "/delete 1")
	if err != nil || !ok {
		return err
	}

	index, _ := strconv.Atoi(args[0])
	text := renderQuickDetail(task, index) + "\n\nDo you want to delete this task?"

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = confirmDeleteKeyboard(task.ID, telegram.Action{Kind: telegram.ActionCancelDelete})
	bot.Send(msg)

	return nil
}

// resolveIndexArg validates the positional index argument and resolves it
// to a task. ok=false means a corrective message was already sent and the
// handler should stop without error.
func resolveIndexArg(svc *service.Service, bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string, usage string) (*models.Task, bool, error) {
	if len(args) == 0 {
		replyMarkdown(bot, message.Chat.ID, fmt.Sprintf("Please provide a task number!\n\nExample: `%s`", usage))
		return nil, false, nil
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		replyMarkdown(bot, message.Chat.ID, fmt.Sprintf("Please provide a task number!\n\nExample: `%s`", usage))
		return nil, false, nil
	}

	ctx := context.Background()
	user, err := svc.Users.GetByTelegramID(ctx, telegramID(message))
	if err != nil {
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		replyMarkdown(bot, message.Chat.ID, "You have no tasks yet.")
		return nil, false, nil
	}

	task, err := svc.TaskByIndex(ctx, user.ID, index)
	if err == service.ErrTaskNotFound {
		replyMarkdown(bot, message.Chat.ID, "No task with that number was found!")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("resolve task index: %w", err)
	}
	return task, true, nil
}
