package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	helpText := `📚 *Help*

*Tasks:*
• /add <name> [date] [time] [priority] - Add a task
• /tasks - Show all your tasks
• /complete <number> - Complete a task
• /delete <number> - Delete a task

*Quick access:*
• Send a bare task number (e.g. 1) to open it with
  complete/delete buttons.

*Reminders:*
• You get a notification around the due time, once per task.

_Date format: dd.mm.yy or dd.mm.yyyy, time hh:mm._
_Priorities: easy, medium, hard._`

	msg := tgbotapi.NewMessage(message.Chat.ID, helpText)
	msg.ParseMode = tgbotapi.ModeMarkdown

	_, err := bot.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent help message")

	return nil
}
