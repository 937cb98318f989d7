package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// StartHandler handles the /start command
type StartHandler struct {
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(logger *logrus.Logger) *StartHandler {
	return &StartHandler{
		logger: logger,
	}
}

// Handle processes the /start command
func (h *StartHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	welcomeText := `🤖 *Welcome to the To-Do Bot!* 👋

I keep track of your tasks and remind you when they are due.

📋 *Main commands:*

📝 /add - Add a new task
   Format: /add <name> [date] [time] [priority]
   Example: /add Read a book 25.12.25 09:00 hard
   Priorities: easy, medium, hard

✅ /complete - Mark a task as completed
   Example: /complete 1

🗑 /delete - Delete a task
   Example: /delete 1

📋 /tasks - Show all your tasks

🔥 *Extras:*
• ⏰ Automatic reminders before the due time
• 🏷 Task priorities (Easy/Medium/Hard)
• 📱 Quick access by number
• 📊 Task statistics

💡 *Tip:* just send a task number (e.g. "1") for quick access!

📅 *Date/time format:*
dd.mm.yy hh:mm or dd.mm.yyyy hh:mm`

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	msg.ParseMode = tgbotapi.ModeMarkdown

	_, err := bot.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send start message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent start message")

	return nil
}
