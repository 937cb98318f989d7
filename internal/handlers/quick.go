package handlers

import (
	"regexp"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/ulugbekov/vazifabot/internal/service"
)

var bareNumberRe = regexp.MustCompile(`^\d+$`)

// QuickAccessHandler handles plain text messages. A message that is a
// bare number opens the task at that position with complete/delete
// buttons; anything else is ignored.
type QuickAccessHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewQuickAccessHandler creates a new QuickAccessHandler.
func NewQuickAccessHandler(svc *service.Service, logger *logrus.Logger) *QuickAccessHandler {
	return &QuickAccessHandler{svc: svc, logger: logger}
}

// Handle processes a plain text message.
func (h *QuickAccessHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message) error {
	text := message.Text
	if !bareNumberRe.MatchString(text) {
		return nil
	}

	task, ok, err := resolveIndexArg(h.svc, bot, message, []string{text}, "1")
	if err != nil || !ok {
		return err
	}

	index, _ := strconv.Atoi(text)
	reply := tgbotapi.NewMessage(message.Chat.ID, renderQuickDetail(task, index)+"\n\nWhat would you like to do?")
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = taskActionsKeyboard(task.ID)
	bot.Send(reply)

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"task_id": task.ID,
	}).Info("Quick access")

	return nil
}
