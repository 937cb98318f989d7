package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/ulugbekov/vazifabot/internal/metrics"
)

// Router handles message routing and command parsing
type Router struct {
	logger    *logrus.Logger
	handlers  map[string]CommandHandler
	callbacks map[ActionKind]CallbackHandler
	text      TextHandler
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error
}

// TextHandler handles plain (non-command) text messages.
type TextHandler interface {
	Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message) error
}

// CallbackHandler handles a decoded inline keyboard action.
type CallbackHandler interface {
	Handle(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, action Action) error
}

// NewRouter creates a new message router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		logger:    logger,
		handlers:  make(map[string]CommandHandler),
		callbacks: make(map[ActionKind]CallbackHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback registers a handler for one action kind.
func (r *Router) RegisterCallback(kind ActionKind, handler CallbackHandler) {
	r.callbacks[kind] = handler
	r.logger.Debugf("Registered callback action: %s", kind)
}

// RegisterText registers the handler for plain text messages.
func (r *Router) RegisterText(handler TextHandler) {
	r.text = handler
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	r.logger.WithFields(logrus.Fields{
		"chat_id":    message.Chat.ID,
		"user_id":    message.From.ID,
		"username":   message.From.UserName,
		"message_id": message.MessageID,
		"text":       message.Text,
	}).Info("Received message")

	if message.Text == "" {
		return
	}

	if !message.IsCommand() {
		if r.text == nil {
			return
		}
		if err := r.text.Handle(bot, message); err != nil {
			r.logger.WithFields(logrus.Fields{
				"chat_id": message.Chat.ID,
				"user_id": message.From.ID,
				"error":   err,
			}).Error("Text handler failed")

			errorMsg := tgbotapi.NewMessage(message.Chat.ID, "❌ Something went wrong. Please try again.")
			bot.Send(errorMsg)
		}
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())

	if handler, exists := r.handlers[command]; exists {
		metrics.CommandsHandled.WithLabelValues(command).Inc()
		if err := handler.Handle(bot, message, args); err != nil {
			r.logger.WithFields(logrus.Fields{
				"command": command,
				"chat_id": message.Chat.ID,
				"user_id": message.From.ID,
				"error":   err,
			}).Error("Command handler failed")

			errorMsg := tgbotapi.NewMessage(message.Chat.ID, "❌ Something went wrong while processing your command. Please try again.")
			bot.Send(errorMsg)
		}
	} else {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
		}).Warn("Unknown command")

		unknownMsg := tgbotapi.NewMessage(message.Chat.ID, "❓ Unknown command. Use /help to see available commands.")
		bot.Send(unknownMsg)
	}
}

// HandleCallbackQuery decodes callback data into a typed action and
// dispatches it to the registered handler.
func (r *Router) HandleCallbackQuery(bot *tgbotapi.BotAPI, callbackQuery *tgbotapi.CallbackQuery) {
	r.logger.WithFields(logrus.Fields{
		"callback_id": callbackQuery.ID,
		"user_id":     callbackQuery.From.ID,
		"data":        callbackQuery.Data,
	}).Info("Received callback query")

	action, err := ParseAction(callbackQuery.Data)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"data":  callbackQuery.Data,
			"error": err,
		}).Warn("Undecodable callback data")
		bot.Request(tgbotapi.NewCallback(callbackQuery.ID, ""))
		return
	}

	handler, exists := r.callbacks[action.Kind]
	if !exists {
		r.logger.WithFields(logrus.Fields{"action": action.Kind}).Warn("Unhandled callback action")
		bot.Request(tgbotapi.NewCallback(callbackQuery.ID, ""))
		return
	}

	metrics.CallbackActions.WithLabelValues(string(action.Kind)).Inc()
	if err := handler.Handle(bot, callbackQuery, action); err != nil {
		r.logger.WithFields(logrus.Fields{
			"action":  action.Kind,
			"task_id": action.TaskID,
			"user_id": callbackQuery.From.ID,
			"error":   err,
		}).Error("Callback handler failed")

		bot.Request(tgbotapi.NewCallback(callbackQuery.ID, "Something went wrong. Please try again."))
	}
}
