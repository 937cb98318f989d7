package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ulugbekov/vazifabot/internal/api"
	"github.com/ulugbekov/vazifabot/internal/config"
	"github.com/ulugbekov/vazifabot/internal/handlers"
	"github.com/ulugbekov/vazifabot/internal/models"
	"github.com/ulugbekov/vazifabot/internal/repository/postgres"
	"github.com/ulugbekov/vazifabot/internal/service"
	"github.com/ulugbekov/vazifabot/internal/telegram"
	"github.com/ulugbekov/vazifabot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting VazifaBot...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate("migrations"); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db.DB)
	taskRepo := postgres.NewTaskRepository(db.DB)

	// Service layer
	svc := service.New(l, userRepo, taskRepo)

	// Telegram bot
	bot, err := telegram.NewBot(cfg.TelegramToken, l)
	if err != nil {
		l.Fatalf("Failed to create Telegram bot: %v", err)
	}

	// Command handlers
	bot.RegisterCommand("start", handlers.NewStartHandler(l))
	bot.RegisterCommand("help", handlers.NewHelpHandler(l))
	bot.RegisterCommand("add", handlers.NewAddHandler(svc, l))
	bot.RegisterCommand("tasks", handlers.NewListHandler(svc, l))
	bot.RegisterCommand("complete", handlers.NewCompleteHandler(svc, l))
	bot.RegisterCommand("delete", handlers.NewDeleteHandler(svc, l))

	// Bare task numbers open the quick-access card
	bot.RegisterText(handlers.NewQuickAccessHandler(svc, l))

	// Inline keyboard callbacks
	bot.RegisterCallback(telegram.ActionComplete, handlers.NewCompleteCallback(svc, l))
	bot.RegisterCallback(telegram.ActionDelete, handlers.NewDeleteCallback(svc, l))
	bot.RegisterCallback(telegram.ActionConfirmDelete, handlers.NewConfirmDeleteCallback(svc, l))
	bot.RegisterCallback(telegram.ActionCancelDelete, handlers.NewCancelDeleteCallback(l))
	bot.RegisterCallback(telegram.ActionShowTask, handlers.NewShowTaskCallback(svc, l))
	bot.RegisterCallback(telegram.ActionShowTasks, handlers.NewTaskListCallback(svc, l))
	bot.RegisterCallback(telegram.ActionBackToTasks, handlers.NewTaskListCallback(svc, l))
	bot.RegisterCallback(telegram.ActionSetPriority, handlers.NewPriorityCallback(svc, l))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// Start reminder scanner
	go svc.StartReminderScanner(ctx, func(user *models.User, task *models.Task, text string) error {
		chatID, err := user.ChatID()
		if err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Complete",
					telegram.Action{Kind: telegram.ActionComplete, TaskID: task.ID}.Data()),
				tgbotapi.NewInlineKeyboardButtonData("📋 Tasks",
					telegram.Action{Kind: telegram.ActionShowTasks}.Data()),
			),
		)
		return bot.Send(msg)
	})

	// Start HTTP server for health, metrics and the task API
	apiServer := api.NewServer(svc, l)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: apiServer.Handler(),
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	// Start Telegram bot polling
	go func() {
		if err := bot.Start(ctx); err != nil {
			l.Errorf("Bot error: %v", err)
		}
	}()

	l.Info("VazifaBot started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP server...")
	httpServer.Close()

	l.Info("VazifaBot stopped")
}
