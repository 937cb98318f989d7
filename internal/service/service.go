package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ulugbekov/vazifabot/internal/models"
	"github.com/ulugbekov/vazifabot/internal/repository"
)

// Sentinel errors returned by task operations. Handlers map these onto
// user-facing messages instead of the generic failure reply.
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
)

// Service is the central business logic layer that holds the repositories
// and provides high-level methods for the bot handlers and the reminder
// scanner.
type Service struct {
	logger *logrus.Logger
	Users  repository.UserRepository
	Tasks  repository.TaskRepository
	stats  scannerStats
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger, users repository.UserRepository, tasks repository.TaskRepository) *Service {
	return &Service{logger: logger, Users: users, Tasks: tasks}
}

// EnsureUser retrieves an existing user by Telegram ID, or creates a new
// one if not found. User records are never mutated after creation.
func (s *Service) EnsureUser(ctx context.Context, telegramID string) (*models.User, error) {
	user, err := s.Users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user (telegram_id=%s): %w", telegramID, err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.Users.Create(ctx, &models.User{TelegramID: telegramID})
	if err != nil {
		return nil, fmt.Errorf("failed to create user (telegram_id=%s): %w", telegramID, err)
	}
	s.logger.Infof("Created new user (telegram_id=%s)", telegramID)
	return user, nil
}

// CreateTask creates a task for the given owner and returns it together
// with the owner's task count after the insert.
func (s *Service) CreateTask(ctx context.Context, userID int64, name string, dueAt time.Time, priority models.TaskPriority) (*models.Task, int, error) {
	task, err := s.Tasks.Create(ctx, &models.Task{
		UserID:   userID,
		Name:     name,
		DueAt:    dueAt,
		Priority: priority,
		Status:   models.TaskStatusActive,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create task: %w", err)
	}

	count, err := s.Tasks.CountByOwner(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"task_id": task.ID,
	}).Info("Task created")

	return task, count, nil
}

// TaskByIndex resolves a 1-based positional index against the owner's
// most-recent-first task ordering. The mapping is re-derived on every
// call; an index shown to the user is only valid for the instant it was
// displayed. Out-of-range indices return ErrTaskNotFound.
func (s *Service) TaskByIndex(ctx context.Context, userID int64, index int) (*models.Task, error) {
	tasks, err := s.Tasks.GetByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if index < 1 || index > len(tasks) {
		return nil, ErrTaskNotFound
	}
	return tasks[index-1], nil
}

// CompleteTask marks the task COMPLETED. Completing an already completed
// task returns ErrTaskAlreadyCompleted and changes nothing.
func (s *Service) CompleteTask(ctx context.Context, taskID int64) (*models.Task, error) {
	task, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", taskID, err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.IsCompleted() {
		return task, ErrTaskAlreadyCompleted
	}

	task.Status = models.TaskStatusCompleted
	if _, err := s.Tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("complete task %d: %w", taskID, err)
	}

	s.logger.WithFields(logrus.Fields{"task_id": taskID}).Info("Task completed")
	return task, nil
}

// DeleteTask removes the task permanently and returns the deleted record
// so callers can render a confirmation.
func (s *Service) DeleteTask(ctx context.Context, taskID int64) (*models.Task, error) {
	task, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", taskID, err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if err := s.Tasks.Delete(ctx, taskID); err != nil {
		return nil, fmt.Errorf("delete task %d: %w", taskID, err)
	}

	s.logger.WithFields(logrus.Fields{"task_id": taskID}).Info("Task deleted")
	return task, nil
}

// SetPriority updates the task's priority level.
func (s *Service) SetPriority(ctx context.Context, taskID int64, priority models.TaskPriority) (*models.Task, error) {
	task, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", taskID, err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	task.Priority = priority
	if _, err := s.Tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("set priority on task %d: %w", taskID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"task_id":  taskID,
		"priority": priority,
	}).Info("Task priority updated")
	return task, nil
}
