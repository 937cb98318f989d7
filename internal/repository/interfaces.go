package repository

import (
	"context"
	"time"

	"github.com/ulugbekov/vazifabot/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// TaskRepository defines the interface for task data operations.
// GetByOwner returns tasks most-recently-created first; that ordering is
// what user-facing positional indices are derived from.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetByOwner(ctx context.Context, userID int64) ([]*models.Task, error)
	// GetDueInWindow returns active, not-yet-reminded tasks whose due time
	// lies inside [start, end], each with its owning User populated.
	GetDueInWindow(ctx context.Context, start, end time.Time) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	MarkReminderSent(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	CountByOwner(ctx context.Context, userID int64) (int, error)
}
