package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ulugbekov/vazifabot/internal/models"
	"github.com/ulugbekov/vazifabot/internal/repository"
)

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `INSERT INTO tasks (user_id, name, due_at, priority, status, reminder_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	task.CreatedAt = time.Now()
	if task.Status == "" {
		task.Status = models.TaskStatusActive
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityLow
	}
	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Name, task.DueAt, task.Priority,
		task.Status, task.ReminderSent, task.CreatedAt,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT id, user_id, name, due_at, priority, status, reminder_sent, created_at
		FROM tasks WHERE id = $1`
	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.UserID, &task.Name, &task.DueAt,
		&task.Priority, &task.Status, &task.ReminderSent, &task.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (r *taskRepository) GetByOwner(ctx context.Context, userID int64) ([]*models.Task, error) {
	query := `SELECT id, user_id, name, due_at, priority, status, reminder_sent, created_at
		FROM tasks WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Name, &task.DueAt,
			&task.Priority, &task.Status, &task.ReminderSent, &task.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) GetDueInWindow(ctx context.Context, start, end time.Time) ([]*models.Task, error) {
	query := `SELECT t.id, t.user_id, t.name, t.due_at, t.priority, t.status, t.reminder_sent, t.created_at,
			u.id, u.telegram_id, u.created_at
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE t.status = $1 AND t.reminder_sent = FALSE
			AND t.due_at >= $2 AND t.due_at <= $3`

	rows, err := r.db.QueryContext(ctx, query, models.TaskStatusActive, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{User: &models.User{}}
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Name, &task.DueAt,
			&task.Priority, &task.Status, &task.ReminderSent, &task.CreatedAt,
			&task.User.ID, &task.User.TelegramID, &task.User.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan due task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `UPDATE tasks SET name=$1, due_at=$2, priority=$3, status=$4, reminder_sent=$5
		WHERE id=$6`
	result, err := r.db.ExecContext(ctx, query,
		task.Name, task.DueAt, task.Priority, task.Status, task.ReminderSent, task.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return nil, fmt.Errorf("task %d not found", task.ID)
	}
	return task, nil
}

func (r *taskRepository) MarkReminderSent(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tasks SET reminder_sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %d not found", id)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %d not found", id)
	}
	return nil
}

func (r *taskRepository) CountByOwner(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}
