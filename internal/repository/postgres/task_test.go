package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ulugbekov/vazifabot/internal/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// minimal schema mirroring migrations/000001_init.up.sql
	ddl := `
CREATE TABLE users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  telegram_id TEXT NOT NULL UNIQUE,
  created_at TIMESTAMP NOT NULL
);
CREATE TABLE tasks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  due_at TIMESTAMP NOT NULL,
  priority TEXT NOT NULL DEFAULT 'LOW',
  status TEXT NOT NULL DEFAULT 'ACTIVE',
  reminder_sent BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMP NOT NULL
);
`
	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *sql.DB, telegramID string) *models.User {
	t.Helper()
	user, err := NewUserRepository(db).Create(context.Background(), &models.User{TelegramID: telegramID})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "100500")
	if user.ID == 0 {
		t.Fatalf("expected assigned id, got 0")
	}

	got, err := repo.GetByTelegramID(ctx, "100500")
	if err != nil {
		t.Fatalf("GetByTelegramID: %v", err)
	}
	if got == nil || got.ID != user.ID || got.TelegramID != "100500" {
		t.Errorf("GetByTelegramID mismatch: %#v", got)
	}

	missing, err := repo.GetByTelegramID(ctx, "424242")
	if err != nil {
		t.Fatalf("GetByTelegramID missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown telegram id, got %#v", missing)
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID == nil || byID.TelegramID != "100500" {
		t.Errorf("GetByID mismatch: %#v", byID)
	}
}

func TestTaskRepository_CRUDAndOrdering(t *testing.T) {
	db := setupDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "1")

	first, err := repo.Create(ctx, &models.Task{
		UserID: user.ID,
		Name:   "first",
		DueAt:  time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.Status != models.TaskStatusActive || first.Priority != models.TaskPriorityLow {
		t.Errorf("expected ACTIVE/LOW defaults, got %s/%s", first.Status, first.Priority)
	}

	time.Sleep(5 * time.Millisecond)
	second, err := repo.Create(ctx, &models.Task{
		UserID:   user.ID,
		Name:     "second",
		DueAt:    time.Now().Add(2 * time.Hour),
		Priority: models.TaskPriorityHigh,
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	tasks, err := repo.GetByOwner(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByOwner: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Errorf("expected most-recent-first ordering, got %d then %d", tasks[0].ID, tasks[1].ID)
	}

	count, err := repo.CountByOwner(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountByOwner: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}

	second.Status = models.TaskStatusCompleted
	if _, err := repo.Update(ctx, second); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("Update not applied: %#v", got)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if gone != nil {
		t.Errorf("expected nil after delete, got %#v", gone)
	}
	if err := repo.Delete(ctx, first.ID); err == nil {
		t.Errorf("expected error deleting missing task")
	}
}

func TestTaskRepository_GetDueInWindow(t *testing.T) {
	db := setupDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "777")
	now := time.Now().Round(time.Second)

	inside, err := repo.Create(ctx, &models.Task{UserID: user.ID, Name: "inside", DueAt: now.Add(3 * time.Minute)})
	if err != nil {
		t.Fatalf("create inside: %v", err)
	}
	if _, err := repo.Create(ctx, &models.Task{UserID: user.ID, Name: "far", DueAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("create far: %v", err)
	}
	completed, err := repo.Create(ctx, &models.Task{
		UserID: user.ID, Name: "done", DueAt: now, Status: models.TaskStatusCompleted,
	})
	if err != nil {
		t.Fatalf("create done: %v", err)
	}
	_ = completed

	due, err := repo.GetDueInWindow(ctx, now.Add(-5*time.Minute), now.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("GetDueInWindow: %v", err)
	}
	if len(due) != 1 || due[0].ID != inside.ID {
		t.Fatalf("expected only the in-window active task, got %+v", due)
	}
	if due[0].User == nil || due[0].User.TelegramID != "777" {
		t.Errorf("expected owning user joined, got %#v", due[0].User)
	}

	if err := repo.MarkReminderSent(ctx, inside.ID); err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}
	due, err = repo.GetDueInWindow(ctx, now.Add(-5*time.Minute), now.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("GetDueInWindow after mark: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expected no tasks after reminder marked sent, got %d", len(due))
	}
}
