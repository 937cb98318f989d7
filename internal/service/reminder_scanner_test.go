package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ulugbekov/vazifabot/internal/models"
	"github.com/ulugbekov/vazifabot/internal/repository/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := memory.New()
	return New(logger, store.Users(), store.Tasks()), store
}

type sentReminder struct {
	chatID string
	taskID int64
	text   string
}

// failingSender records deliveries and fails for task IDs in failFor.
type failingSender struct {
	sent    []sentReminder
	failFor map[int64]bool
}

func (f *failingSender) send(user *models.User, task *models.Task, text string) error {
	if f.failFor[task.ID] {
		return errors.New("transport down")
	}
	f.sent = append(f.sent, sentReminder{chatID: user.TelegramID, taskID: task.ID, text: text})
	return nil
}

func dueTask(t *testing.T, svc *Service, userID int64, name string, dueAt time.Time) *models.Task {
	t.Helper()
	task, _, err := svc.CreateTask(context.Background(), userID, name, dueAt, models.TaskPriorityLow)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestScanDueTasks_SendsExactlyOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.EnsureUser(ctx, "42")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	task := dueTask(t, svc, user.ID, "call mom", now.Add(3*time.Minute))

	sender := &failingSender{}
	svc.scanDueTasks(ctx, now, sender.send)

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(sender.sent))
	}
	if sender.sent[0].chatID != "42" || sender.sent[0].taskID != task.ID {
		t.Errorf("reminder delivered to wrong place: %+v", sender.sent[0])
	}

	stored, err := svc.Tasks.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if !stored.ReminderSent {
		t.Errorf("expected reminder_sent=true after successful send")
	}

	// second tick inside the window must not resend
	svc.scanDueTasks(ctx, now.Add(time.Minute), sender.send)
	if len(sender.sent) != 1 {
		t.Errorf("expected no resend, got %d deliveries", len(sender.sent))
	}
}

func TestScanDueTasks_SendFailureKeepsFlagAndRetries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.EnsureUser(ctx, "7")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	task := dueTask(t, svc, user.ID, "pay rent", now.Add(2*time.Minute))

	sender := &failingSender{failFor: map[int64]bool{task.ID: true}}
	svc.scanDueTasks(ctx, now, sender.send)

	stored, err := svc.Tasks.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if stored.ReminderSent {
		t.Fatalf("flag must stay false after failed send")
	}

	// transport recovers, next tick delivers
	sender.failFor = nil
	svc.scanDueTasks(ctx, now.Add(time.Minute), sender.send)
	if len(sender.sent) != 1 {
		t.Fatalf("expected retry delivery, got %d", len(sender.sent))
	}
	stored, _ = svc.Tasks.GetByID(ctx, task.ID)
	if !stored.ReminderSent {
		t.Errorf("expected flag set after retry succeeded")
	}
}

func TestScanDueTasks_FailureIsolationPerTask(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.EnsureUser(ctx, "9")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bad := dueTask(t, svc, user.ID, "bad", now.Add(time.Minute))
	good := dueTask(t, svc, user.ID, "good", now.Add(2*time.Minute))

	sender := &failingSender{failFor: map[int64]bool{bad.ID: true}}
	svc.scanDueTasks(ctx, now, sender.send)

	if len(sender.sent) != 1 || sender.sent[0].taskID != good.ID {
		t.Fatalf("expected the healthy task to still be delivered, got %+v", sender.sent)
	}
	storedGood, _ := svc.Tasks.GetByID(ctx, good.ID)
	if !storedGood.ReminderSent {
		t.Errorf("healthy task should be flagged")
	}
	storedBad, _ := svc.Tasks.GetByID(ctx, bad.ID)
	if storedBad.ReminderSent {
		t.Errorf("failed task must not be flagged")
	}
}

func TestScanDueTasks_WindowBounds(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.EnsureUser(ctx, "11")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dueTask(t, svc, user.ID, "lower edge", now.Add(-5*time.Minute))
	dueTask(t, svc, user.ID, "upper edge", now.Add(5*time.Minute))
	dueTask(t, svc, user.ID, "too old", now.Add(-6*time.Minute))
	dueTask(t, svc, user.ID, "too far", now.Add(6*time.Minute))

	sender := &failingSender{}
	svc.scanDueTasks(ctx, now, sender.send)

	if len(sender.sent) != 2 {
		t.Fatalf("expected both window-edge tasks and nothing else, got %d", len(sender.sent))
	}
	for _, s := range sender.sent {
		if strings.Contains(s.text, "too old") || strings.Contains(s.text, "too far") {
			t.Errorf("task outside window was notified: %q", s.text)
		}
	}
}

func TestScanDueTasks_MissedTaskNeverCatchesUp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.EnsureUser(ctx, "12")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dueTask(t, svc, user.ID, "missed", now.Add(-20*time.Minute))

	sender := &failingSender{}
	svc.scanDueTasks(ctx, now, sender.send)
	if len(sender.sent) != 0 {
		t.Errorf("task outside the window must never be notified, got %d", len(sender.sent))
	}
}

func TestReminderText_SignMapping(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	task := &models.Task{Name: "report"}

	task.DueAt = now.Add(3*time.Minute + 30*time.Second)
	if text := ReminderText(task, now); !strings.Contains(text, "4 minutes left.") {
		t.Errorf("due in 3m30s should round to 4 minutes left, got %q", text)
	}

	task.DueAt = now
	if text := ReminderText(task, now); !strings.Contains(text, "Task time has arrived.") {
		t.Errorf("due now should use the arrived phrasing, got %q", text)
	}

	task.DueAt = now.Add(-7 * time.Minute)
	if text := ReminderText(task, now); !strings.Contains(text, "Task is 7 minutes overdue.") {
		t.Errorf("due 7m ago should use the overdue phrasing, got %q", text)
	}
}
