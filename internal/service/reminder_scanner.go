package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/atomic"

	"github.com/ulugbekov/vazifabot/internal/metrics"
	"github.com/ulugbekov/vazifabot/internal/models"
)

const (
	scanInterval   = time.Minute
	reminderWindow = 5 * time.Minute
)

// ReminderSender delivers a rendered reminder for a task to its owner.
// The implementation decides the transport details (inline keyboard,
// parse mode); a non-nil error leaves the task's reminder flag unset so
// it is retried on the next tick.
type ReminderSender func(user *models.User, task *models.Task, text string) error

// scannerStats tracks scan activity for the health endpoint.
type scannerStats struct {
	ticks    atomic.Int64
	sent     atomic.Int64
	failed   atomic.Int64
	lastTick atomic.Int64
}

// ScannerStats is a point-in-time snapshot of reminder scanner activity.
type ScannerStats struct {
	Ticks    int64     `json:"ticks"`
	Sent     int64     `json:"reminders_sent"`
	Failed   int64     `json:"reminders_failed"`
	LastTick time.Time `json:"last_tick"`
}

// ScannerStats returns a snapshot of the scanner's counters.
func (s *Service) ScannerStats() ScannerStats {
	return ScannerStats{
		Ticks:    s.stats.ticks.Load(),
		Sent:     s.stats.sent.Load(),
		Failed:   s.stats.failed.Load(),
		LastTick: time.Unix(s.stats.lastTick.Load(), 0),
	}
}

// StartReminderScanner runs a background loop that scans for tasks due
// inside the reminder window every minute and sends each owner a
// notification. The first scan happens one interval after start. It
// blocks until the context is cancelled, so it should be launched in a
// separate goroutine.
func (s *Service) StartReminderScanner(ctx context.Context, send ReminderSender) {
	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	s.logger.Info("Reminder scanner started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reminder scanner stopped")
			return
		case <-ticker.C:
			s.scanDueTasks(ctx, time.Now(), send)
		}
	}
}

// scanDueTasks performs a single scan tick: it selects all active,
// not-yet-reminded tasks due within ±5 minutes of now and notifies each
// owner independently. Only a successful send flips the reminder flag,
// so failed deliveries are retried every tick until the task leaves the
// window. Nothing here is ever fatal; a failed outer query simply ends
// the tick.
func (s *Service) scanDueTasks(ctx context.Context, now time.Time, send ReminderSender) {
	s.stats.ticks.Inc()
	s.stats.lastTick.Store(now.Unix())

	tasks, err := s.Tasks.GetDueInWindow(ctx, now.Add(-reminderWindow), now.Add(reminderWindow))
	if err != nil {
		s.logger.Errorf("Reminder scan query failed: %v", err)
		return
	}

	var errs *multierror.Error
	for _, task := range tasks {
		if err := s.sendReminder(ctx, now, task, send); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("task %d: %w", task.ID, err))
			s.stats.failed.Inc()
			metrics.ReminderSendErrors.Inc()
			continue
		}
		s.stats.sent.Inc()
		metrics.RemindersSent.Inc()
	}

	if err := errs.ErrorOrNil(); err != nil {
		s.logger.Warnf("Reminder scan finished with errors: %v", err)
	}
}

func (s *Service) sendReminder(ctx context.Context, now time.Time, task *models.Task, send ReminderSender) error {
	if task.User == nil {
		return fmt.Errorf("owner not loaded")
	}
	if err := send(task.User, task, ReminderText(task, now)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if err := s.Tasks.MarkReminderSent(ctx, task.ID); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}

// ReminderText renders the notification for a task relative to now. The
// minute delta rounds half away from zero.
func ReminderText(task *models.Task, now time.Time) string {
	left := int(math.Round(task.DueAt.Sub(now).Minutes()))

	var sb strings.Builder
	sb.WriteString("⏰ *Reminder!*\n\n")
	sb.WriteString(fmt.Sprintf("📝 *%s*\n", task.Name))
	sb.WriteString(fmt.Sprintf("📅 Due: %s\n", task.FormatDue()))

	switch {
	case left > 0:
		sb.WriteString(fmt.Sprintf("⏳ %d minutes left.", left))
	case left == 0:
		sb.WriteString("🔔 Task time has arrived.")
	default:
		sb.WriteString(fmt.Sprintf("⚠️ Task is %d minutes overdue.", -left))
	}
	return sb.String()
}
