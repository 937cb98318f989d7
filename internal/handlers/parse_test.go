package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/ulugbekov/vazifabot/internal/models"
)

func TestParseAddArgs_FullForm(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	name, dueAt, priority := ParseAddArgs(strings.Fields("Buy milk 25.12.25 09:00 hard"), now)
	if name != "Buy milk" {
		t.Errorf("expected name %q, got %q", "Buy milk", name)
	}
	want := time.Date(2025, 12, 25, 9, 0, 0, 0, time.UTC)
	if !dueAt.Equal(want) {
		t.Errorf("expected due %v, got %v", want, dueAt)
	}
	if priority != models.TaskPriorityHigh {
		t.Errorf("expected HIGH, got %s", priority)
	}
}

func TestParseAddArgs_NameOnly(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	name, dueAt, priority := ParseAddArgs(strings.Fields("Buy milk"), now)
	if name != "Buy milk" {
		t.Errorf("expected name %q, got %q", "Buy milk", name)
	}
	if !dueAt.Equal(now) {
		t.Errorf("expected due to default to now, got %v", dueAt)
	}
	if priority != models.TaskPriorityLow {
		t.Errorf("expected LOW default, got %s", priority)
	}
}

func TestParseAddArgs_DateTimeNoPriority(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	name, dueAt, priority := ParseAddArgs(strings.Fields("Buy milk 25.12.25 09:00"), now)
	if name != "Buy milk" {
		t.Errorf("expected name %q, got %q", "Buy milk", name)
	}
	want := time.Date(2025, 12, 25, 9, 0, 0, 0, time.UTC)
	if !dueAt.Equal(want) {
		t.Errorf("expected due %v, got %v", want, dueAt)
	}
	if priority != models.TaskPriorityLow {
		t.Errorf("expected LOW, got %s", priority)
	}
}

func TestParseAddArgs_FourDigitYearAndCase(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	name, dueAt, priority := ParseAddArgs(strings.Fields("Dentist 03.02.2026 14:30 MEDIUM"), now)
	if name != "Dentist" {
		t.Errorf("expected name %q, got %q", "Dentist", name)
	}
	want := time.Date(2026, 2, 3, 14, 30, 0, 0, time.UTC)
	if !dueAt.Equal(want) {
		t.Errorf("expected due %v, got %v", want, dueAt)
	}
	if priority != models.TaskPriorityMedium {
		t.Errorf("expected MEDIUM, got %s", priority)
	}
}

func TestParseAddArgs_PriorityWordWithoutTimeStaysName(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// "hard" is only a priority when preceded by a time token
	name, dueAt, priority := ParseAddArgs(strings.Fields("Study hard"), now)
	if name != "Study hard" {
		t.Errorf("expected full name kept, got %q", name)
	}
	if !dueAt.Equal(now) || priority != models.TaskPriorityLow {
		t.Errorf("expected defaults, got due %v priority %s", dueAt, priority)
	}
}
