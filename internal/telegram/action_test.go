package telegram

import (
	"errors"
	"testing"

	"github.com/ulugbekov/vazifabot/internal/models"
)

func TestParseAction(t *testing.T) {
	got, err := ParseAction("complete_12")
	if err != nil {
		t.Fatalf("complete_12: %v", err)
	}
	if got.Kind != ActionComplete || got.TaskID != 12 {
		t.Errorf("complete_12 decoded as %+v", got)
	}

	// confirm_delete must not be swallowed by the delete prefix
	got, err = ParseAction("confirm_delete_7")
	if err != nil {
		t.Fatalf("confirm_delete_7: %v", err)
	}
	if got.Kind != ActionConfirmDelete || got.TaskID != 7 {
		t.Errorf("confirm_delete_7 decoded as %+v", got)
	}

	// show_tasks must not be swallowed by the show prefix
	got, err = ParseAction("show_tasks")
	if err != nil {
		t.Fatalf("show_tasks: %v", err)
	}
	if got.Kind != ActionShowTasks || got.TaskID != 0 {
		t.Errorf("show_tasks decoded as %+v", got)
	}

	got, err = ParseAction("priority_HIGH_3")
	if err != nil {
		t.Fatalf("priority_HIGH_3: %v", err)
	}
	if got.Kind != ActionSetPriority || got.TaskID != 3 || got.Priority != models.TaskPriorityHigh {
		t.Errorf("priority_HIGH_3 decoded as %+v", got)
	}

	for _, data := range []string{"", "nonsense", "complete_x", "priority_URGENT_3", "priority_HIGH_", "show_"} {
		if _, err := ParseAction(data); !errors.Is(err, ErrUnknownAction) {
			t.Errorf("%q: expected ErrUnknownAction, got %v", data, err)
		}
	}
}

func TestActionDataRoundTrip(t *testing.T) {
	actions := []Action{
		{Kind: ActionComplete, TaskID: 5},
		{Kind: ActionDelete, TaskID: 8},
		{Kind: ActionConfirmDelete, TaskID: 8},
		{Kind: ActionCancelDelete},
		{Kind: ActionShowTask, TaskID: 2},
		{Kind: ActionBackToTasks},
		{Kind: ActionSetPriority, TaskID: 4, Priority: models.TaskPriorityMedium},
	}
	for _, a := range actions {
		decoded, err := ParseAction(a.Data())
		if err != nil {
			t.Fatalf("%s: %v", a.Data(), err)
		}
		if decoded != a {
			t.Errorf("round trip mismatch: %+v -> %q -> %+v", a, a.Data(), decoded)
		}
	}
}
