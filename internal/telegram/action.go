package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ulugbekov/vazifabot/internal/models"
)

// ActionKind identifies one of the inline keyboard actions the bot
// understands.
type ActionKind string

const (
	ActionComplete      ActionKind = "complete"
	ActionDelete        ActionKind = "delete"
	ActionConfirmDelete ActionKind = "confirm_delete"
	ActionCancelDelete  ActionKind = "cancel_delete"
	ActionShowTask      ActionKind = "show"
	ActionShowTasks     ActionKind = "show_tasks"
	ActionBackToTasks   ActionKind = "back_to_tasks"
	ActionSetPriority   ActionKind = "priority"
)

// Action is a decoded callback payload. Callback data is parsed into
// this closed set at the transport boundary so handlers never see raw
// tag strings.
type Action struct {
	Kind     ActionKind
	TaskID   int64
	Priority models.TaskPriority
}

// ErrUnknownAction is returned for callback data the bot does not emit.
var ErrUnknownAction = errors.New("unknown callback action")

// ParseAction decodes raw callback data into an Action.
func ParseAction(data string) (Action, error) {
	switch data {
	case string(ActionCancelDelete):
		return Action{Kind: ActionCancelDelete}, nil
	case string(ActionShowTasks):
		return Action{Kind: ActionShowTasks}, nil
	case string(ActionBackToTasks):
		return Action{Kind: ActionBackToTasks}, nil
	}

	// confirm_delete_ must be checked before delete_
	if rest, ok := strings.CutPrefix(data, "confirm_delete_"); ok {
		return actionWithID(ActionConfirmDelete, rest)
	}
	if rest, ok := strings.CutPrefix(data, "complete_"); ok {
		return actionWithID(ActionComplete, rest)
	}
	if rest, ok := strings.CutPrefix(data, "delete_"); ok {
		return actionWithID(ActionDelete, rest)
	}
	if rest, ok := strings.CutPrefix(data, "show_"); ok {
		return actionWithID(ActionShowTask, rest)
	}
	if rest, ok := strings.CutPrefix(data, "priority_"); ok {
		level, idPart, found := strings.Cut(rest, "_")
		if !found {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		priority := models.TaskPriority(level)
		switch priority {
		case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		default:
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		return Action{Kind: ActionSetPriority, TaskID: id, Priority: priority}, nil
	}

	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, data)
}

func actionWithID(kind ActionKind, idPart string) (Action, error) {
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return Action{}, fmt.Errorf("%w: %s_%s", ErrUnknownAction, kind, idPart)
	}
	return Action{Kind: kind, TaskID: id}, nil
}

// Data encodes the action back into callback data for keyboards.
func (a Action) Data() string {
	switch a.Kind {
	case ActionCancelDelete, ActionShowTasks, ActionBackToTasks:
		return string(a.Kind)
	case ActionSetPriority:
		return fmt.Sprintf("priority_%s_%d", a.Priority, a.TaskID)
	default:
		return fmt.Sprintf("%s_%d", a.Kind, a.TaskID)
	}
}
