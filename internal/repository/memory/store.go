// Package memory provides in-memory implementations of the repository
// interfaces. They back the service and API tests; the bot itself runs
// on the postgres implementations.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ulugbekov/vazifabot/internal/models"
)

// Store holds users and tasks in memory behind a single mutex.
type Store struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	tasks  map[int64]*models.Task
	nextID int64
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:  make(map[int64]*models.User),
		tasks:  make(map[int64]*models.Task),
		nextID: 1,
	}
}

// Users returns the store's UserRepository view.
func (s *Store) Users() *UserStore { return &UserStore{s} }

// Tasks returns the store's TaskRepository view.
func (s *Store) Tasks() *TaskStore { return &TaskStore{s} }

func (s *Store) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// UserStore implements repository.UserRepository.
type UserStore struct {
	s *Store
}

func (u *UserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	cp := *user
	cp.ID = u.s.id()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	u.s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (u *UserStore) GetByTelegramID(_ context.Context, telegramID string) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, usr := range u.s.users {
		if usr.TelegramID == telegramID {
			cp := *usr
			return &cp, nil
		}
	}
	return nil, nil
}

func (u *UserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	usr, ok := u.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *usr
	return &cp, nil
}

// TaskStore implements repository.TaskRepository.
type TaskStore struct {
	s *Store
}

func (t *TaskStore) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	cp := *task
	cp.ID = t.s.id()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	if cp.Status == "" {
		cp.Status = models.TaskStatusActive
	}
	if cp.Priority == "" {
		cp.Priority = models.TaskPriorityLow
	}
	cp.User = nil
	t.s.tasks[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (t *TaskStore) GetByID(_ context.Context, id int64) (*models.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	task, ok := t.s.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *task
	return &cp, nil
}

func (t *TaskStore) GetByOwner(_ context.Context, userID int64) ([]*models.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var out []*models.Task
	for _, task := range t.s.tasks {
		if task.UserID == userID {
			cp := *task
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (t *TaskStore) GetDueInWindow(_ context.Context, start, end time.Time) ([]*models.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var out []*models.Task
	for _, task := range t.s.tasks {
		if task.Status != models.TaskStatusActive || task.ReminderSent {
			continue
		}
		if task.DueAt.Before(start) || task.DueAt.After(end) {
			continue
		}
		cp := *task
		if usr, ok := t.s.users[task.UserID]; ok {
			ucp := *usr
			cp.User = &ucp
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *TaskStore) Update(_ context.Context, task *models.Task) (*models.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	stored, ok := t.s.tasks[task.ID]
	if !ok {
		return nil, fmt.Errorf("task %d not found", task.ID)
	}
	stored.Name = task.Name
	stored.DueAt = task.DueAt
	stored.Priority = task.Priority
	stored.Status = task.Status
	stored.ReminderSent = task.ReminderSent
	cp := *stored
	return &cp, nil
}

func (t *TaskStore) MarkReminderSent(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	task, ok := t.s.tasks[id]
	if !ok {
		return fmt.Errorf("task %d not found", id)
	}
	task.ReminderSent = true
	return nil
}

func (t *TaskStore) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.tasks[id]; !ok {
		return fmt.Errorf("task %d not found", id)
	}
	delete(t.s.tasks, id)
	return nil
}

func (t *TaskStore) CountByOwner(_ context.Context, userID int64) (int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	count := 0
	for _, task := range t.s.tasks {
		if task.UserID == userID {
			count++
		}
	}
	return count, nil
}
