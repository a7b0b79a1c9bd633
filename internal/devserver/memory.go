package devserver

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tgienger/todo/internal/models"
)

var errTaskNotFound = errors.New("task not found")

// memoryStore keeps tasks in insertion order.
type memoryStore struct {
	mu    sync.RWMutex
	tasks []models.Task
	now   func() time.Time
	newID func() string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (m *memoryStore) list() []models.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

func (m *memoryStore) create(in models.NewTask) models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	task := models.Task{
		ID:          m.newID(),
		Title:       in.Title,
		Description: in.Description,
		Done:        in.Done,
		CreatedAt:   m.now().Truncate(time.Millisecond),
	}
	m.tasks = append(m.tasks, task)
	return task
}

func (m *memoryStore) seed(tasks ...models.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, tasks...)
}

func (m *memoryStore) update(id string, patch models.TaskPatch) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID != id {
			continue
		}
		if patch.Title != nil {
			m.tasks[i].Title = *patch.Title
		}
		if patch.Description != nil {
			m.tasks[i].Description = *patch.Description
		}
		if patch.Done != nil {
			m.tasks[i].Done = *patch.Done
		}
		return m.tasks[i], nil
	}
	return models.Task{}, errTaskNotFound
}

func (m *memoryStore) delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return errTaskNotFound
}
