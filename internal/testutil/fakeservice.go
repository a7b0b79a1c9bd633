// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/tgienger/todo/internal/models"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of api.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []models.Task
	nextID int
	now    time.Time

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// UpdateHook, when set, runs before UpdateTask takes the lock
	UpdateHook func(id string, patch models.TaskPatch)

	// Call counters
	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	// Last payloads received
	LastCreate models.NewTask
	LastPatch  models.TaskPatch
	LastID     string
}

// NewFakeService creates an empty FakeService. Created tasks get increasing
// timestamps starting at a fixed date.
func NewFakeService() *FakeService {
	return &FakeService{
		now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// AddTask stores a task as-is.
func (f *FakeService) AddTask(task models.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []models.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.Task(nil), f.tasks...)
}

// Calls returns the total number of remote calls made.
func (f *FakeService) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ListCalls + f.CreateCalls + f.UpdateCalls + f.DeleteCalls
}

// ListTasks implements api.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.Task(nil), f.tasks...), nil
}

// CreateTask implements api.Service.
func (f *FakeService) CreateTask(ctx context.Context, in models.NewTask) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastCreate = in
	if f.CreateErr != nil {
		return models.Task{}, f.CreateErr
	}
	f.nextID++
	f.now = f.now.Add(time.Minute)
	task := models.Task{
		ID:          "fake-" + strconv.Itoa(f.nextID),
		Title:       in.Title,
		Description: in.Description,
		Done:        in.Done,
		CreatedAt:   f.now,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements api.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if f.UpdateHook != nil {
		f.UpdateHook(id, patch)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastID = id
	f.LastPatch = patch
	if f.UpdateErr != nil {
		return models.Task{}, f.UpdateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.tasks[i].Title = *patch.Title
		}
		if patch.Description != nil {
			f.tasks[i].Description = *patch.Description
		}
		if patch.Done != nil {
			f.tasks[i].Done = *patch.Done
		}
		return f.tasks[i], nil
	}
	return models.Task{}, ErrNotFound
}

// DeleteTask implements api.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	f.LastID = id
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
