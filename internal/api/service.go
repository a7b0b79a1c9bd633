// Package api talks to the remote todo service over its REST contract.
package api

import (
	"context"

	"github.com/tgienger/todo/internal/models"
)

// Service defines the remote task operations.
// The store and UI only ever see this interface; tests swap in a fake.
type Service interface {
	// ListTasks returns every task in server order.
	ListTasks(ctx context.Context) ([]models.Task, error)

	// CreateTask creates a task and returns the stored record.
	CreateTask(ctx context.Context, task models.NewTask) (models.Task, error)

	// UpdateTask applies a partial update and returns the full updated record.
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error
}
