package store

import (
	"strings"

	"github.com/tgienger/todo/internal/models"
)

// SearchFilter keeps tasks whose title or description contains query,
// ignoring case. An empty query returns tasks unchanged.
func SearchFilter(tasks []models.Task, query string) []models.Task {
	if query == "" {
		return tasks
	}
	q := strings.ToLower(query)
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

// TabFilter narrows tasks to the given tab.
func TabFilter(tasks []models.Task, tab models.Tab) []models.Task {
	if tab == models.TabAll {
		return tasks
	}
	wantDone := tab == models.TabCompleted
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Done == wantDone {
			out = append(out, t)
		}
	}
	return out
}
