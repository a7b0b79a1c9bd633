package store

import (
	"testing"

	"github.com/tgienger/todo/internal/models"
)

var sample = []models.Task{
	{ID: "1", Title: "Buy milk", Description: "", Done: false},
	{ID: "2", Title: "Call mom", Description: "about MILK prices", Done: true},
	{ID: "3", Title: "Write report", Description: "quarterly", Done: false},
	{ID: "4", Title: "Gym", Done: true},
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearchFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query is identity", "", []string{"1", "2", "3", "4"}},
		{"title match", "buy", []string{"1"}},
		{"case-insensitive across title and description", "milk", []string{"1", "2"}},
		{"description match", "QUARTER", []string{"3"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SearchFilter(sample, tt.query))
			if !equalIDs(got, tt.want) {
				t.Errorf("SearchFilter(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearchFilterTitleSubstringAlwaysIncluded(t *testing.T) {
	for _, task := range sample {
		for i := 0; i < len(task.Title); i++ {
			q := task.Title[i:]
			found := false
			for _, got := range SearchFilter(sample, q) {
				if got.ID == task.ID {
					found = true
				}
			}
			if !found {
				t.Errorf("task %s missing for query %q", task.ID, q)
			}
		}
	}
}

func TestTabFilter(t *testing.T) {
	tests := []struct {
		tab  models.Tab
		want []string
	}{
		{models.TabAll, []string{"1", "2", "3", "4"}},
		{models.TabCompleted, []string{"2", "4"}},
		{models.TabIncomplete, []string{"1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.tab.String(), func(t *testing.T) {
			got := ids(TabFilter(sample, tt.tab))
			if !equalIDs(got, tt.want) {
				t.Errorf("TabFilter(%s) = %v, want %v", tt.tab, got, tt.want)
			}
		})
	}
}

func TestTabFilterPartitions(t *testing.T) {
	done := TabFilter(sample, models.TabCompleted)
	open := TabFilter(sample, models.TabIncomplete)
	if len(done)+len(open) != len(sample) {
		t.Fatalf("completed %d + incomplete %d != %d", len(done), len(open), len(sample))
	}
	seen := map[string]bool{}
	for _, task := range append(done, open...) {
		if seen[task.ID] {
			t.Errorf("task %s in both partitions", task.ID)
		}
		seen[task.ID] = true
	}
}
