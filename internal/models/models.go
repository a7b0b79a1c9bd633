package models

import (
	"strings"
	"time"
)

// Task represents a single todo item owned by the remote service
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewTask is the body sent when creating a task
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// TaskPatch is a partial update; nil fields are left untouched by the server
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Done        *bool   `json:"done,omitempty"`
}

// EditPatch builds the patch used when saving the edit form
func EditPatch(title, description string) TaskPatch {
	return TaskPatch{Title: &title, Description: &description}
}

// DonePatch builds the patch used by the completion checkbox
func DonePatch(done bool) TaskPatch {
	return TaskPatch{Done: &done}
}

// Tab selects one of the fixed list views
type Tab int

const (
	TabAll Tab = iota
	TabCompleted
	TabIncomplete
)

// Tabs lists the tabs in display order
var Tabs = []Tab{TabAll, TabCompleted, TabIncomplete}

func (t Tab) String() string {
	switch t {
	case TabCompleted:
		return "Completed"
	case TabIncomplete:
		return "Incomplete"
	default:
		return "All"
	}
}

// Next returns the tab to the right, wrapping around
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % len(Tabs))
}

// Prev returns the tab to the left, wrapping around
func (t Tab) Prev() Tab {
	return Tab((int(t) + len(Tabs) - 1) % len(Tabs))
}

// ParseTab matches a tab by its display name (case-insensitive)
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if strings.EqualFold(strings.TrimSpace(s), t.String()) {
			return t, true
		}
	}
	return TabAll, false
}

// Font is a cosmetic typeface choice for the task list
type Font string

const (
	FontInter      Font = "inter"
	FontCaveat     Font = "caveat"
	FontIndie      Font = "indie"
	FontShadows    Font = "shadows"
	FontDancing    Font = "dancing"
	FontSacramento Font = "sacramento"
	FontReenie     Font = "reenie"
	FontPacifico   Font = "pacifico"
)

// DefaultFont is used when nothing else is selected
const DefaultFont = FontInter

// Fonts lists every selectable font in menu order
var Fonts = []Font{
	FontInter,
	FontCaveat,
	FontIndie,
	FontShadows,
	FontDancing,
	FontSacramento,
	FontReenie,
	FontPacifico,
}

var fontNames = map[Font]string{
	FontInter:      "Sans Serif",
	FontCaveat:     "Caveat",
	FontIndie:      "Indie Flower",
	FontShadows:    "Shadows Into Light",
	FontDancing:    "Dancing Script",
	FontSacramento: "Sacramento",
	FontReenie:     "Reenie Beanie",
	FontPacifico:   "Pacifico",
}

// Name returns the human-readable font name
func (f Font) Name() string {
	if name, ok := fontNames[f]; ok {
		return name
	}
	return fontNames[DefaultFont]
}

// ParseFont matches a font by value or display name (case-insensitive)
func ParseFont(s string) (Font, bool) {
	s = strings.TrimSpace(s)
	for _, f := range Fonts {
		if strings.EqualFold(s, string(f)) || strings.EqualFold(s, fontNames[f]) {
			return f, true
		}
	}
	return DefaultFont, false
}
