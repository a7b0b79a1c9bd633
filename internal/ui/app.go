package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tgienger/todo/internal/prefs"
	"github.com/tgienger/todo/internal/store"
	"github.com/tgienger/todo/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewTasks View = iota
	ViewFonts
)

type App struct {
	store       *store.Store
	prefs       *prefs.DB
	logger      *zap.Logger
	currentView View
	taskList    *views.TaskListView
	fontPicker  *views.FontPickerView
	width       int
	height      int
}

// NewApp creates the application. prefsDB may be nil, in which case the tab is not remembered.
func NewApp(ctx context.Context, st *store.Store, prefsDB *prefs.DB, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		store:       st,
		prefs:       prefsDB,
		logger:      logger,
		currentView: ViewTasks,
		taskList:    views.NewTaskListView(ctx, st),
	}
}

func (a *App) Init() tea.Cmd {
	return a.taskList.Init()
}

// Close releases view subscriptions
func (a *App) Close() {
	a.taskList.Close()
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always keep the task list sized since it persists
		a.taskList.Update(msg)
		if a.fontPicker != nil {
			a.fontPicker.Update(msg)
		}
		return a, nil

	case views.TabChanged:
		if a.prefs != nil {
			if err := a.prefs.SetLastTab(msg.Tab); err != nil {
				a.logger.Warn("save last tab", zap.Error(err))
			}
		}
		return a, nil

	case views.OpenFontPicker:
		if a.fontPicker == nil {
			a.fontPicker = views.NewFontPickerView(msg.Current)
		} else {
			a.fontPicker.SetCurrent(msg.Current)
		}
		a.currentView = ViewFonts
		return a, a.resize()

	case views.FontSelected:
		a.store.SetFont(msg.Font)
		a.currentView = ViewTasks
		return a, nil

	case views.FontPickerClosed:
		a.currentView = ViewTasks
		return a, nil
	}

	// Only key presses are routed by view; everything else feeds the task list
	// so store updates and spinner ticks keep flowing while the picker is open.
	if _, isKey := msg.(tea.KeyMsg); isKey && a.currentView == ViewFonts {
		_, cmd := a.fontPicker.Update(msg)
		return a, cmd
	}

	_, cmd := a.taskList.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.currentView == ViewFonts && a.fontPicker != nil {
		return a.fontPicker.View()
	}
	return a.taskList.View()
}
