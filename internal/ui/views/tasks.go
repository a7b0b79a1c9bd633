package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/store"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusTaskList FocusArea = iota
	FocusSearchInput
)

// form field indexes
const (
	fieldTitle = iota
	fieldDesc
	fieldSave
	fieldCount
)

// remote operations started by the view
const (
	opLoad = iota
	opCreate
	opUpdate
	opToggle
	opRemove
)

// storeChangedMsg is delivered whenever the store notifies subscribers
type storeChangedMsg struct{}

// opDoneMsg reports the outcome of a remote operation
type opDoneMsg struct {
	op  int
	err error
}

// TabChanged is emitted when the user switches tabs
type TabChanged struct {
	Tab models.Tab
}

// OpenFontPicker asks the app to show the font picker
type OpenFontPicker struct {
	Current models.Font
}

// TaskListView is the main screen: tabs, search, list, form and detail view
type TaskListView struct {
	ctx    context.Context
	store  *store.Store
	snap   store.Snapshot
	styles *styles.Styles
	keys   keys.KeyMap

	changes     chan struct{}
	done        chan struct{}
	unsubscribe func()

	width  int
	height int

	// UI state
	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model
	spinner     spinner.Model

	// Create/edit form
	editing      bool
	editTitle    textinput.Model
	editDesc     textarea.Model
	editFocusIdx int

	// Detail view
	viewingTask bool
	viewTaskID  string

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Help popup (shown with ?)
	showHelpPopup bool
}

// NewTaskListView creates a new task list view backed by st
func NewTaskListView(ctx context.Context, st *store.Store) *TaskListView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description (optional, markdown)"
	editDesc.CharLimit = 2000
	editDesc.SetWidth(50)
	editDesc.SetHeight(4)
	editDesc.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner

	v := &TaskListView{
		ctx:         ctx,
		store:       st,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		changes:     make(chan struct{}, 1),
		done:        make(chan struct{}),
		focus:       FocusTaskList,
		searchInput: search,
		spinner:     sp,
		editTitle:   editTitle,
		editDesc:    editDesc,
	}
	v.unsubscribe = st.Subscribe(func(store.Snapshot) {
		select {
		case v.changes <- struct{}{}:
		default:
		}
	})
	v.snap = st.Snapshot()
	return v
}

// Init starts the initial load
func (v *TaskListView) Init() tea.Cmd {
	return tea.Batch(v.run(opLoad, v.store.Load), v.waitForChange, v.spinner.Tick)
}

// Close stops listening for store changes
func (v *TaskListView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
		close(v.done)
	}
}

// Snapshot returns the state the view last rendered from
func (v *TaskListView) Snapshot() store.Snapshot {
	return v.snap
}

// waitForChange blocks until the store changes. It returns nil once the
// view is closed or its context is done.
func (v *TaskListView) waitForChange() tea.Msg {
	select {
	case <-v.changes:
		return storeChangedMsg{}
	case <-v.done:
		return nil
	case <-v.ctx.Done():
		return nil
	}
}

// run wraps a blocking store call in a command. Each call gets its own
// request ID so the store and client log lines can be matched up.
func (v *TaskListView) run(op int, fn func(context.Context) error) tea.Cmd {
	ctx := logger.ContextWithRequestID(v.ctx, uuid.NewString())
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (v *TaskListView) refresh() {
	v.snap = v.store.Snapshot()
	if v.cursor >= len(v.snap.Visible) {
		v.cursor = max(0, len(v.snap.Visible)-1)
	}
	if v.viewingTask {
		if _, ok := v.taskByID(v.viewTaskID); !ok {
			v.viewingTask = false
		}
	}
	v.ensureVisible()
}

func (v *TaskListView) taskByID(id string) (models.Task, bool) {
	for _, t := range v.snap.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func (v *TaskListView) selected() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.snap.Visible) {
		return models.Task{}, false
	}
	return v.snap.Visible[v.cursor], true
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.ensureVisible()
		return v, nil

	case storeChangedMsg:
		v.refresh()
		return v, v.waitForChange

	case opDoneMsg:
		v.refresh()
		if msg.err == nil && (msg.op == opCreate || msg.op == opUpdate) {
			v.closeForm()
		}
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search input swallows hotkeys while typing
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			if v.searchInput.Value() != v.snap.SearchQuery {
				v.store.SetSearchQuery(v.searchInput.Value())
				v.cursor, v.scrollY = 0, 0
				v.refresh()
			}
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if v.snap.LastError != "" {
			v.store.ClearError()
			v.refresh()
		}
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.NextTab):
		return v, v.setTab(v.snap.Tab.Next())

	case key.Matches(msg, v.keys.PrevTab):
		return v, v.setTab(v.snap.Tab.Prev())

	case msg.String() == "1", msg.String() == "2", msg.String() == "3":
		return v, v.setTab(models.Tabs[int(msg.String()[0]-'1')])

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.snap.Visible)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Font):
		current := v.snap.Font
		return v, func() tea.Msg { return OpenFontPicker{Current: current} }

	case key.Matches(msg, v.keys.Enter):
		if task, ok := v.selected(); ok {
			v.viewingTask = true
			v.viewTaskID = task.ID
		}
		return v, nil
	}

	// Everything below talks to the service; ignore it while a call is in flight
	if v.snap.Loading {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.selected(); ok {
			v.startEditTask(task)
			return v, textinput.Blink
		}

	case key.Matches(msg, v.keys.Toggle):
		if task, ok := v.selected(); ok {
			return v, v.toggle(task)
		}

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(); ok {
			v.askDelete(task)
		}
	}

	return v, nil
}

func (v *TaskListView) setTab(tab models.Tab) tea.Cmd {
	if tab == v.snap.Tab {
		return nil
	}
	v.store.SetTab(tab)
	v.cursor, v.scrollY = 0, 0
	v.refresh()
	return func() tea.Msg { return TabChanged{Tab: tab} }
}

func (v *TaskListView) toggle(task models.Task) tea.Cmd {
	id, done := task.ID, !task.Done
	return v.run(opToggle, func(ctx context.Context) error {
		return v.store.ToggleDone(ctx, id, done)
	})
}

func (v *TaskListView) askDelete(task models.Task) {
	v.confirmingDelete = true
	v.deleteTargetID = task.ID
	v.deleteTargetName = task.Title
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTargetID
		return v, v.run(opRemove, func(ctx context.Context) error {
			return v.store.Remove(ctx, id)
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, ok := v.taskByID(v.viewTaskID)
	if !ok {
		v.viewingTask = false
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		return v, nil
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}

	if v.snap.Loading {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		v.startEditTask(task)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Toggle):
		return v, v.toggle(task)
	case key.Matches(msg, v.keys.Delete):
		v.askDelete(task)
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		if v.snap.Editing() {
			v.store.CancelEdit()
		}
		v.closeForm()
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.BackTab):
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case fieldTitle:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case fieldSave:
			return v, v.saveTask()
		}
		// enter inserts a newline in the description
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	}
	v.store.SetDraft(v.editTitle.Value(), v.editDesc.Value())
	return v, cmd
}

func (v *TaskListView) startNewTask() {
	if v.snap.Editing() {
		v.store.CancelEdit()
	}
	v.editing = true
	v.editFocusIdx = fieldTitle
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.updateEditFocus()
	v.refresh()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.store.BeginEdit(task)
	v.editing = true
	v.editFocusIdx = fieldTitle
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.updateEditFocus()
	v.refresh()
}

func (v *TaskListView) closeForm() {
	v.editing = false
	v.editTitle.Blur()
	v.editDesc.Blur()
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDesc:
		v.editDesc.Focus()
	}
}

// saveTask submits the form. A blank title keeps the form open.
func (v *TaskListView) saveTask() tea.Cmd {
	if v.snap.Loading {
		return nil
	}
	title := v.editTitle.Value()
	desc := v.editDesc.Value()
	if strings.TrimSpace(title) == "" {
		return nil
	}

	if v.snap.Editing() {
		return v.run(opUpdate, func(ctx context.Context) error {
			return v.store.Update(ctx, title, desc)
		})
	}
	return v.run(opCreate, func(ctx context.Context) error {
		return v.store.Create(ctx, title, desc)
	})
}

func (v *TaskListView) visibleItems() int {
	// Each task item is 2 lines + 1 margin
	availableHeight := v.height - 12
	if availableHeight < 3 {
		availableHeight = 3
	}
	return max(availableHeight/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-8, 10, 40)
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	var tabs []string
	for _, t := range models.Tabs {
		label := fmt.Sprintf("%s (%d)", t, len(store.TabFilter(v.snap.Filtered, t)))
		if t == v.snap.Tab {
			tabs = append(tabs, s.TabActive.Render(label))
		} else {
			tabs = append(tabs, s.Tab.Render(label))
		}
	}

	title := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Title.Render("Todo"),
		"  ",
		s.TitleMuted.Render("font: "+v.snap.Font.Name()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		searchBox,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.snap.Visible) == 0 {
		switch {
		case v.snap.Loading && len(v.snap.Tasks) == 0:
			return s.TitleMuted.Render("Loading...")
		case v.snap.SearchQuery != "":
			return s.TitleMuted.Render("No tasks match your search.")
		default:
			return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
		}
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.snap.Visible))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.snap.Visible[i], i == v.cursor && v.focus == FocusTaskList))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	checkbox := s.Checkbox.Render("[ ]")
	title := styles.FontStyle(v.snap.Font).Render(task.Title)
	if task.Done {
		checkbox = s.CheckboxDone.Render("[x]")
		title = styles.FontStyle(v.snap.Font).Inherit(s.TaskDone).Render(task.Title)
	}

	lineStyle := s.ListItem
	if selected {
		lineStyle = s.ListSelected
	}

	titleLine := lineStyle.Width(width).Render(checkbox + " " + title)
	dateLine := s.TaskDate.Render(styles.FormatDate(task.CreatedAt))

	return lipgloss.JoinVertical(lipgloss.Left, titleLine, dateLine) + "\n"
}

// renderStatus shows the spinner while loading and the last error, if any
func (v *TaskListView) renderStatus() string {
	s := v.styles
	var parts []string
	if v.snap.Loading {
		parts = append(parts, v.spinner.View()+s.TitleMuted.Render(" working..."))
	}
	if v.snap.LastError != "" {
		parts = append(parts, s.Error.Render(v.snap.LastError)+s.TitleMuted.Render("  (esc to dismiss)"))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ") + "\n"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if v.snap.Editing() {
		formTitle = "Edit Task"
	}

	titleStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.editFocusIdx {
	case fieldTitle:
		titleStyle = s.InputFocused
	case fieldDesc:
		descStyle = s.InputFocused
	case fieldSave:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	status := v.renderStatus()
	if status == "" && strings.TrimSpace(v.editTitle.Value()) == "" {
		status = s.TitleMuted.Render("Title is required") + "\n"
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		descStyle.Render(v.editDesc.View()),
		"",
		btnStyle.Render(" Save "),
		"",
		status,
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 60 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s done • %s new • %s edit • %s del • %s search • %s tabs • %s font • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("←→"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      view task",
		s.HelpKey.Render("space") + "  toggle done",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("e") + "      edit task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("←→") + "     switch tab (1-3)",
		s.HelpKey.Render("f") + "      choose font",
		s.HelpKey.Render("esc") + "    dismiss error",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.taskByID(v.viewTaskID)
	if !ok {
		return ""
	}

	s := v.styles
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)
	labelStyle := s.TitleMuted

	status := s.Checkbox.Render("[ ] Incomplete")
	if task.Done {
		status = s.CheckboxDone.Render("[x] Completed")
	}

	desc := styles.RenderMarkdown(task.Description, textWidth)
	if desc == "" {
		desc = s.TitleMuted.Render("No description")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.FontStyle(v.snap.Font).Inherit(s.Title).MarginBottom(1).Render(task.Title),
		labelStyle.Render("Status"),
		status,
		"",
		labelStyle.Render("Created"),
		styles.FormatDate(task.CreatedAt),
		"",
		labelStyle.Render("Description"),
		desc,
		"",
		v.renderStatus(),
		s.Help.Render(
			fmt.Sprintf("%s done • %s edit • %s delete • %s back",
				s.HelpKey.Render("space"),
				s.HelpKey.Render("e"),
				s.HelpKey.Render("d"),
				s.HelpKey.Render("esc"),
			),
		),
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}
