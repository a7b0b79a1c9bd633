package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
)

type fontItem struct {
	font models.Font
}

func (i fontItem) Title() string       { return i.font.Name() }
func (i fontItem) Description() string { return string(i.font) }
func (i fontItem) FilterValue() string { return i.font.Name() }

type fontDelegate struct {
	styles  *styles.Styles
	width   int
	current models.Font
}

func (d *fontDelegate) Height() int                               { return 1 }
func (d *fontDelegate) Spacing() int                              { return 0 }
func (d *fontDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d *fontDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	f, ok := item.(fontItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	lineStyle := d.styles.ListItem
	if index == m.Index() {
		lineStyle = d.styles.ListSelected
	}

	marker := "  "
	if f.font == d.current {
		marker = "● "
	}
	sample := styles.FontStyle(f.font).Render(f.Title())

	fmt.Fprint(w, lineStyle.Width(width).Render(marker+sample))
}

// FontSelected is emitted when the user picks a font
type FontSelected struct {
	Font models.Font
}

// FontPickerClosed is emitted when the picker is dismissed without a choice
type FontPickerClosed struct{}

// FontPickerView lists the available fonts
type FontPickerView struct {
	list     list.Model
	delegate *fontDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
}

// NewFontPickerView creates the picker with current preselected
func NewFontPickerView(current models.Font) *FontPickerView {
	s := styles.NewStyles()
	delegate := &fontDelegate{styles: s, width: 80, current: current}

	items := make([]list.Item, len(models.Fonts))
	for i, f := range models.Fonts {
		items[i] = fontItem{font: f}
	}

	l := list.New(items, delegate, 0, 0)
	l.Title = "Font"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = s.Title

	v := &FontPickerView{
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
	}
	v.SetCurrent(current)
	return v
}

// SetCurrent marks and selects the active font
func (v *FontPickerView) SetCurrent(f models.Font) {
	v.delegate.current = f
	for i, candidate := range models.Fonts {
		if candidate == f {
			v.list.Select(i)
			return
		}
	}
}

func (v *FontPickerView) Init() tea.Cmd {
	return nil
}

func (v *FontPickerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, max(msg.Height-6, len(models.Fonts)+2))
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Back), msg.String() == "q":
			return v, func() tea.Msg { return FontPickerClosed{} }
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(fontItem); ok {
				return v, func() tea.Msg { return FontSelected{Font: item.font} }
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *FontPickerView) View() string {
	help := v.styles.Help.Render(
		fmt.Sprintf("%s select • %s move • %s cancel",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("↑↓"),
			v.styles.HelpKey.Render("esc"),
		),
	)
	content := lipgloss.JoinVertical(lipgloss.Left, v.list.View(), help)
	return styles.CenterView(content, v.width, v.height)
}
