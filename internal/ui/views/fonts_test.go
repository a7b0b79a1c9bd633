package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/todo/internal/models"
)

func TestFontPickerSelectsCurrent(t *testing.T) {
	v := NewFontPickerView(models.FontSacramento)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	item, ok := v.list.SelectedItem().(fontItem)
	if !ok || item.font != models.FontSacramento {
		t.Fatalf("selected = %#v", v.list.SelectedItem())
	}

	out := v.View()
	for _, f := range models.Fonts {
		if !strings.Contains(out, f.Name()) {
			t.Errorf("picker missing %s", f.Name())
		}
	}
}

func TestFontPickerChoose(t *testing.T) {
	v := NewFontPickerView(models.FontInter)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg, ok := cmd().(FontSelected)
	if !ok || msg.Font != models.FontCaveat {
		t.Fatalf("msg = %#v", msg)
	}
}

func TestFontPickerCancel(t *testing.T) {
	v := NewFontPickerView(models.FontInter)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(FontPickerClosed); !ok {
		t.Fatal("esc should close the picker")
	}
}
