package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/todo/internal/models"
)

// FontStyle maps a font choice to the text treatment used for task titles.
// Terminals have a single typeface, so each font is a fixed mix of attributes.
func FontStyle(f models.Font) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch f {
	case models.FontCaveat:
		return s.Italic(true)
	case models.FontIndie:
		return s.Italic(true).Faint(true)
	case models.FontShadows:
		return s.Faint(true)
	case models.FontDancing:
		return s.Italic(true).Bold(true)
	case models.FontSacramento:
		return s.Italic(true).Underline(true)
	case models.FontReenie:
		return s.Underline(true)
	case models.FontPacifico:
		return s.Bold(true)
	default:
		return s
	}
}
