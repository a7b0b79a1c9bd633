package styles

import (
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"

	"github.com/tgienger/todo/internal/models"
)

func TestDetectProfile(t *testing.T) {
	tests := []struct {
		name      string
		noColor   string
		term      string
		colorterm string
		detected  termenv.Profile
		want      termenv.Profile
	}{
		{"no color wins", "1", "xterm-256color", "truecolor", termenv.TrueColor, termenv.Ascii},
		{"truecolor upgrade", "", "xterm", "truecolor", termenv.ANSI256, termenv.TrueColor},
		{"truecolor keeps ascii", "", "dumb", "truecolor", termenv.Ascii, termenv.Ascii},
		{"256color upgrade", "", "xterm-256color", "", termenv.ANSI, termenv.ANSI256},
		{"detected unchanged", "", "xterm", "", termenv.ANSI, termenv.ANSI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("TERM", tt.term)
			t.Setenv("COLORTERM", tt.colorterm)
			if got := detectProfile(tt.detected); got != tt.want {
				t.Errorf("detectProfile(%v) = %v, want %v", tt.detected, got, tt.want)
			}
		})
	}
}

func TestFontStyleDistinct(t *testing.T) {
	seen := map[string]models.Font{}
	for _, f := range models.Fonts {
		s := FontStyle(f)
		sig := strings.Join([]string{
			boolSig(s.GetBold()),
			boolSig(s.GetItalic()),
			boolSig(s.GetUnderline()),
			boolSig(s.GetFaint()),
		}, "")
		if prev, ok := seen[sig]; ok {
			t.Errorf("fonts %s and %s share treatment %s", prev, f, sig)
		}
		seen[sig] = f
	}
}

func boolSig(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "" {
		t.Errorf("FormatDate(zero) = %q", got)
	}
	ts := time.Date(2024, 3, 5, 15, 4, 0, 0, time.Local)
	if got := FormatDate(ts); got != "Mar 5, 3:04 PM" {
		t.Errorf("FormatDate = %q", got)
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdown("   ", 40); got != "" {
		t.Errorf("RenderMarkdown(blank) = %q", got)
	}
	if got := RenderMarkdown("hello **world**", 40); !strings.Contains(got, "world") {
		t.Errorf("RenderMarkdown lost text: %q", got)
	}
}
