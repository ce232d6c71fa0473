package summary

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrunner/internal/router"
	"github.com/abhisek/quizrunner/internal/screen"
	"github.com/abhisek/quizrunner/internal/session"
	"github.com/abhisek/quizrunner/internal/ui/components"
	"github.com/abhisek/quizrunner/internal/ui/layout"
	"github.com/abhisek/quizrunner/internal/ui/theme"
)

// SummaryScreen displays the end-of-session summary.
type SummaryScreen struct {
	summary  session.Summary
	warnings []string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. warnings are the problems reported while
// the session ran.
func New(sum session.Summary, warnings []string) *SummaryScreen {
	return &SummaryScreen{summary: sum, warnings: warnings}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder

	title := "Set complete!"
	if sum.Quit {
		title = "Session ended"
	}
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(filepath.Base(sum.SetDir)))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.Success).Render(fmt.Sprintf("Correct:   %d/%d", sum.UniqueCorrect, sum.Total)))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Error).Render(fmt.Sprintf("Incorrect: %d/%d", sum.UniqueIncorrect, sum.Total)))
	b.WriteString("\n\n")

	bar := components.ScoreBar{
		Label:     "Success rate",
		Correct:   sum.UniqueCorrect,
		Incorrect: sum.UniqueIncorrect,
		Total:     sum.Total,
		Width:     min(width-8, 60),
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center.Foreground(theme.Text).Render(fmt.Sprintf(
		"This session: %d answered  ·  %d correct  ·  %.0f%%  ·  %d:%02d",
		sum.Asked, sum.Correct, sum.Accuracy()*100, mins, secs)))
	b.WriteString("\n")
	if sum.Remaining > 0 {
		b.WriteString(center.Foreground(theme.TextDim).Render(
			fmt.Sprintf("%d question(s) left for next time", sum.Remaining)))
		b.WriteString("\n")
	}

	if len(s.warnings) > 0 {
		b.WriteString("\n")
		for _, w := range s.warnings {
			b.WriteString(theme.Warning.Width(width).Render("  warning: " + w))
			b.WriteString("\n")
		}
	}

	return b.String()
}
