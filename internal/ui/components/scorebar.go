package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrunner/internal/ui/theme"
)

// ScoreBar splits a set's questions into solved, failed and untried
// segments, followed by the solved percentage.
type ScoreBar struct {
	Label     string
	Correct   int
	Incorrect int
	Total     int
	Width     int
}

// segments returns the cell counts for the solved, failed and untried parts.
// Counts are clamped so the three always fill width exactly.
func (b ScoreBar) segments(width int) (solved, failed, untried int) {
	if b.Total <= 0 {
		return 0, 0, width
	}
	solved = clamp(width*b.Correct/b.Total, 0, width)
	failed = clamp(width*b.Incorrect/b.Total, 0, width-solved)
	return solved, failed, width - solved - failed
}

func (b ScoreBar) Percent() int {
	if b.Total <= 0 {
		return 0
	}
	return b.Correct * 100 / b.Total
}

func (b ScoreBar) View() string {
	var out string
	if b.Label != "" {
		out = lipgloss.NewStyle().Foreground(theme.Text).Render(b.Label) + "  "
	}

	pct := fmt.Sprintf("  %d%%", b.Percent())
	barWidth := max(b.Width-lipgloss.Width(out)-len(pct), 4)

	solved, failed, untried := b.segments(barWidth)
	out += lipgloss.NewStyle().Background(theme.Success).Render(strings.Repeat(" ", solved))
	out += lipgloss.NewStyle().Background(theme.Error).Render(strings.Repeat(" ", failed))
	out += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", untried))
	out += lipgloss.NewStyle().Foreground(theme.TextDim).Render(pct)
	return out
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
