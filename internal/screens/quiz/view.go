package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrunner/internal/question"
	"github.com/abhisek/quizrunner/internal/ui/theme"
)

func (q *QuizScreen) View(width, height int) string {
	if q.confirmQuit {
		return renderQuitConfirm(width, height)
	}
	if q.current == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading...")
	}

	var b strings.Builder
	b.WriteString(q.renderInfoLine(width))
	b.WriteString("\n\n")

	textWidth := min(width-8, 90)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Bold(true).Render(q.current.Text)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, q.renderOptions(textWidth)))
	b.WriteString("\n")

	if q.outcome != nil {
		b.WriteString(q.renderFeedback(width, textWidth))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + q.input.View()))
		if q.inputErr != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.Error).
				Render(q.inputErr))
		}
	}

	if status := q.renderStatusLine(width); status != "" {
		body := b.String()
		gap := height - lipgloss.Height(body) - 1
		if gap < 1 {
			gap = 1
		}
		return body + strings.Repeat("\n", gap) + status
	}
	return b.String()
}

func (q *QuizScreen) renderInfoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + q.current.ID)

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d  ·  %d/%d in pool", q.turn.Number, q.turn.Remaining, q.turn.Total))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line + "\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
}

// renderOptions numbers the options. After an answer, correct options are
// marked ✓ and wrongly chosen ones ✗.
func (q *QuizScreen) renderOptions(width int) string {
	chosen := make(map[int]bool)
	if q.outcome != nil {
		for _, idx := range q.outcome.Selection {
			chosen[idx] = true
		}
	}

	var b strings.Builder
	for i, opt := range q.current.Options {
		n := i + 1
		mark := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if q.outcome != nil {
			switch {
			case q.current.Mask[i]:
				mark = "✓ "
				style = theme.Correct
			case chosen[n]:
				mark = "✗ "
				style = theme.Incorrect
			default:
				style = lipgloss.NewStyle().Foreground(theme.TextDim)
			}
		}
		b.WriteString(style.Width(width).Render(fmt.Sprintf("%s%d. %s", mark, n, opt)))
		b.WriteString("\n")
	}
	return b.String()
}

func (q *QuizScreen) renderFeedback(width, textWidth int) string {
	out := q.outcome
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	if out.Correct {
		b.WriteString(center.Foreground(theme.Success).Bold(true).Render("Correct!"))
	} else {
		b.WriteString(center.Foreground(theme.Error).Bold(true).Render("Not quite"))
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Render(fmt.Sprintf("Correct answer: %s  ·  you chose %s",
			question.FormatSelection(out.Question.CorrectSet()), question.FormatSelection(out.Selection))))
	}
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(
		fmt.Sprintf("This question: %d/%d correct", out.Record.Correct, out.Record.Attempts)))
	b.WriteString("\n\n")

	switch {
	case q.explaining:
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render("Asking for an explanation..."))
		b.WriteString("\n")
	case q.explanation != nil:
		exp := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(q.explanation.Text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n")
		if q.explanation.KeyPoint != "" {
			kp := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Accent).Render("Remember: " + q.explanation.KeyPoint)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, kp))
			b.WriteString("\n")
		}
	case q.explainErr != "":
		b.WriteString(center.Foreground(theme.Error).Render("Explanation unavailable: " + q.explainErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Press Enter to continue"))
	return b.String()
}

// renderStatusLine shows the latest warning, with a count when there are
// more.
func (q *QuizScreen) renderStatusLine(width int) string {
	n := len(q.warnings)
	if n == 0 {
		return ""
	}
	text := "warning: " + q.warnings[n-1]
	if n > 1 {
		text = fmt.Sprintf("%s (+%d more)", text, n-1)
	}
	return theme.Warning.Width(width).MaxHeight(1).Render("  " + text)
}

func renderQuitConfirm(width, height int) string {
	box := theme.Card.Render(
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("End this session?") + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Progress is saved after every answer.") + "\n\n" +
			theme.Hint.Render("Y to end  ·  N to keep going"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
