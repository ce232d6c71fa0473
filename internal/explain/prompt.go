package explain

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizrunner/internal/question"
)

const systemPrompt = `You are a concise study assistant. A learner just answered a multiple-choice flash card. Explain the correct answer briefly and plainly. Do not repeat the question.`

func buildUserMessage(q question.Question, selection []int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", q.Text)
	for i, opt := range q.Options {
		mark := " "
		if q.Mask[i] {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %d. %s\n", mark, i+1, opt)
	}
	b.WriteString("\nOptions marked * are correct.\n")

	if len(selection) > 0 {
		fmt.Fprintf(&b, "The learner chose: %s", question.FormatSelection(selection))
		if q.Grade(selection) {
			b.WriteString(" (correct)\n")
		} else {
			b.WriteString(" (incorrect)\n")
		}
	}

	return b.String()
}
