// Package console is the line-oriented presenter used when stdin or stdout
// is not a terminal, or when --plain is given.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/quizrunner/internal/explain"
	"github.com/abhisek/quizrunner/internal/question"
	"github.com/abhisek/quizrunner/internal/questionset"
	"github.com/abhisek/quizrunner/internal/session"
)

// Width is the frame width in columns.
const Width = 80

// Options configure a Presenter.
type Options struct {
	// Explainer adds an explanation after wrong answers. Nil disables it.
	Explainer *explain.Service

	// Tally supplies the cumulative counts shown in each header. Nil hides
	// the stats line.
	Tally func() session.Summary
}

// Presenter implements session.Presenter over a reader and writer.
type Presenter struct {
	in   *bufio.Scanner
	out  io.Writer
	opts Options

	turn session.Turn
}

var _ session.Presenter = (*Presenter)(nil)

// New creates a Presenter reading answers from in and writing to out.
func New(in io.Reader, out io.Writer, opts Options) *Presenter {
	return &Presenter{in: bufio.NewScanner(in), out: out, opts: opts}
}

// SetTally replaces the stats source, e.g. once the session exists.
func (p *Presenter) SetTally(f func() session.Summary) {
	p.opts.Tally = f
}

// readLine returns the next trimmed input line. EOF means quit.
func (p *Presenter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", session.ErrQuit
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func isQuit(s string) bool {
	s = strings.ToLower(s)
	return s == "q" || s == "quit"
}

func (p *Presenter) border() {
	fmt.Fprintln(p.out, strings.Repeat("#", Width))
}

// wrapped prints text wrapped to Width with prefix on the first line and a
// hanging indent after it.
func (p *Presenter) wrapped(prefix, text string) {
	limit := Width - len(prefix)
	lines := strings.Split(ansi.Wordwrap(text, limit, ""), "\n")
	indent := strings.Repeat(" ", len(prefix))
	for i, line := range lines {
		if i == 0 {
			fmt.Fprintln(p.out, prefix+line)
			continue
		}
		fmt.Fprintln(p.out, indent+line)
	}
}

func (p *Presenter) header(q *question.Question, turn session.Turn, suffix string) {
	p.border()
	fmt.Fprintf(p.out, " Question %d of %d: %s%s\n", turn.Number, turn.Total, path.Base(q.ID), suffix)
	if p.opts.Tally != nil {
		sum := p.opts.Tally()
		fmt.Fprintf(p.out, " ✅ %d - ❌ %d  (%d left)\n", sum.UniqueCorrect, sum.UniqueIncorrect, turn.Remaining)
	}
	p.border()
	fmt.Fprintln(p.out)
}

// ChooseSet prints a numbered menu of entries and returns the chosen one.
// An empty line picks the first entry; q quits with session.ErrQuit.
func (p *Presenter) ChooseSet(entries []questionset.Entry) (questionset.Entry, error) {
	if len(entries) == 0 {
		return questionset.Entry{}, questionset.ErrNoQuestionSets
	}

	fmt.Fprintln(p.out, "Question sets:")
	for i, e := range entries {
		fmt.Fprintf(p.out, "%3d. %s\n", i+1, e.Label())
	}

	for {
		fmt.Fprintf(p.out, "Choose a set [1-%d, q to quit]: ", len(entries))
		line, err := p.readLine()
		if err != nil {
			return questionset.Entry{}, err
		}
		if isQuit(line) {
			return questionset.Entry{}, session.ErrQuit
		}
		if line == "" {
			return entries[0], nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(entries) {
			fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(entries))
			continue
		}
		return entries[n-1], nil
	}
}

// Present shows q and reads a selection, asking again until it parses.
func (p *Presenter) Present(ctx context.Context, q *question.Question, turn session.Turn) ([]int, error) {
	p.turn = turn
	p.header(q, turn, "")
	p.wrapped("Q: ", q.Text)
	fmt.Fprintln(p.out)
	for i, opt := range q.Options {
		p.wrapped(fmt.Sprintf("%d. ", i+1), opt)
	}
	if q.HasImage() {
		fmt.Fprintf(p.out, "\n(image: %s)\n", q.ImagePath)
	}
	fmt.Fprintln(p.out)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Fprint(p.out, "Enter your answer (q to quit): ")
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if isQuit(line) {
			return nil, session.ErrQuit
		}
		sel, err := q.ReadSelection(line)
		if err != nil {
			fmt.Fprintln(p.out, question.SelectionHint(err, len(q.Options)))
			continue
		}
		return sel, nil
	}
}

// ShowResult marks every option, names the correct ones and waits for Enter.
func (p *Presenter) ShowResult(ctx context.Context, out session.Outcome) error {
	q := out.Question
	symbol := " ❌"
	if out.Correct {
		symbol = " ✅"
	}
	turn := p.turn
	turn.Remaining = out.Remaining
	p.header(q, turn, symbol)
	p.wrapped("Q: ", q.Text)
	fmt.Fprintln(p.out)
	for i, opt := range q.Options {
		mark := "❌ "
		if q.Mask[i] {
			mark = "✅ "
		}
		p.wrapped(fmt.Sprintf("%s%d. ", mark, i+1), opt)
	}
	fmt.Fprintln(p.out)

	p.border()
	result := "Wrong answer"
	if out.Correct {
		result = "Correct answer"
	}
	fmt.Fprintf(p.out, " %s: %s (you chose %s)\n", result,
		question.FormatSelection(q.CorrectSet()), question.FormatSelection(out.Selection))
	fmt.Fprintf(p.out, " This question: %d/%d correct\n", out.Record.Correct, out.Record.Attempts)
	p.border()

	if !out.Correct && p.opts.Explainer.Enabled() {
		p.explain(ctx, q, out.Selection)
	}

	fmt.Fprint(p.out, "\nPress Enter to continue (q to quit) ")
	line, err := p.readLine()
	if err != nil {
		return err
	}
	if isQuit(line) {
		return session.ErrQuit
	}
	return nil
}

func (p *Presenter) explain(ctx context.Context, q *question.Question, selection []int) {
	fmt.Fprintln(p.out, "\nExplaining...")
	e, err := p.opts.Explainer.Explain(ctx, *q, selection)
	if err != nil {
		p.Warn(err)
		return
	}
	p.wrapped("Why: ", e.Text)
	if e.KeyPoint != "" {
		p.wrapped("Remember: ", e.KeyPoint)
	}
}

// Warn prints a non-fatal problem inline.
func (p *Presenter) Warn(err error) {
	fmt.Fprintf(p.out, "warning: %v\n", err)
}

// Warnings prints each load warning.
func (p *Presenter) Warnings(errs []error) {
	for _, err := range errs {
		p.Warn(err)
	}
}

// ShowSummary prints the end-of-session summary.
func (p *Presenter) ShowSummary(sum session.Summary) {
	fmt.Fprintln(p.out)
	p.border()
	fmt.Fprintln(p.out, " QUIZ SUMMARY")
	p.border()
	fmt.Fprintf(p.out, " ✅ Correct:   %d/%d\n", sum.UniqueCorrect, sum.Total)
	fmt.Fprintf(p.out, " ❌ Incorrect: %d/%d\n", sum.UniqueIncorrect, sum.Total)
	fmt.Fprintf(p.out, " Success rate: %.0f%%\n", sum.Ratio*100)
	if sum.Asked > 0 {
		fmt.Fprintf(p.out, " This session: %d/%d correct in %s\n", sum.Correct, sum.Asked, sum.Duration.Round(time.Second))
	}
	if sum.Quit && sum.Remaining > 0 {
		fmt.Fprintf(p.out, " %d question(s) left for next time\n", sum.Remaining)
	}
	p.border()
}
