package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/abhisek/quizrunner/internal/questionset"
	"github.com/abhisek/quizrunner/internal/session"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <dir>",
	Short: "Show per-question progress for a question set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dir := filepath.Clean(args[0])
		set, err := questionset.LoadWith(dir, questionset.Options{ImageExtensions: cfg.ImageExtensions})
		if err != nil {
			return fmt.Errorf("load %s: %w", dir, err)
		}
		for _, e := range set.Errors {
			warnf(cmd.ErrOrStderr(), "%v", e)
		}

		st, err := progress.Load(dir)
		var corrupt *progress.CorruptFileError
		if errors.As(err, &corrupt) {
			warnf(cmd.ErrOrStderr(), "%v", err)
		} else if err != nil {
			return err
		}
		st.Adopt(set.IDs())

		printStats(cmd.OutOrStdout(), set, st)
		return nil
	},
}

// printStats prints each question's record followed by the set summary.
// It does not modify the progress file.
func printStats(w io.Writer, set *questionset.Set, st *progress.Store) {
	fmt.Fprintf(w, "%-44s  %8s  %7s  %s\n", "Question", "Attempts", "Correct", "Status")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	for _, q := range set.Questions {
		r := st.Get(q.ID)
		status := "new"
		switch {
		case r.Solved():
			status = "✓ solved"
		case r.Failed():
			status = "✗ to review"
		}
		fmt.Fprintf(w, "%-44s  %8d  %7d  %s\n", truncate(q.ID, 44), r.Attempts, r.Correct, status)
	}

	sum := session.New(set, st, session.Options{}).Summary()
	notTried := sum.Total - sum.UniqueCorrect - sum.UniqueIncorrect

	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "Correct:       %d/%d\n", sum.UniqueCorrect, sum.Total)
	fmt.Fprintf(w, "Incorrect:     %d/%d\n", sum.UniqueIncorrect, sum.Total)
	fmt.Fprintf(w, "Not attempted: %d/%d\n", notTried, sum.Total)
	fmt.Fprintf(w, "Success rate:  %.0f%%\n", sum.Ratio*100)
}
