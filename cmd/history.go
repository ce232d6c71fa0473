package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/abhisek/quizrunner/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past quiz sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		setDir, _ := cmd.Flags().GetString("set")
		sessionID, _ := cmd.Flags().GetString("session")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, SessionID: sessionID}
		if setDir != "" {
			abs, err := filepath.Abs(setDir)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", setDir, err)
			}
			opts.SetDir = abs
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if sessionID != "" {
			answers, err := s.EventRepo().QueryAnswers(ctx, opts)
			if err != nil {
				return fmt.Errorf("query answers: %w", err)
			}
			printAnswers(out, answers)
			return nil
		}

		sessions, err := s.EventRepo().QuerySessionSummaries(ctx, opts)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		printSessions(out, sessions)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of rows")
	historyCmd.Flags().String("set", "", "Only sessions of this question set directory")
	historyCmd.Flags().String("session", "", "Show the answers given in one session")
}

func printSessions(w io.Writer, sessions []store.SessionSummaryRecord) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-36s  %-24s  %6s  %7s  %8s\n",
		"Finished", "Session", "Set", "Asked", "Correct", "Time")
	fmt.Fprintln(w, strings.Repeat("─", 110))
	for _, s := range sessions {
		fmt.Fprintf(w, "%-19s  %-36s  %-24s  %6d  %7d  %8s\n",
			s.Timestamp.Local().Format("2006-01-02 15:04:05"),
			s.SessionID,
			truncate(filepath.Base(s.SetDir), 24),
			s.QuestionsServed,
			s.CorrectAnswers,
			(time.Duration(s.DurationSecs) * time.Second).String(),
		)
	}
}

func printAnswers(w io.Writer, answers []store.AnswerRecord) {
	if len(answers) == 0 {
		fmt.Fprintln(w, "No answers recorded for this session.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-40s  %-10s  %8s  %s\n", "Time", "Question", "Chosen", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 90))
	for _, a := range answers {
		ok := "✓"
		if !a.Correct {
			ok = "✗"
		}
		fmt.Fprintf(w, "%-19s  %-40s  %-10s  %8d  %s\n",
			a.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(a.QuestionID, 40),
			a.Selection,
			a.TimeMs,
			ok,
		)
	}
}
