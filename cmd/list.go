package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/abhisek/quizrunner/internal/questionset"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List question sets under the base directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		entries, err := questionset.Discover(cfg.BaseDir)
		if err != nil {
			return fmt.Errorf("find question sets: %w", err)
		}
		printSetList(cmd.OutOrStdout(), entries, questionset.Options{ImageExtensions: cfg.ImageExtensions})
		return nil
	},
}

// printSetList prints one line per set with its solved count.
func printSetList(w io.Writer, entries []questionset.Entry, opts questionset.Options) {
	fmt.Fprintf(w, "%-52s  %9s\n", "Set", "Solved")
	fmt.Fprintln(w, strings.Repeat("─", 63))

	for _, e := range entries {
		set, err := questionset.LoadWith(e.Dir, opts)
		if err != nil {
			fmt.Fprintf(w, "%-52s  %9s\n", truncate(e.Label(), 52), "?")
			continue
		}
		// A corrupt file still yields an empty store.
		st, _ := progress.Load(e.Dir)
		st.Adopt(set.IDs())

		solved := 0
		for _, q := range set.Questions {
			if st.Get(q.ID).Solved() {
				solved++
			}
		}
		fmt.Fprintf(w, "%-52s  %9s\n", truncate(e.Label(), 52),
			fmt.Sprintf("%d/%d", solved, len(set.Questions)))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
