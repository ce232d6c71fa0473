package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <dir>",
	Short: "Delete the saved progress of a question set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := filepath.Clean(args[0])
		out := cmd.OutOrStdout()

		if _, err := os.Stat(progress.Path(dir)); err != nil {
			fmt.Fprintf(out, "No saved progress in %s.\n", dir)
			return nil
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Fprintf(out, "Delete saved progress in %s? [y/N] ", dir)
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := progress.Reset(dir); err != nil {
			return err
		}
		fmt.Fprintf(out, "Progress for %s reset.\n", dir)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
