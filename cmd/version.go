package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Overridden by release builds: -ldflags "-X .../cmd.version=v1.2.3".
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the quizrunner version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "quizrunner %s\n", version)
		return err
	},
}
