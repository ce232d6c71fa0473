package cmd

import (
	"fmt"
	"io"

	"github.com/abhisek/quizrunner/internal/config"
	"github.com/abhisek/quizrunner/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quizrunner",
	Short: "Multiple-choice flash cards in the terminal",
	Long: "quizrunner: pick a question set and answer until every card is solved.\n" +
		"Progress is kept in progress.json next to the questions.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/quizrunner/config.yaml)")
	pf.String("base-dir", "", "Directory holding the question sets (default ./zestawy)")
	pf.String("db", "", "Path to history database (overrides QUIZRUNNER_DB env var)")
	pf.String("ui", "", "Interface: auto, tui or plain")
	pf.Bool("include-solved", false, "Also ask questions already answered correctly")
	pf.Bool("no-images", false, "Never open sidecar images")
	pf.Bool("no-history", false, "Do not record sessions in the history database")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies command-line overrides.
// Without --config the default file is optional.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	optional := path == ""
	if optional {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("base-dir"); v != "" {
		cfg.BaseDir = v
	}
	if v, _ := flags.GetString("ui"); v != "" {
		cfg.UI = v
	}
	if v, _ := flags.GetBool("include-solved"); v {
		cfg.IncludeSolved = true
	}
	if v, _ := flags.GetBool("no-images"); v {
		off := false
		cfg.OpenImages = &off
	}
	if v, _ := flags.GetBool("no-history"); v {
		off := false
		cfg.History.Enabled = &off
	}

	config.Normalize(&cfg)
	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then history.path from the config, then QUIZRUNNER_DB and the default XDG
// path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.History.Path != "" {
		return cfg.History.Path, store.EnsureDir(cfg.History.Path)
	}
	return store.DefaultDBPath()
}

// openStore opens the history database for the read-only commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "warning: "+format+"\n", args...)
}
