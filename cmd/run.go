package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/abhisek/quizrunner/internal/app"
	"github.com/abhisek/quizrunner/internal/config"
	"github.com/abhisek/quizrunner/internal/console"
	"github.com/abhisek/quizrunner/internal/explain"
	"github.com/abhisek/quizrunner/internal/llm"
	"github.com/abhisek/quizrunner/internal/opener"
	"github.com/abhisek/quizrunner/internal/questionset"
	"github.com/abhisek/quizrunner/internal/screen"
	"github.com/abhisek/quizrunner/internal/screens/history"
	"github.com/abhisek/quizrunner/internal/screens/menu"
	"github.com/abhisek/quizrunner/internal/screens/quiz"
	"github.com/abhisek/quizrunner/internal/session"
	"github.com/abhisek/quizrunner/internal/store"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <dir>",
	Short: "Start a question set directly, skipping the menu",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newQuizDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		dir := filepath.Clean(args[0])
		if d.tui {
			root, err := d.startScreen(dir)
			if err != nil {
				return fmt.Errorf("load %s: %w", dir, err)
			}
			return app.Run(root)
		}
		return d.playPlain(cmd.Context(), d.console(cmd), dir)
	},
}

// runMenu lists the sets under the base directory and runs the chosen one.
func runMenu(cmd *cobra.Command) error {
	d, err := newQuizDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	base := d.cfg.BaseDir
	entries, err := questionset.Discover(base)
	if err != nil {
		return fmt.Errorf("find question sets: %w", err)
	}

	if d.tui {
		m := menu.New(base, entries, func(e questionset.Entry) (screen.Screen, error) {
			return d.startScreen(e.Dir)
		})
		if d.journal != nil {
			m.WithHistory(func() screen.Screen { return history.New(d.journal) })
		}
		return app.Run(m)
	}

	p := d.console(cmd)
	entry, err := p.ChooseSet(entries)
	if errors.Is(err, session.ErrQuit) {
		return nil
	}
	if err != nil {
		return err
	}
	return d.playPlain(cmd.Context(), p, entry.Dir)
}

// quizDeps are the services shared by the commands that run a session.
type quizDeps struct {
	cfg    config.Config
	tui    bool
	errOut io.Writer

	st        *store.Store
	journal   store.EventRepo
	explainer *explain.Service
	images    opener.ImageOpener
}

func newQuizDeps(cmd *cobra.Command) (*quizDeps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	decision, err := resolveUIMode(cfg.UI, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	d := &quizDeps{
		cfg:    cfg,
		tui:    decision.useTUI,
		errOut: cmd.ErrOrStderr(),
		images: opener.Noop{},
	}
	if decision.warning != "" {
		warnf(d.errOut, "%s", decision.warning)
	}
	if cfg.ShouldOpenImages() {
		d.images = opener.New()
	}

	if cfg.HistoryEnabled() {
		if err := d.openJournal(cmd); err != nil {
			warnf(d.errOut, "history disabled: %v", err)
		}
	}

	if err := d.buildExplainer(cmd.Context()); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *quizDeps) openJournal(cmd *cobra.Command) error {
	dbPath, err := resolveDBPath(cmd, d.cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	d.st = st
	d.journal = st.EventRepo()
	return nil
}

// buildExplainer wires the LLM provider when a key is available. A missing
// key only disables explanations.
func (d *quizDeps) buildExplainer(ctx context.Context) error {
	name := d.cfg.Explain.Provider
	llmCfg, ok, err := llm.Resolve(name, d.cfg.Explain.Model)
	if err != nil {
		return err
	}
	if !ok {
		if name != llm.ProviderAuto && name != llm.ProviderOff {
			warnf(d.errOut, "no API key for %s; explanations disabled", name)
		}
		return nil
	}

	// Writes to stderr would corrupt the alternate screen.
	var warn func(error)
	if !d.tui {
		warn = func(err error) { warnf(d.errOut, "%v", err) }
	}

	provider, err := llm.NewProvider(ctx, llmCfg, d.journal, warn)
	if err != nil {
		return fmt.Errorf("explanations: %w", err)
	}
	d.explainer = explain.NewService(provider, explain.DefaultConfig())
	return nil
}

func (d *quizDeps) setOptions() questionset.Options {
	return questionset.Options{ImageExtensions: d.cfg.ImageExtensions}
}

func (d *quizDeps) sessionOptions() session.Options {
	opts := session.Options{
		IncludeSolved: d.cfg.IncludeSolved,
		Opener:        d.images,
	}
	if d.journal != nil {
		opts.Journal = d.journal
	}
	return opts
}

// load reads the set at dir. The journal keys sessions by absolute path.
func (d *quizDeps) load(dir string) (*session.Source, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return session.Load(abs, d.setOptions())
}

// startScreen loads dir and returns the quiz screen for a new session.
func (d *quizDeps) startScreen(dir string) (screen.Screen, error) {
	src, err := d.load(dir)
	if err != nil {
		return nil, err
	}
	s := src.NewSession(d.sessionOptions())
	return quiz.New(s, quiz.Options{
		Explainer: d.explainer,
		Warnings:  src.Warnings,
	}), nil
}

func (d *quizDeps) console(cmd *cobra.Command) *console.Presenter {
	return console.New(cmd.InOrStdin(), cmd.OutOrStdout(), console.Options{
		Explainer: d.explainer,
	})
}

// playPlain runs the set at dir on the line-oriented console.
func (d *quizDeps) playPlain(ctx context.Context, p *console.Presenter, dir string) error {
	src, err := d.load(dir)
	if err != nil {
		return fmt.Errorf("load %s: %w", dir, err)
	}
	p.Warnings(src.Warnings)

	s := src.NewSession(d.sessionOptions())
	p.SetTally(s.Summary)

	sum, err := session.Run(ctx, s, p)
	p.ShowSummary(sum)
	return err
}

func (d *quizDeps) Close() {
	if d.st != nil {
		d.st.Close()
	}
}
