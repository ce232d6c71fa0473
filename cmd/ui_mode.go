package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/abhisek/quizrunner/internal/config"
	"golang.org/x/term"
)

// isTerminal reports whether a reader or writer is a TTY.
var isTerminal = defaultIsTerminal

// uiModeDecision captures whether to run the full-screen interface.
type uiModeDecision struct {
	useTUI  bool
	warning string
}

// resolveUIMode picks the interface for mode. The TUI needs both ends of the
// session on a terminal; anything else falls back to the console.
func resolveUIMode(mode string, in io.Reader, out io.Writer) (uiModeDecision, error) {
	tty := isTerminal(in) && isTerminal(out)
	switch mode {
	case "", config.UIAuto:
		return uiModeDecision{useTUI: tty}, nil
	case config.UITUI:
		if tty {
			return uiModeDecision{useTUI: true}, nil
		}
		return uiModeDecision{
			warning: "terminal UI requested but stdin/stdout is not a TTY; using plain output",
		}, nil
	case config.UIPlain:
		return uiModeDecision{}, nil
	}
	return uiModeDecision{}, fmt.Errorf("invalid ui mode %q (expected auto|tui|plain)", mode)
}

func defaultIsTerminal(v any) bool {
	if v == nil {
		return false
	}
	if file, ok := v.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := v.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}
