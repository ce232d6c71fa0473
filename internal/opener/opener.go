// Package opener shows a question's sidecar image in the host image viewer.
package opener

import (
	"fmt"
	"os"
	"os/exec"
)

// ImageOpener displays an image file outside the terminal.
type ImageOpener interface {
	Open(path string) error
}

// Error reports a failed attempt to open an image. Callers warn and move on.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("open image %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Noop never opens anything. Used when images are disabled or in tests.
type Noop struct{}

// Open implements ImageOpener.
func (Noop) Open(string) error { return nil }

// Func adapts a function to ImageOpener.
type Func func(path string) error

// Open implements ImageOpener.
func (f Func) Open(path string) error { return f(path) }

// commandOpener launches an external viewer and does not wait for it.
type commandOpener struct {
	name  string
	args  []string
	start func(cmd *exec.Cmd) error
}

func newCommandOpener(name string, args ...string) *commandOpener {
	return &commandOpener{name: name, args: args, start: startDetached}
}

func (o *commandOpener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &Error{Path: path, Err: err}
	}
	args := append(append([]string{}, o.args...), path)
	cmd := exec.Command(o.name, args...)
	if err := o.start(cmd); err != nil {
		return &Error{Path: path, Err: fmt.Errorf("%s: %w", o.name, err)}
	}
	return nil
}

// startDetached starts cmd and reaps it in the background.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}
