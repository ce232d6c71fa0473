//go:build windows

package opener

import (
	"os"

	"golang.org/x/sys/windows"
)

type shellOpener struct{}

// New returns the opener for Windows, which hands the file to the shell's
// default handler.
func New() ImageOpener {
	return shellOpener{}
}

func (shellOpener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &Error{Path: path, Err: err}
	}
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return &Error{Path: path, Err: err}
	}
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return &Error{Path: path, Err: err}
	}
	if err := windows.ShellExecute(0, verb, file, nil, nil, windows.SW_SHOWNORMAL); err != nil {
		return &Error{Path: path, Err: err}
	}
	return nil
}
