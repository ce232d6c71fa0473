package progress

import "fmt"

// CorruptFileError reports a progress file that exists but cannot be used.
// Load returns an empty store alongside it.
type CorruptFileError struct {
	Path string
	Err  error
}

func (e *CorruptFileError) Error() string {
	return fmt.Sprintf("corrupt progress file %s: %v", e.Path, e.Err)
}

func (e *CorruptFileError) Unwrap() error {
	return e.Err
}

// SaveError reports a failed write of the progress file. The in-memory
// store is unaffected.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save progress %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
