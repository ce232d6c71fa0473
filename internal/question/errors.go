package question

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned when the learner's input names no option.
var ErrEmptySelection = errors.New("no option selected")

// MalformedError reports a question file that does not follow the
// mask / prompt / options layout.
type MalformedError struct {
	Path   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed question file %s: %s", e.Path, e.Reason)
}

// SelectionError reports an option index outside the question's range.
type SelectionError struct {
	Index   int
	Options int
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("option %d out of range (1-%d)", e.Index, e.Options)
}
