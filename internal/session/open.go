package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/abhisek/quizrunner/internal/questionset"
)

// Source is a loaded question set together with its progress.
type Source struct {
	Set   *questionset.Set
	Store *progress.Store

	// Warnings are non-fatal load problems: malformed question files and a
	// corrupt progress file (already moved aside).
	Warnings []error
}

// Load reads the set at dir and its progress file. A corrupt progress file
// is backed up and replaced by an empty store, and reported as a warning.
func Load(dir string, opts questionset.Options) (*Source, error) {
	set, err := questionset.LoadWith(dir, opts)
	if err != nil {
		return nil, err
	}

	src := &Source{Set: set, Warnings: append([]error(nil), set.Errors...)}

	st, err := progress.Load(dir)
	var corrupt *progress.CorruptFileError
	switch {
	case errors.As(err, &corrupt):
		src.Warnings = append(src.Warnings, err)
		if _, bErr := progress.Backup(dir); bErr != nil {
			src.Warnings = append(src.Warnings, bErr)
		}
	case err != nil:
		return nil, fmt.Errorf("load progress: %w", err)
	}

	st.Adopt(set.IDs())
	src.Store = st
	return src, nil
}

// NewSession starts a session over the loaded source.
func (src *Source) NewSession(opts Options) *Session {
	return New(src.Set, src.Store, opts)
}
