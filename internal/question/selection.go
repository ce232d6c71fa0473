package question

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseSelection turns typed input like "1 3", "1,3" or "13" into sorted,
// de-duplicated 1-based option indices. Runs of digits are split into single
// digits when the question has fewer than ten options.
func ParseSelection(input string, options int) ([]int, error) {
	tokens := strings.FieldsFunc(input, func(r rune) bool {
		return !unicode.IsDigit(r)
	})

	var picked []int
	for _, tok := range tokens {
		if options < 10 {
			for _, r := range tok {
				picked = append(picked, int(r-'0'))
			}
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &SelectionError{Index: -1, Options: options}
		}
		picked = append(picked, n)
	}
	if len(picked) == 0 {
		return nil, ErrEmptySelection
	}
	for _, idx := range picked {
		if idx < 1 || idx > options {
			return nil, &SelectionError{Index: idx, Options: options}
		}
	}
	return sortedUnique(picked), nil
}

// ReadSelection parses input for q. Empty input is the answer "none" when
// q has no correct option and ErrEmptySelection otherwise.
func (q *Question) ReadSelection(input string) ([]int, error) {
	sel, err := ParseSelection(input, len(q.Options))
	if errors.Is(err, ErrEmptySelection) && len(q.CorrectSet()) == 0 {
		return []int{}, nil
	}
	return sel, err
}

// FormatSelection renders indices the way the learner would type them.
func FormatSelection(selection []int) string {
	if len(selection) == 0 {
		return "none"
	}
	parts := make([]string, len(selection))
	for i, idx := range selection {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}

// SelectionHint turns a ParseSelection error into a prompt for the learner.
func SelectionHint(err error, options int) string {
	var selErr *SelectionError
	switch {
	case errors.Is(err, ErrEmptySelection):
		return "Type the numbers of all correct options, e.g. 1,3."
	case errors.As(err, &selErr) && selErr.Index > 0:
		return fmt.Sprintf("There is no option %d; choose from 1-%d.", selErr.Index, options)
	}
	return fmt.Sprintf("Choose options from 1-%d.", options)
}
