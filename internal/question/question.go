// Package question parses flash-card files and grades selections against them.
package question

import "sort"

// Question is a single multiple-choice card loaded from a .txt file.
type Question struct {
	// ID is the file path relative to the set root, slash-separated.
	ID string

	// Path is the file location on disk.
	Path string

	// Mask marks the correct options, one entry per option.
	Mask []bool

	// Text is the prompt shown to the learner.
	Text string

	// Options are the answer strings in file order.
	Options []string

	// ImagePath is the sidecar image, empty if none exists.
	ImagePath string
}

// CorrectSet returns the 1-based indices of the correct options.
func (q *Question) CorrectSet() []int {
	var out []int
	for i, ok := range q.Mask {
		if ok {
			out = append(out, i+1)
		}
	}
	return out
}

// Grade reports whether selection names exactly the correct options.
// Duplicates in selection are ignored; order does not matter.
func (q *Question) Grade(selection []int) bool {
	chosen := make(map[int]bool, len(selection))
	for _, idx := range selection {
		if idx < 1 || idx > len(q.Mask) {
			return false
		}
		chosen[idx] = true
	}
	correct := q.CorrectSet()
	if len(chosen) != len(correct) {
		return false
	}
	for _, idx := range correct {
		if !chosen[idx] {
			return false
		}
	}
	return true
}

// HasImage reports whether a sidecar image was found for the question.
func (q *Question) HasImage() bool {
	return q.ImagePath != ""
}

func sortedUnique(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
