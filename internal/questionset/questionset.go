// Package questionset finds question-set directories and loads their cards.
package questionset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/abhisek/quizrunner/internal/question"
)

// ErrNoQuestionSets is returned by Discover when no directory under the base
// holds a question file.
var ErrNoQuestionSets = errors.New("no question sets found")

// Set is the parsed content of one question-set directory.
type Set struct {
	Dir       string
	Questions []*question.Question

	// Errors holds per-file failures; those files are left out of Questions.
	Errors []error

	// HasProgress is true when the directory has a usable progress file.
	HasProgress bool
}

// IDs returns the question IDs in load order.
func (s *Set) IDs() []string {
	ids := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	return ids
}

// Options tune how a set is loaded.
type Options struct {
	// ImageExtensions are probed for sidecar images. Defaults to
	// question.DefaultImageExtensions.
	ImageExtensions []string
}

// Load reads every .txt file under dir, recursively, using default options.
func Load(dir string) (*Set, error) {
	return LoadWith(dir, Options{})
}

// LoadWith reads every .txt file under dir. Malformed files are collected in
// Set.Errors and do not stop the rest from loading.
func LoadWith(dir string, opts Options) (*Set, error) {
	if err := checkDir(dir); err != nil {
		return nil, err
	}

	set := &Set{Dir: dir, HasProgress: progress.Valid(dir)}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			set.Errors = append(set.Errors, fmt.Errorf("walk %s: %w", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isQuestionFile(d) {
			return nil
		}

		q, err := question.ParseFile(dir, path)
		if err != nil {
			set.Errors = append(set.Errors, err)
			return nil
		}
		q.ImagePath = question.FindImage(path, opts.ImageExtensions)
		set.Questions = append(set.Questions, q)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	sort.Slice(set.Questions, func(i, j int) bool {
		return set.Questions[i].ID < set.Questions[j].ID
	})
	return set, nil
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("question set %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("question set %s: not a directory", dir)
	}
	return nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isQuestionFile(d fs.DirEntry) bool {
	if isHidden(d.Name()) || !d.Type().IsRegular() {
		return false
	}
	return strings.EqualFold(filepath.Ext(d.Name()), ".txt")
}
