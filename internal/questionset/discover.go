package questionset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abhisek/quizrunner/internal/progress"
)

// ContinueLabel marks sets that already have saved progress.
const ContinueLabel = "[CONTINUE LEARNING] "

// Entry is one discovered question-set directory.
type Entry struct {
	Dir         string
	Rel         string
	HasProgress bool
}

// Label is the text shown for the entry in the set menu.
func (e Entry) Label() string {
	if e.HasProgress {
		return ContinueLabel + e.Rel
	}
	return e.Rel
}

// Discover lists every directory under base that directly contains a .txt
// file. Nested sets are listed on their own. Sets with progress come first,
// then by relative path, case-insensitively.
func Discover(base string) ([]Entry, error) {
	if err := checkDir(base); err != nil {
		return nil, err
	}

	var entries []Entry
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != base {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != base && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if !hasQuestionFiles(path) {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Dir:         path,
			Rel:         filepath.ToSlash(rel),
			HasProgress: progress.Valid(path),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", base, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoQuestionSets, base)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].HasProgress != entries[j].HasProgress {
			return entries[i].HasProgress
		}
		return strings.ToLower(entries[i].Rel) < strings.ToLower(entries[j].Rel)
	})
	return entries, nil
}

func hasQuestionFiles(dir string) bool {
	des, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, d := range des {
		if isQuestionFile(d) {
			return true
		}
	}
	return false
}
