package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/abhisek/quizrunner/internal/questionset"
)

// firstChooser always picks the first candidate.
type firstChooser struct{}

func (firstChooser) IntN(int) int { return 0 }

// writeSet writes one question file per id/mask pair and loads the set.
func writeSet(t *testing.T, dir string, masks map[string]string) *questionset.Set {
	t.Helper()
	for id, mask := range masks {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\nQuestion %s?\n", mask, id)
		for i := range mask {
			fmt.Fprintf(&b, "option %d\n", i+1)
		}
		path := filepath.Join(dir, filepath.FromSlash(id))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	set, err := questionset.Load(dir)
	if err != nil {
		t.Fatalf("load set: %v", err)
	}
	return set
}

// fakeClock advances by step on every call.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func loadStore(t *testing.T, dir string) *progress.Store {
	t.Helper()
	st, err := progress.Load(dir)
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	return st
}

func questionsetDefaults() questionset.Options {
	return questionset.Options{}
}
