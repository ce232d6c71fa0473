package menu

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/abhisek/quizrunner/internal/questionset"
	"github.com/abhisek/quizrunner/internal/router"
	"github.com/abhisek/quizrunner/internal/screen"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testEntries() []questionset.Entry {
	return []questionset.Entry{
		{Dir: "/b/alpha", Rel: "alpha", HasProgress: true},
		{Dir: "/b/beta", Rel: "beta"},
	}
}

func TestMenuScreen_View(t *testing.T) {
	m := New("/b", testEntries(), nil)
	view := m.View(100, 30)
	for _, want := range []string{"2 set(s) in /b", "[CONTINUE LEARNING]", "alpha", "beta"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMenuScreen_StartSelected(t *testing.T) {
	var started questionset.Entry
	m := New("/b", testEntries(), func(e questionset.Entry) (screen.Screen, error) {
		started = e
		return &stubScreen{title: e.Rel}, nil
	})

	m.Update(specialKey(tea.KeyDown))
	_, cmd := m.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if started.Rel != "beta" || push.Screen.Title() != "beta" {
		t.Errorf("started %q, pushed %q; want beta", started.Rel, push.Screen.Title())
	}
}

func TestMenuScreen_StartError(t *testing.T) {
	m := New("/b", testEntries(), func(questionset.Entry) (screen.Screen, error) {
		return nil, errors.New("no valid questions")
	})

	_, cmd := m.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command when the set fails to load")
	}
	if !strings.Contains(m.View(100, 30), "no valid questions") {
		t.Error("expected load error in view")
	}
}

func TestMenuScreen_ResumeRediscovers(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"alpha", "beta"} {
		dir := filepath.Join(base, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "q.txt"), []byte("10\nQ?\na\nb\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := questionset.Discover(base)
	if err != nil {
		t.Fatal(err)
	}
	m := New(base, entries, nil)

	st := progress.New(filepath.Join(base, "beta"))
	st.Record("q.txt", true)
	if err := st.Save(); err != nil {
		t.Fatal(err)
	}

	m.Update(screen.ResumeMsg{})
	if m.entries[0].Rel != "beta" || !m.entries[0].HasProgress {
		t.Errorf("entries after resume = %+v, want beta first with progress", m.entries)
	}
}

func TestMenuScreen_QuitKey(t *testing.T) {
	m := New("/b", testEntries(), nil)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestMenuScreen_HistoryKey(t *testing.T) {
	m := New("/b", testEntries(), nil)
	if _, cmd := m.Update(tea.KeyPressMsg{Code: 'h', Text: "h"}); cmd != nil {
		t.Error("h without history should do nothing")
	}

	m.WithHistory(func() screen.Screen { return &stubScreen{title: "History"} })
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok || push.Screen.Title() != "History" {
		t.Errorf("got %#v, want history screen pushed", cmd())
	}

	var found bool
	for _, h := range m.KeyHints() {
		found = found || h.Description == "History"
	}
	if !found {
		t.Error("expected History key hint")
	}
}
