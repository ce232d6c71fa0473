package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizrunner/internal/screen"
)

type fakeScreen struct {
	name    string
	inits   int
	resumes int
	keys    int
	closed  bool
}

func (f *fakeScreen) Init() tea.Cmd { f.inits++; return nil }
func (f *fakeScreen) Title() string { return f.name }
func (f *fakeScreen) Close()        { f.closed = true }

func (f *fakeScreen) View(int, int) string { return "view of " + f.name }

func (f *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case screen.ResumeMsg:
		f.resumes++
	case tea.KeyPressMsg:
		f.keys++
	}
	return f, nil
}

func titles(r *Router) []string {
	var out []string
	for _, s := range r.stack {
		out = append(out, s.Title())
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNavigationMessages(t *testing.T) {
	tests := []struct {
		name string
		msgs func() []tea.Msg
		want []string
	}{
		{
			name: "push",
			msgs: func() []tea.Msg { return []tea.Msg{PushScreenMsg{&fakeScreen{name: "quiz"}}} },
			want: []string{"menu", "quiz"},
		},
		{
			name: "push then pop",
			msgs: func() []tea.Msg { return []tea.Msg{PushScreenMsg{&fakeScreen{name: "quiz"}}, PopScreenMsg{}} },
			want: []string{"menu"},
		},
		{
			name: "pop keeps root",
			msgs: func() []tea.Msg { return []tea.Msg{PopScreenMsg{}, PopScreenMsg{}} },
			want: []string{"menu"},
		},
		{
			name: "replace top",
			msgs: func() []tea.Msg {
				return []tea.Msg{PushScreenMsg{&fakeScreen{name: "quiz"}}, ReplaceScreenMsg{&fakeScreen{name: "summary"}}}
			},
			want: []string{"menu", "summary"},
		},
		{
			name: "replace root",
			msgs: func() []tea.Msg { return []tea.Msg{ReplaceScreenMsg{&fakeScreen{name: "summary"}}} },
			want: []string{"summary"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&fakeScreen{name: "menu"})
			for _, m := range tt.msgs() {
				r.Update(m)
			}
			if got := titles(r); !equal(got, tt.want) {
				t.Errorf("stack = %v, want %v", got, tt.want)
			}
			if r.Depth() != len(tt.want) {
				t.Errorf("Depth() = %d, want %d", r.Depth(), len(tt.want))
			}
		})
	}
}

func TestPushAndReplaceRunInit(t *testing.T) {
	r := New(&fakeScreen{name: "menu"})
	quiz := &fakeScreen{name: "quiz"}
	summary := &fakeScreen{name: "summary"}

	r.Push(quiz)
	r.Replace(summary)

	if quiz.inits != 1 || summary.inits != 1 {
		t.Errorf("inits = %d/%d, want 1/1", quiz.inits, summary.inits)
	}
	if r.View(80, 24) != "view of summary" {
		t.Errorf("View() = %q", r.View(80, 24))
	}
}

func TestInputGoesToActiveScreenOnly(t *testing.T) {
	menu := &fakeScreen{name: "menu"}
	quiz := &fakeScreen{name: "quiz"}
	r := New(menu)
	r.Push(quiz)

	r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if quiz.keys != 1 || menu.keys != 0 {
		t.Errorf("keys quiz=%d menu=%d, want 1/0", quiz.keys, menu.keys)
	}
}

func TestPopResumesScreenBelow(t *testing.T) {
	menu := &fakeScreen{name: "menu"}
	r := New(menu)
	r.Push(&fakeScreen{name: "quiz"})

	cmd := r.Update(PopScreenMsg{})
	if cmd == nil {
		t.Fatal("expected resume command after pop")
	}
	r.Update(cmd())

	if menu.resumes != 1 {
		t.Errorf("resumes = %d, want 1", menu.resumes)
	}
	if cmd := r.Pop(); cmd != nil {
		t.Error("popping the root should return no command")
	}
}

func TestCloseReachesEveryScreen(t *testing.T) {
	menu := &fakeScreen{name: "menu"}
	quiz := &fakeScreen{name: "quiz"}
	r := New(menu)
	r.Push(quiz)

	r.Close()

	if !menu.closed || !quiz.closed {
		t.Errorf("closed menu=%v quiz=%v, want both", menu.closed, quiz.closed)
	}
}
