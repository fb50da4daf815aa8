package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"privateai/internal/models"
)

type fakeController struct {
	sent     []string
	audio    []string
	pdfs     []string
	msgs     []models.Message
	sessions []*models.Session
	current  string
	created  int
	deleted  int
}

func (f *fakeController) Send(_ context.Context, text string)     { f.sent = append(f.sent, text) }
func (f *fakeController) HandleAudio(_ context.Context, p string) { f.audio = append(f.audio, p) }
func (f *fakeController) HandlePDF(_ context.Context, p string)   { f.pdfs = append(f.pdfs, p) }
func (f *fakeController) Messages() []models.Message              { return f.msgs }
func (f *fakeController) IsTyping() bool                          { return false }
func (f *fakeController) Sessions() []*models.Session             { return f.sessions }
func (f *fakeController) DeleteCurrentSession()                   { f.deleted++ }

func (f *fakeController) CurrentSession() (*models.Session, bool) {
	for _, s := range f.sessions {
		if s.ID == f.current {
			return s, true
		}
	}
	return nil, false
}

func (f *fakeController) CreateNewSession() *models.Session {
	f.created++
	s := models.NewSession()
	f.sessions = append([]*models.Session{s}, f.sessions...)
	f.current = s.ID
	return s
}

func (f *fakeController) SelectSession(id string) bool {
	for _, s := range f.sessions {
		if s.ID == id {
			f.current = id
			return true
		}
	}
	return false
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestEmptyInputNotSent(t *testing.T) {
	ctrl := &fakeController{}
	m := NewModel(ctrl, "flash", "dark")

	updated, cmd := m.handleInput("")

	if cmd != nil {
		t.Error("empty input produced a command")
	}
	if updated.(Model).loading {
		t.Error("empty input set loading")
	}
	if len(ctrl.sent) != 0 {
		t.Errorf("empty input reached the controller: %v", ctrl.sent)
	}
}

func TestInputDispatchesSend(t *testing.T) {
	ctrl := &fakeController{}
	m := NewModel(ctrl, "flash", "dark")

	updated, cmd := m.handleInput("hello there")

	if !updated.(Model).loading {
		t.Error("send did not set loading")
	}
	msg := runCmd(t, cmd)

	// tea.Batch wraps the commands; run them until the turn completes.
	if batch, ok := msg.(tea.BatchMsg); ok {
		done := false
		for _, c := range batch {
			if _, ok := c().(turnDoneMsg); ok {
				done = true
			}
		}
		if !done {
			t.Error("batched commands did not produce turnDoneMsg")
		}
	}

	if len(ctrl.sent) != 1 || ctrl.sent[0] != "hello there" {
		t.Errorf("controller received %v, want the typed message", ctrl.sent)
	}
}

func TestExitCommandsQuit(t *testing.T) {
	for _, input := range []string{"exit", "quit", "/exit", "/quit"} {
		ctrl := &fakeController{}
		m := NewModel(ctrl, "flash", "dark")

		_, cmd := m.handleInput(input)
		if msg := runCmd(t, cmd); msg != nil {
			if _, ok := msg.(tea.QuitMsg); !ok {
				t.Errorf("input %q did not quit, got %T", input, msg)
			}
		}
	}
}

func TestSlashNewCreatesSession(t *testing.T) {
	ctrl := &fakeController{}
	m := NewModel(ctrl, "flash", "dark")

	updated, _ := m.handleInput("/new")

	if ctrl.created != 1 {
		t.Errorf("created %d sessions, want 1", ctrl.created)
	}
	if updated.(Model).feedback == "" {
		t.Error("no feedback after /new")
	}
}

func TestSlashAudioParsesPath(t *testing.T) {
	ctrl := &fakeController{}
	m := NewModel(ctrl, "flash", "dark")

	_, cmd := m.handleInput("/audio  /tmp/voice note.m4a ")
	if batch, ok := runCmd(t, cmd).(tea.BatchMsg); ok {
		for _, c := range batch {
			c()
		}
	}

	if len(ctrl.audio) == 0 || ctrl.audio[0] != "/tmp/voice note.m4a" {
		t.Errorf("audio paths = %v, want the trimmed path", ctrl.audio)
	}
}

func TestSlashSessionsOpensSelector(t *testing.T) {
	ctrl := &fakeController{}
	m := NewModel(ctrl, "flash", "dark")

	updated, _ := m.handleInput("/sessions")

	if !updated.(Model).selecting {
		t.Error("/sessions did not open the selector")
	}
}

func TestSelectorFilterMatchesTitles(t *testing.T) {
	s1, s2 := models.NewSession(), models.NewSession()
	s1.Title = "Go concurrency"
	s2.Title = "Dinner ideas"
	ctrl := &fakeController{sessions: []*models.Session{s1, s2}}

	m := NewModel(ctrl, "flash", "dark")
	m.filter = "go"

	filtered := m.filteredSessions()
	if len(filtered) != 1 || filtered[0].ID != s1.ID {
		t.Errorf("filtered = %v, want only the matching session", filtered)
	}
}

func TestSelectorEnterSelectsSession(t *testing.T) {
	s1, s2 := models.NewSession(), models.NewSession()
	ctrl := &fakeController{sessions: []*models.Session{s1, s2}, current: s1.ID}

	m := NewModel(ctrl, "flash", "dark")
	m.selecting = true
	m.cursor = 1

	updated, _ := m.updateSelector(tea.KeyMsg{Type: tea.KeyEnter})

	if ctrl.current != s2.ID {
		t.Errorf("current = %q, want %q", ctrl.current, s2.ID)
	}
	if updated.(Model).selecting {
		t.Error("selector still open after selection")
	}
}

func TestSelectorEscCancels(t *testing.T) {
	ctrl := &fakeController{}
	m := NewModel(ctrl, "flash", "dark")
	m.selecting = true
	m.filter = "abc"

	updated, _ := m.updateSelector(tea.KeyMsg{Type: tea.KeyEsc})

	um := updated.(Model)
	if um.selecting || um.filter != "" {
		t.Errorf("esc left selector state: selecting=%v filter=%q", um.selecting, um.filter)
	}
}
