package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/fakeapi"
	"github.com/Makepad-fr/tada/internal/model"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var fixedNow = time.Date(2026, 10, 16, 10, 0, 0, 0, time.Local)

func newTestModel(t *testing.T, url string, login bool) Model {
	t.Helper()
	c, err := api.NewClient(url, api.WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if login {
		if err := c.Login(context.Background(), "demo@example.com", "password123"); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	a := &app.App{Config: &config.Config{}, Logger: zerolog.Nop(), Client: c}
	m := New(context.Background(), a)
	m.now = func() time.Time { return fixedNow }
	m.toastTTL = time.Millisecond
	return m
}

func newFakeModel(t *testing.T) (*fakeapi.Server, Model) {
	t.Helper()
	s, err := fakeapi.New("demo@example.com", "password123")
	if err != nil {
		t.Fatalf("fake api: %v", err)
	}
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, newTestModel(t, ts.URL, true)
}

// drain runs cmd and everything it produces to completion, feeding messages
// back into m. Spinner ticks and toast expiry are dropped so the toast stays
// visible to assertions.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg, clearToastMsg, tea.QuitMsg, nil:
		default:
			next, more := m.Update(msg)
			m = next.(Model)
			queue = append(queue, more)
		}
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, cmd := m.Update(msg)
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func seed(s *fakeapi.Server) {
	s.Seed("walk dog", "Low", "20-10-2026", "Completed")
	s.Seed("Buy milk", "High", "18-10-2026", "Not Started")
	s.Seed("call mum", "Medium", "19-10-2026", "In Progress")
}

func TestInitLoadsTodos(t *testing.T) {
	s, m := newFakeModel(t)
	seed(s)

	if !m.loading {
		t.Fatal("model should start loading")
	}
	m = drain(t, m, m.Init())
	if m.loading {
		t.Fatal("still loading after fetch")
	}
	if len(m.todos) != 3 {
		t.Fatalf("todos=%d want 3", len(m.todos))
	}
	view := m.View()
	for _, want := range []string{"walk dog", "Buy milk", "call mum", "Total"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSortKeys(t *testing.T) {
	s, m := newFakeModel(t)
	seed(s)
	m = drain(t, m, m.Init())

	m = press(t, m, "2")
	if got := titles(m.todos); got[0] != "walk dog" || got[2] != "Buy milk" {
		t.Fatalf("priority asc: %v", got)
	}
	m = press(t, m, "2")
	if got := titles(m.todos); got[0] != "Buy milk" || got[2] != "walk dog" {
		t.Fatalf("priority desc: %v", got)
	}
	if !strings.Contains(m.View(), "Priority ↓") {
		t.Fatal("header should mark the sorted column")
	}
	m = press(t, m, "3")
	if got := titles(m.todos); got[0] != "Buy milk" || got[1] != "call mum" {
		t.Fatalf("deadline asc: %v", got)
	}
}

func TestCreateTodo(t *testing.T) {
	s, m := newFakeModel(t)
	m = drain(t, m, m.Init())

	m = press(t, m, "a")
	if m.mode != modeForm {
		t.Fatal("a should open the form")
	}
	if got := m.form.deadline.Value(); got != "17-10-2026" {
		t.Fatalf("default deadline=%q", got)
	}
	m = press(t, m, "Buy milk", "enter")

	if m.mode != modeBrowse {
		t.Fatalf("form should close after save, errs=%v", m.form.errs)
	}
	if m.toast.isErr || !strings.Contains(m.toast.text, "Buy milk") {
		t.Fatalf("toast=%+v", m.toast)
	}
	if len(m.todos) != 1 || m.todos[0].Title != "Buy milk" || m.todos[0].Priority != model.PriorityMedium {
		t.Fatalf("todos after refetch: %+v", m.todos)
	}
	if recs := s.Todos(); len(recs) != 1 || recs[0].Status != "Not Started" {
		t.Fatalf("server: %+v", recs)
	}
}

func TestCreateInvalidKeepsDialog(t *testing.T) {
	s, m := newFakeModel(t)
	m = drain(t, m, m.Init())

	m = press(t, m, "a", "enter")
	if m.mode != modeForm {
		t.Fatal("form should stay open")
	}
	if m.form.errs["title"] != "A title is required" {
		t.Fatalf("errs=%v", m.form.errs)
	}

	m = press(t, m, "x", "tab", "tab")
	m.form.deadline.SetValue("31-02-2026")
	m = press(t, m, "enter")
	if m.form.errs["deadline"] == "" {
		t.Fatalf("bad deadline not reported: %v", m.form.errs)
	}
	if len(s.Todos()) != 0 {
		t.Fatal("invalid todo reached the server")
	}

	m = press(t, m, "esc")
	if m.mode != modeBrowse {
		t.Fatal("esc should close the form")
	}
}

func TestEditTodo(t *testing.T) {
	s, m := newFakeModel(t)
	rec := s.Seed("Buy milk", "Low", "18-10-2026", "Not Started")
	m = drain(t, m, m.Init())

	m = press(t, m, "e")
	if m.mode != modeForm || m.form.id != rec.ID {
		t.Fatalf("edit form not opened for %s", rec.ID)
	}
	if m.form.title.Value() != "Buy milk" || m.form.deadline.Value() != "18-10-2026" {
		t.Fatal("edit form not pre-filled")
	}
	// priority Low -> Medium, status Not Started -> In Progress
	m = press(t, m, "tab", "right", "tab", "tab", "right", "enter")

	recs := s.Todos()
	if len(recs) != 1 || recs[0].Priority != "Medium" || recs[0].Status != "In Progress" {
		t.Fatalf("server: %+v", recs)
	}
	if m.todos[0].Status != model.StatusInProgress {
		t.Fatalf("table not refreshed: %+v", m.todos[0])
	}
}

func TestDeleteAsksFirst(t *testing.T) {
	s, m := newFakeModel(t)
	s.Seed("Buy milk", "Low", "18-10-2026", "Not Started")
	m = drain(t, m, m.Init())

	m = press(t, m, "d")
	if m.mode != modeConfirmDelete || !strings.Contains(m.View(), `Delete "Buy milk"?`) {
		t.Fatal("delete should ask for confirmation")
	}
	m = press(t, m, "n")
	if len(s.Todos()) != 1 {
		t.Fatal("n must not delete")
	}

	m = press(t, m, "d", "y")
	if len(s.Todos()) != 0 {
		t.Fatal("y should delete")
	}
	if len(m.todos) != 0 {
		t.Fatalf("table still shows %d todos", len(m.todos))
	}
}

func TestCopyTodo(t *testing.T) {
	s, m := newFakeModel(t)
	s.Seed("Buy milk", "Low", "17-10-2026", "Not Started")
	m = drain(t, m, m.Init())

	var got string
	m.writeClipboard = func(s string) error { got = s; return nil }
	m = press(t, m, "c")
	if got != "Buy milk,Low,17-10-2026,Not Started" {
		t.Fatalf("clipboard=%q", got)
	}
	if !strings.Contains(m.toast.text, "Copied") {
		t.Fatalf("toast=%+v", m.toast)
	}
}

func TestFailedRefreshKeepsRows(t *testing.T) {
	var fail atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"1","title":"Buy milk","priority":"Low","deadline":"17-10-2026","status":"Not Started"}]`))
	}))
	defer ts.Close()

	m := newTestModel(t, ts.URL, false)
	m = drain(t, m, m.Init())
	if len(m.todos) != 1 {
		t.Fatalf("todos=%d", len(m.todos))
	}

	fail.Store(true)
	m = press(t, m, "r")
	if len(m.todos) != 1 {
		t.Fatal("failed refresh dropped the rows")
	}
	if !m.toast.isErr || !strings.Contains(m.toast.text, "Internal Server Error") {
		t.Fatalf("toast=%+v", m.toast)
	}
}

func TestUnauthorizedSuggestsLogin(t *testing.T) {
	s, err := fakeapi.New("demo@example.com", "password123")
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s)
	defer ts.Close()

	m := newTestModel(t, ts.URL, false)
	m = drain(t, m, m.Init())
	if !m.toast.isErr || !strings.Contains(m.toast.text, "tada login") {
		t.Fatalf("toast=%+v", m.toast)
	}
}

func TestToastExpiresOnlyForLatest(t *testing.T) {
	_, m := newFakeModel(t)
	m.notify("first", false)
	m.notify("second", false)

	next, _ := m.Update(clearToastMsg{seq: 1})
	m = next.(Model)
	if m.toast.text != "second" {
		t.Fatalf("stale clear removed newer toast: %+v", m.toast)
	}
	next, _ = m.Update(clearToastMsg{seq: 2})
	if next.(Model).toast.text != "" {
		t.Fatal("toast not cleared")
	}
}
