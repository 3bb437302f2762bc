// Package tui is the interactive todo table.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/model"
)

const defaultToastTTL = 3 * time.Second

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirmDelete
)

type (
	todosLoadedMsg struct{ result api.Result[[]model.Todo] }
	todoSavedMsg   struct {
		result  api.Result[model.Todo]
		created bool
	}
	todoDeletedMsg struct {
		id  string
		err error
	}
	copiedMsg struct {
		title string
		err   error
	}
	clearToastMsg struct{ seq int }
)

type toast struct {
	text  string
	isErr bool
}

// Model is the Bubble Tea model behind `tada ls`.
type Model struct {
	ctx  context.Context
	app  *app.App
	keys keyMap
	help help.Model

	table   table.Model
	spinner spinner.Model
	loaded  []model.Todo
	todos   []model.Todo
	sort    SortState
	loading bool

	mode    mode
	form    form
	pending model.Todo

	toast    toast
	toastSeq int
	toastTTL time.Duration

	width, height  int
	now            func() time.Time
	writeClipboard func(string) error
}

// New builds the model. Init starts the first fetch.
func New(ctx context.Context, a *app.App) Model {
	t := table.New(
		table.WithColumns(columns(SortState{})),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("8")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(st)

	return Model{
		ctx:            ctx,
		app:            a,
		keys:           defaultKeys(),
		help:           help.New(),
		table:          t,
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		loading:        true,
		toastTTL:       defaultToastTTL,
		width:          80,
		height:         24,
		now:            time.Now,
		writeClipboard: clipboard.WriteAll,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, a *app.App) error {
	p := tea.NewProgram(New(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchTodos())
}

func (m Model) fetchTodos() tea.Cmd {
	client, ctx := m.app.Client, m.ctx
	return func() tea.Msg {
		return todosLoadedMsg{api.Do(func() ([]model.Todo, error) {
			return client.ListTodos(ctx)
		})}
	}
}

func (m Model) saveTodo(id string, v model.Values) tea.Cmd {
	client, ctx := m.app.Client, m.ctx
	return func() tea.Msg {
		if id == "" {
			return todoSavedMsg{result: api.Do(func() (model.Todo, error) {
				return client.CreateTodo(ctx, v)
			}), created: true}
		}
		return todoSavedMsg{result: api.Do(func() (model.Todo, error) {
			return client.UpdateTodo(ctx, id, v)
		})}
	}
}

func (m Model) deleteTodo(id string) tea.Cmd {
	client, ctx := m.app.Client, m.ctx
	return func() tea.Msg {
		return todoDeletedMsg{id: id, err: client.DeleteTodo(ctx, id)}
	}
}

func (m Model) copyTodo(t model.Todo) tea.Cmd {
	write := m.writeClipboard
	return func() tea.Msg {
		return copiedMsg{title: t.Title, err: write(CSV(t))}
	}
}

// CSV renders t as the clipboard line title,priority,deadline,status.
func CSV(t model.Todo) string {
	return strings.Join([]string{
		t.Title,
		string(t.Priority),
		model.FormatDeadline(t.Deadline),
		string(t.Status),
	}, ",")
}

func (m *Model) notify(text string, isErr bool) tea.Cmd {
	m.toastSeq++
	m.toast = toast{text: text, isErr: isErr}
	seq := m.toastSeq
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} })
}

func (m *Model) notifyErr(prefix string, err error) tea.Cmd {
	text := prefix + ": " + err.Error()
	if api.IsUnauthorized(err) {
		text += " (run `tada login`)"
	}
	m.app.Logger.Error().
		Err(err).
		Msg(prefix)
	return m.notify(text, true)
}

func (m *Model) refresh() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.fetchTodos())
}

func (m Model) selected() (model.Todo, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.todos) {
		return model.Todo{}, false
	}
	return m.todos[i], true
}

// setTodos replaces the rows, keeping the cursor on the same todo when it
// is still there.
func (m *Model) setTodos(todos []model.Todo) {
	prev, hadPrev := m.selected()
	m.loaded = todos
	m.todos = SortTodos(todos, m.sort)
	rows := make([]table.Row, 0, len(m.todos))
	cursor := 0
	for i, t := range m.todos {
		rows = append(rows, table.Row{
			t.Title,
			string(t.Priority),
			model.FormatDeadline(t.Deadline),
			string(t.Status),
		})
		if hadPrev && t.ID == prev.ID {
			cursor = i
		}
	}
	m.table.SetColumns(columns(m.sort))
	m.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	m.table.SetCursor(max(cursor, 0))
}

// columns builds the table header. A column widens when its title, sort
// arrow included, would not fit.
func columns(s SortState) []table.Column {
	cols := []table.Column{
		{Title: "Title", Width: 32},
		{Title: "Priority", Width: 10},
		{Title: "Deadline", Width: 10},
		{Title: "Status", Width: 12},
	}
	if s.Column != ColumnNone {
		arrow := " ↑"
		if s.Desc {
			arrow = " ↓"
		}
		cols[s.Column-1].Title += arrow
	}
	for i := range cols {
		cols[i].Width = max(cols[i].Width, lipgloss.Width(cols[i].Title))
	}
	return cols
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-9, 3))
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case todosLoadedMsg:
		m.loading = false
		if !msg.result.OK() {
			cmd := m.notifyErr("Could not load todos", msg.result.Err)
			return m, cmd
		}
		m.setTodos(msg.result.Value)
		return m, nil

	case todoSavedMsg:
		m.form.submitting = false
		if !msg.result.OK() {
			if m.mode == modeForm {
				m.form.setErrors(msg.result.Err)
			}
			cmd := m.notifyErr("Could not save todo", msg.result.Err)
			return m, cmd
		}
		m.mode = modeBrowse
		verb := "Updated"
		if msg.created {
			verb = "Created"
		}
		cmd := tea.Batch(m.notify(fmt.Sprintf("%s %q", verb, msg.result.Value.Title), false), m.refresh())
		return m, cmd

	case todoDeletedMsg:
		if msg.err != nil {
			cmd := m.notifyErr("Could not delete todo", msg.err)
			return m, cmd
		}
		cmd := tea.Batch(m.notify("Deleted todo", false), m.refresh())
		return m, cmd

	case copiedMsg:
		if msg.err != nil {
			cmd := m.notifyErr("Could not copy", msg.err)
			return m, cmd
		}
		cmd := m.notify(fmt.Sprintf("Copied %q", msg.title), false)
		return m, cmd

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = toast{}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Sort):
		m.sort = m.sort.Toggle(Column(msg.Runes[0] - '0'))
		m.setTodos(m.loaded)
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.refresh()
		return m, cmd
	case key.Matches(msg, m.keys.Create):
		m.form = newForm(m.now())
		m.mode = modeForm
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.form = editForm(t, m.now())
		m.mode = modeForm
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pending = t
		m.mode = modeConfirmDelete
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.copyTodo(t)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.submitting {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil
	case "enter":
		v, err := m.form.values(m.now())
		if err != nil {
			m.form.setErrors(err)
			return m, nil
		}
		m.form.errs = nil
		m.form.submitting = true
		return m, m.saveTodo(m.form.id, v)
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		return m, m.deleteTodo(m.pending.ID)
	case "n", "N", "esc":
		m.mode = modeBrowse
		return m, nil
	}
	return m, nil
}

func (m Model) header() string {
	var done, doing int
	for _, t := range m.todos {
		switch t.Status {
		case model.StatusCompleted:
			done++
		case model.StatusInProgress:
			doing++
		}
	}
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("◐"), doing,
		accentStyle.Render("Total"), len(m.todos),
	)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch {
	case m.loading && len(m.todos) == 0:
		b.WriteString(m.spinner.View() + " Loading todos…")
	case len(m.todos) == 0:
		b.WriteString(mutedStyle.Render("No todos yet. Press a to add one."))
	default:
		b.WriteString(m.table.View())
		if m.loading {
			b.WriteString("\n" + m.spinner.View() + mutedStyle.Render(" refreshing…"))
		}
	}

	switch m.mode {
	case modeForm:
		b.WriteString("\n" + m.form.View())
	case modeConfirmDelete:
		b.WriteString("\n" + dialogStyle.Render(
			fmt.Sprintf("Delete %q? %s", m.pending.Title, helpStyle.Render("y/n"))))
	}

	if m.toast.text != "" {
		style := successStyle
		if m.toast.isErr {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.toast.text))
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return panelStyle.Render(b.String())
}
