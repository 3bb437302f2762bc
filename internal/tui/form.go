package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

type formField int

const (
	fieldTitle formField = iota
	fieldPriority
	fieldDeadline
	fieldStatus
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Priority", "Deadline", "Status"}

// form is the create/edit dialog. id is empty when creating.
type form struct {
	id       string
	title    textinput.Model
	deadline textinput.Model
	priority int
	status   int
	focus    formField

	errs       map[string]string
	submitting bool
}

func newForm(now time.Time) form {
	f := form{
		title:    newInput("What needs doing?", 30),
		deadline: newInput(model.DeadlineLayoutHint, 10),
		priority: slices.Index(model.Priorities, model.PriorityMedium),
		status:   slices.Index(model.Statuses, model.StatusNotStarted),
	}
	f.deadline.SetValue(model.FormatDeadline(model.Today(now).AddDate(0, 0, 1)))
	f.setFocus(fieldTitle)
	return f
}

func editForm(t model.Todo, now time.Time) form {
	f := newForm(now)
	f.id = t.ID
	f.title.SetValue(t.Title)
	f.title.CursorEnd()
	if t.Deadline.IsZero() {
		f.deadline.SetValue("")
	} else {
		f.deadline.SetValue(model.FormatDeadline(t.Deadline))
	}
	if i := slices.Index(model.Priorities, t.Priority); i >= 0 {
		f.priority = i
	}
	if i := slices.Index(model.Statuses, t.Status); i >= 0 {
		f.status = i
	}
	return f
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (f *form) editing() bool { return f.id != "" }

func (f *form) setFocus(field formField) {
	f.focus = field
	f.title.Blur()
	f.deadline.Blur()
	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDeadline:
		f.deadline.Focus()
	}
}

// values collects the form into todo values. A deadline that does not
// parse is reported as a field error alongside the validator's.
func (f *form) values(now time.Time) (model.Values, error) {
	v := model.Values{
		Title:    strings.TrimSpace(f.title.Value()),
		Priority: model.Priorities[f.priority],
		Status:   model.Statuses[f.status],
	}
	var deadlineErr string
	d, err := model.ParseDeadline(f.deadline.Value())
	switch {
	case errors.Is(err, model.ErrMissingDeadline):
	case err != nil:
		deadlineErr = "Deadline must be a date like " + model.DeadlineLayoutHint
	default:
		v.Deadline = d
	}

	err = v.Validate(now)
	var verr *model.ValidationError
	if err != nil && !errors.As(err, &verr) {
		return v, err
	}
	if deadlineErr != "" {
		if verr == nil {
			verr = &model.ValidationError{}
		}
		fields := verr.Fields[:0:0]
		for _, fe := range verr.Fields {
			if fe.Field != "deadline" {
				fields = append(fields, fe)
			}
		}
		verr.Fields = append(fields, model.FieldError{Field: "deadline", Message: deadlineErr})
	}
	if verr != nil {
		return v, verr
	}
	return v, nil
}

// setErrors shows err inside the dialog.
func (f *form) setErrors(err error) {
	f.errs = map[string]string{}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		for _, fe := range verr.Fields {
			f.errs[fe.Field] = fe.Message
		}
		return
	}
	f.errs[""] = err.Error()
}

func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			f.setFocus((f.focus + 1) % fieldCount)
			return f, nil
		case "shift+tab", "up":
			f.setFocus((f.focus + fieldCount - 1) % fieldCount)
			return f, nil
		case "left", "right":
			step := 1
			if k.String() == "left" {
				step = -1
			}
			switch f.focus {
			case fieldPriority:
				f.priority = cycle(f.priority, step, len(model.Priorities))
				return f, nil
			case fieldStatus:
				f.status = cycle(f.status, step, len(model.Statuses))
				return f, nil
			}
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDeadline:
		f.deadline, cmd = f.deadline.Update(msg)
	}
	return f, cmd
}

func cycle(i, step, n int) int {
	return ((i+step)%n + n) % n
}

func (f form) View() string {
	var b strings.Builder
	heading := "New todo"
	if f.editing() {
		heading = "Edit todo"
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")

	for field := fieldTitle; field < fieldCount; field++ {
		label := fmt.Sprintf("%-9s", fieldLabels[field])
		if field == f.focus {
			label = focusedLabel.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		var value string
		switch field {
		case fieldTitle:
			value = f.title.View()
		case fieldDeadline:
			value = f.deadline.View()
		case fieldPriority:
			value = "‹ " + string(model.Priorities[f.priority]) + " ›"
		case fieldStatus:
			value = "‹ " + string(model.Statuses[f.status]) + " ›"
		}
		b.WriteString(label + " " + value + "\n")
		if msg := f.errs[strings.ToLower(fieldLabels[field])]; msg != "" {
			b.WriteString(strings.Repeat(" ", 10) + errorStyle.Render(msg) + "\n")
		}
	}
	if msg := f.errs[""]; msg != "" {
		b.WriteString("\n" + errorStyle.Render(msg) + "\n")
	}

	b.WriteString("\n")
	if f.submitting {
		b.WriteString(mutedStyle.Render("saving…"))
	} else {
		b.WriteString(helpStyle.Render("tab/shift+tab move • ←/→ change • enter save • esc cancel"))
	}
	return dialogStyle.Render(b.String())
}
