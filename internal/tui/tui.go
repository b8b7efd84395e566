// Package tui renders a todo list view in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todos/internal/view"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// snapshotMsg carries a view change into the program.
type snapshotMsg view.Snapshot

// Model is the Bubble Tea model for the todo list.
type Model struct {
	ctx  context.Context
	view *view.View
	snap view.Snapshot

	mode   mode
	cursor int
	editID string
	input  textinput.Model
	help   help.Model
}

// NewModel creates a model bound to v. Requests run with ctx.
func NewModel(ctx context.Context, v *view.View) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	return Model{
		ctx:   ctx,
		view:  v,
		snap:  v.Snapshot(),
		input: ti,
		help:  help.New(),
	}
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, api view.API, logger *log.Logger) error {
	var p *tea.Program
	v := view.New(api, logger, func(s view.Snapshot) {
		p.Send(snapshotMsg(s))
	})
	p = tea.NewProgram(NewModel(ctx, v), tea.WithAltScreen())

	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.run(func(ctx context.Context) { m.view.Load(ctx) })
}

// run performs a view operation off the UI goroutine. Results arrive as
// snapshotMsg through the view's notify hook.
func (m Model) run(op func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		op(m.ctx)
		return nil
	}
}

func (m Model) selected() (id, task string, ok bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Todos) {
		return "", "", false
	}
	t := m.snap.Todos[m.cursor]
	return t.ID, t.Task, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = view.Snapshot(msg)
		if m.cursor >= len(m.snap.Todos) {
			m.cursor = max(len(m.snap.Todos)-1, 0)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.snap.Todos)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Refresh):
		return m, m.run(func(ctx context.Context) { m.view.Load(ctx) })
	case key.Matches(msg, keys.Add):
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = "Add new todo"
		return m, m.input.Focus()
	case key.Matches(msg, keys.Edit):
		id, task, ok := m.selected()
		if !ok || m.snap.State == view.StateLoading {
			return m, nil
		}
		m.mode = modeEdit
		m.editID = id
		m.input.SetValue(task)
		m.input.CursorEnd()
		m.input.Placeholder = ""
		return m, m.input.Focus()
	case key.Matches(msg, keys.Delete):
		id, _, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) { m.view.Delete(ctx, id) })
	}
	return m, nil
}

// updateAdd submits on enter and keeps the input open so further todos can
// be typed while the create is in flight.
func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		task := m.input.Value()
		m.input.SetValue("")
		return m, m.run(func(ctx context.Context) { m.view.Add(ctx, task) })
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateEdit sends the field's value when it loses focus, which happens on
// enter, tab or esc.
func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyTab, tea.KeyEsc:
		id, task := m.editID, m.input.Value()
		m.mode = modeBrowse
		m.editID = ""
		m.input.Blur()
		m.input.SetValue("")
		return m, m.run(func(ctx context.Context) { m.view.Update(ctx, id, task) })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TODO List"))
	b.WriteString("  ")
	b.WriteString(accentStyle.Render(fmt.Sprintf("%d", len(m.snap.Todos))))
	b.WriteString("\n\n")

	switch m.snap.State {
	case view.StateLoading:
		b.WriteString(mutedStyle.Render("Loading..."))
		b.WriteString("\n")
	case view.StateError:
		b.WriteString(errorStyle.Render("Error: " + m.snap.Err))
		b.WriteString("\n")
		if len(m.snap.Todos) > 0 {
			b.WriteString("\n")
			m.renderTodos(&b)
		}
	default:
		m.renderTodos(&b)
	}

	if m.mode != modeBrowse {
		title := "Add new todo"
		if m.mode == modeEdit {
			title = "Edit todo"
		}
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(title + "\n" + m.input.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(keys)))

	return panelStyle.Render(b.String())
}

func (m Model) renderTodos(b *strings.Builder) {
	if len(m.snap.Todos) == 0 {
		b.WriteString(mutedStyle.Render("No todos"))
		b.WriteString("\n")
		return
	}
	for i, t := range m.snap.Todos {
		prefix := "  "
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		b.WriteString(prefix + t.Task + "\n")
	}
}
