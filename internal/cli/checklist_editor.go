package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/coachdesk/internal/checklist"
	"github.com/alexanderramin/coachdesk/internal/cli/formatter"
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type editorKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Edit   key.Binding
	Save   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultEditorKeys() editorKeys {
	return editorKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "check")),
		Edit:   key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "answer")),
		Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k editorKeys) ShortHelp(editing bool) []key.Binding {
	if editing {
		return []key.Binding{k.Save, k.Cancel}
	}
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Edit, k.Quit}
}

// editorRow is one selectable line: a step, or a sub-item when sub is set.
type editorRow struct {
	step domain.StepID
	sub  domain.SubItemID
}

// checklistChangedMsg carries the reloaded view after a mutation.
type checklistChangedMsg struct {
	view *service.ChecklistView
	err  error
}

// checklistEditor is the bubbletea model behind `checklist edit`. Free-text
// answers go through SetSubItemValue on every keystroke and reach the store
// through the service's debounced saver.
type checklistEditor struct {
	ctx      context.Context
	svc      service.ChecklistService
	clientID string

	view    *service.ChecklistView
	rows    []editorRow
	cursor  int
	editing bool
	input   textinput.Model
	keys    editorKeys
	err     error
}

func newChecklistEditor(ctx context.Context, svc service.ChecklistService, clientID string) (*checklistEditor, error) {
	v, err := svc.View(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if len(v.Steps) == 0 {
		return nil, fmt.Errorf("checklist is locked for %s", v.ClientName)
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 500
	ti.PromptStyle = lipgloss.NewStyle().Foreground(formatter.ColorHeader)

	m := &checklistEditor{
		ctx:      ctx,
		svc:      svc,
		clientID: clientID,
		input:    ti,
		keys:     defaultEditorKeys(),
	}
	m.setView(v)
	return m, nil
}

func (m *checklistEditor) setView(v *service.ChecklistView) {
	m.view = v
	m.rows = m.rows[:0]
	for _, sv := range v.Steps {
		m.rows = append(m.rows, editorRow{step: sv.Step.ID})
		for _, sub := range sv.SubItems {
			m.rows = append(m.rows, editorRow{step: sv.Step.ID, sub: sub.SubItem.ID})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func (m *checklistEditor) current() (service.StepView, *service.SubItemView, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return service.StepView{}, nil, false
	}
	row := m.rows[m.cursor]
	for _, sv := range m.view.Steps {
		if sv.Step.ID != row.step {
			continue
		}
		if row.sub == "" {
			return sv, nil, true
		}
		for i := range sv.SubItems {
			if sv.SubItems[i].SubItem.ID == row.sub {
				return sv, &sv.SubItems[i], true
			}
		}
	}
	return service.StepView{}, nil, false
}

func (m *checklistEditor) reload() tea.Cmd {
	return func() tea.Msg {
		v, err := m.svc.View(m.ctx, m.clientID)
		return checklistChangedMsg{view: v, err: err}
	}
}

func (m *checklistEditor) toggle(row editorRow) tea.Cmd {
	return func() tea.Msg {
		var err error
		if row.sub == "" {
			err = m.svc.ToggleStep(m.ctx, m.clientID, row.step)
		} else {
			err = m.svc.ToggleSubItem(m.ctx, m.clientID, row.step, row.sub)
		}
		v, verr := m.svc.View(m.ctx, m.clientID)
		if err == nil {
			err = verr
		}
		return checklistChangedMsg{view: v, err: err}
	}
}

func (m *checklistEditor) Init() tea.Cmd {
	return nil
}

func (m *checklistEditor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case checklistChangedMsg:
		m.err = msg.err
		if msg.view != nil {
			m.setView(msg.view)
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		m.err = nil

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.rows) {
				return m, m.toggle(m.rows[m.cursor])
			}
		case key.Matches(msg, m.keys.Edit):
			_, sub, ok := m.current()
			if !ok || sub == nil || !sub.Fields.ShowInput {
				return m, nil
			}
			m.editing = true
			m.input.Placeholder = sub.Fields.InputLabel
			m.input.SetValue(sub.State.Value)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m *checklistEditor) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Save) || key.Matches(msg, m.keys.Cancel) {
		m.editing = false
		m.input.Blur()
		return m, m.reload()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		row := m.rows[m.cursor]
		if err := m.svc.SetSubItemValue(m.ctx, m.clientID, row.step, row.sub, after); err != nil {
			m.err = err
		}
	}
	return m, cmd
}

var (
	editorCursorStyle = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	editorHelpStyle   = lipgloss.NewStyle().Foreground(formatter.ColorDim)
)

func (m *checklistEditor) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Checklist · " + m.view.ClientName))
	b.WriteString("\n")
	b.WriteString(formatter.RenderProgress(m.view.Completed, len(m.view.Steps), 20))
	if m.view.PendingSave {
		b.WriteString("  " + formatter.SaveIndicator(domain.SavePending))
	} else if m.view.SaveStatus != domain.SaveCommitted {
		b.WriteString("  " + formatter.SaveIndicator(m.view.SaveStatus))
	}
	b.WriteString("\n\n")

	for i, row := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = editorCursorStyle.Render("▸ ")
		}
		b.WriteString(cursor + m.rowLine(row) + "\n")
		if i == m.cursor && m.editing {
			b.WriteString("      " + m.input.View() + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n" + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	}

	var help []string
	for _, kb := range m.keys.ShortHelp(m.editing) {
		h := kb.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString("\n" + editorHelpStyle.Render(strings.Join(help, " · ")) + "\n")
	return b.String()
}

func (m *checklistEditor) rowLine(row editorRow) string {
	for _, sv := range m.view.Steps {
		if sv.Step.ID != row.step {
			continue
		}
		if row.sub == "" {
			mark := formatter.StyleDim.Render("○")
			switch sv.Status {
			case checklist.StatusCompleted:
				mark = formatter.StyleGreen.Render("✔")
			case checklist.StatusInProgress:
				mark = formatter.StyleYellow.Render("▶")
			}
			return fmt.Sprintf("%s %2d. %s", mark, sv.Step.ID, formatter.Bold(sv.Step.Title))
		}
		for _, sub := range sv.SubItems {
			if sub.SubItem.ID != row.sub {
				continue
			}
			line := "    " + formatter.PaidMark(sub.State.Checked) + " " + sub.SubItem.Label
			if sub.Fields.ShowInput && sub.State.Value != "" && !(m.editing && m.rows[m.cursor] == row) {
				line += "  " + formatter.Dim(sub.State.Value)
			}
			return line
		}
	}
	return ""
}
