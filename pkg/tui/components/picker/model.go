// Package picker renders the taxon type-ahead as a Bubble Tea component.
package picker

import (
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/taxon"
	"tableflip.dev/taxoselect/pkg/taxoselect"
	"tableflip.dev/taxoselect/pkg/tui/events"
	"tableflip.dev/taxoselect/pkg/tui/theme"
)

// Options configure the picker component.
type Options struct {
	ID     events.ComponentID
	Widget taxoselect.Options
	Theme  *theme.Theme
	// MaxSuggestions caps the rows of the suggestion panel.
	MaxSuggestions int
}

// Model wraps a taxoselect.Model with a text input, a repository picker and
// a suggestion panel. Emissions of the core leave the component as
// events messages.
type Model struct {
	id      events.ComponentID
	core    *taxoselect.Model
	queue   *events.Queue
	input   textinput.Model
	styles  theme.PickerTheme
	focused bool

	width  int
	height int

	highlight      int
	maxSuggestions int
}

// NewModel constructs the picker around svc.
func NewModel(svc repository.Service, opts Options) *Model {
	id := opts.ID
	if id == "" {
		id = events.ComponentID("picker")
	}
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	maxRows := opts.MaxSuggestions
	if maxRows <= 0 {
		maxRows = 8
	}

	queue := events.NewQueue(id)
	in := textinput.New()
	in.Prompt = "› "

	return &Model{
		id:             id,
		core:           taxoselect.New(svc, queue, opts.Widget),
		queue:          queue,
		input:          in,
		styles:         th.Picker,
		focused:        true,
		maxSuggestions: maxRows,
	}
}

// ID returns the component identifier used in emitted events.
func (m *Model) ID() events.ComponentID { return m.id }

// Core exposes the underlying state machine.
func (m *Model) Core() *taxoselect.Model { return m.core }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.core.Init()
	m.syncInput()
	return tea.Batch(
		m.queue.Drain(),
		events.FocusCmd(m.id),
		m.input.Focus(),
	)
}

// Update processes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.width == 0 && m.height == 0 {
			m.SetSize(msg.Width, msg.Height)
		}
	case events.FocusMsg:
		if msg.Component == m.id {
			m.focused = true
			cmds = appendCmd(cmds, m.input.Focus())
		}
	case events.BlurMsg:
		if msg.Component == m.id {
			m.focused = false
			m.input.Blur()
			cmds = appendCmd(cmds, m.core.Blur())
		}
	case tea.KeyMsg:
		cmds = appendCmd(cmds, m.handleKey(msg))
	default:
		cmds = appendCmd(cmds, m.core.Update(msg))
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = appendCmd(cmds, cmd)
	}
	return m, m.finish(cmds)
}

// SetValue replaces the input text as if the user had typed it.
func (m *Model) SetValue(text string) tea.Cmd {
	m.input.SetValue(text)
	m.input.CursorEnd()
	return m.finish([]tea.Cmd{m.core.SetInput(text)})
}

// StartEdit opens an edit session for rec.
func (m *Model) StartEdit(rec taxon.Record) tea.Cmd {
	return m.finish([]tea.Cmd{m.core.StartEdit(rec)})
}

// CancelEdit cancels the active edit session.
func (m *Model) CancelEdit() tea.Cmd {
	m.core.CancelEdit()
	return m.finish(nil)
}

// Reset is the host reset trigger.
func (m *Model) Reset() tea.Cmd {
	m.core.Reset()
	return m.finish(nil)
}

// Refresh searches the current text again.
func (m *Model) Refresh() tea.Cmd {
	return m.finish([]tea.Cmd{m.core.Refresh()})
}

// SetEnabled enables or disables the picker.
func (m *Model) SetEnabled(enabled bool) {
	m.core.SetEnabled(enabled)
	m.syncInput()
}

// Close releases in-flight lookups.
func (m *Model) Close() {
	m.core.Close()
}

// Highlighted returns the highlighted suggestion index.
func (m *Model) Highlighted() int { return m.highlight }

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !m.focused || !m.core.Enabled() {
		return nil
	}
	switch msg.String() {
	case "up", "ctrl+p":
		m.moveHighlight(-1)
		return nil
	case "down", "ctrl+n":
		if !m.core.PanelOpen() {
			m.core.OpenPanel()
			return nil
		}
		m.moveHighlight(1)
		return nil
	case "enter":
		if m.core.PanelOpen() {
			cands := m.core.Candidates()
			if m.highlight >= 0 && m.highlight < len(cands) {
				return m.core.Select(cands[m.highlight])
			}
		}
		return m.core.Commit()
	case "esc":
		switch {
		case m.core.PanelOpen():
			m.core.ClosePanel()
		case m.core.IsEditing():
			m.core.CancelEdit()
		}
		return nil
	case "tab":
		return m.cycleRepository(1)
	case "shift+tab":
		return m.cycleRepository(-1)
	case "ctrl+r":
		m.core.Reset()
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		return tea.Batch(cmd, m.core.SetInput(after))
	}
	return cmd
}

func (m *Model) cycleRepository(delta int) tea.Cmd {
	if !m.core.Options().ShowRepositoryPicker {
		return nil
	}
	catalog := m.core.Catalog()
	if len(catalog) < 2 {
		return nil
	}
	current := 0
	for i, d := range catalog {
		if d.Value == m.core.Repository().Value {
			current = i
			break
		}
	}
	next := (current + delta + len(catalog)) % len(catalog)
	return m.core.SwitchRepository(catalog[next].Value)
}

func (m *Model) moveHighlight(delta int) {
	n := len(m.core.Candidates())
	if n == 0 {
		m.highlight = 0
		return
	}
	m.highlight = clampInt(m.highlight+delta, 0, n-1)
}

// finish syncs the view state with the core and appends the queued
// emissions after the other commands, keeping them in order.
func (m *Model) finish(cmds []tea.Cmd) tea.Cmd {
	m.syncInput()
	cmds = appendCmd(cmds, m.queue.Drain())
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (m *Model) syncInput() {
	if m.input.Value() != m.core.Input() {
		m.input.SetValue(m.core.Input())
		m.input.CursorEnd()
	}
	m.input.Placeholder = m.core.Placeholder()
	if n := len(m.core.Candidates()); m.highlight >= n {
		m.highlight = max(0, n-1)
	}
	if !m.core.PanelOpen() {
		m.highlight = 0
	}
}

func appendCmd(cmds []tea.Cmd, cmd tea.Cmd) []tea.Cmd {
	if cmd == nil {
		return cmds
	}
	return append(cmds, cmd)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
