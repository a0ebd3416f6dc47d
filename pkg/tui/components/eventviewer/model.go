// Package eventviewer keeps a scrollable log of the picker emissions.
package eventviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/taxoselect/pkg/tui/events"
)

// Level indicates the severity of a logged event.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Entry captures a rendered event.
type Entry struct {
	Timestamp time.Time
	Source    string
	Summary   string
	Detail    string
	Level     Level
}

// Styles controls the log's presentation.
type Styles struct {
	Frame     lipgloss.Style
	Header    lipgloss.Style
	Info      lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Timestamp lipgloss.Style
	Source    lipgloss.Style
}

// DefaultStyles returns the stock styling.
func DefaultStyles() Styles {
	return Styles{
		Frame: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("248")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Model renders a streaming event log, newest first.
type Model struct {
	viewport viewport.Model
	entries  []Entry

	maxEntries int
	now        func() time.Time

	width  int
	height int

	styles Styles
}

// NewModel constructs an event viewer capped at maxEntries.
func NewModel(maxEntries int) *Model {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return &Model{
		viewport:   viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		maxEntries: maxEntries,
		now:        time.Now,
		styles:     DefaultStyles(),
	}
}

// Update scrolls the log on page keys. Everything else is ignored.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// Observe logs msg when it is a picker emission and reports whether it was.
func (m *Model) Observe(msg tea.Msg) bool {
	entry := Entry{Summary: "event"}
	switch msg := msg.(type) {
	case events.NewDataMsg:
		entry.Source, entry.Summary, entry.Detail = string(msg.Component), "new data", msg.Describe()
	case events.UpdatedDataMsg:
		entry.Source, entry.Summary, entry.Detail = string(msg.Component), "updated data", msg.Describe()
	case events.EditCancelledMsg:
		entry.Source, entry.Summary, entry.Detail = string(msg.Component), "edit cancelled", msg.Describe()
		entry.Level = LevelWarn
	case events.RepositorySelectedMsg:
		entry.Source, entry.Summary, entry.Detail = string(msg.Component), "repository", msg.Describe()
	case events.AllResultsMsg:
		entry.Source, entry.Summary, entry.Detail = string(msg.Component), "all results", msg.Describe()
	case events.LookupErrorMsg:
		entry.Source, entry.Summary, entry.Detail = string(msg.Component), "lookup failed", msg.Describe()
		entry.Level = LevelError
	default:
		return false
	}
	m.Append(entry)
	return true
}

// SetSize resizes the viewport while keeping the header and border intact.
func (m *Model) SetSize(width, height int) {
	width = max(width, 4)
	height = max(height, 3)
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	m.viewport.SetWidth(max(1, width-2))
	m.viewport.SetHeight(max(1, height-3))
	m.refreshContent()
}

// View renders the bordered viewport.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.styles.Header.Render(fmt.Sprintf("Events (%d)", len(m.entries)))
	body := lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
	return m.styles.Frame.Width(m.width).Height(m.height).Render(body)
}

// Append inserts a new entry at the top of the log.
func (m *Model) Append(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = m.now()
	}
	if entry.Source == "" {
		entry.Source = "tea"
	}
	m.entries = append([]Entry{entry}, m.entries...)
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[:m.maxEntries]
	}
	m.refreshContent()
	m.viewport.SetYOffset(0)
}

// Entries returns the logged entries, newest first.
func (m *Model) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Clear drops all logged entries.
func (m *Model) Clear() {
	m.entries = nil
	m.refreshContent()
}

func (m *Model) refreshContent() {
	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		lines = append(lines, m.renderEntry(entry))
	}
	content := strings.Join(lines, "\n")
	if content == "" {
		content = m.styles.Timestamp.Render("No events yet")
	}
	m.viewport.SetContent(content)
}

func (m *Model) renderEntry(entry Entry) string {
	ts := m.styles.Timestamp.Render(entry.Timestamp.Format("15:04:05.000"))
	source := m.styles.Source.Render("[" + entry.Source + "]")
	msg := entry.Summary
	if entry.Detail != "" {
		msg += ": " + entry.Detail
	}
	switch entry.Level {
	case LevelWarn:
		msg = m.styles.Warn.Render(msg)
	case LevelError:
		msg = m.styles.Error.Render(msg)
	default:
		msg = m.styles.Info.Render(msg)
	}
	return ts + " " + source + " " + msg
}
