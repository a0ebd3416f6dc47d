package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/taxoselect/pkg/taxon"
)

// SetSize configures the component dimensions.
func (m *Model) SetSize(width, height int) {
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 12
	}
	m.width = width
	m.height = height
	m.input.SetWidth(max(10, m.innerWidth()-4))
}

func (m *Model) innerWidth() int {
	frame := m.styles.Frame.GetHorizontalFrameSize()
	return max(12, m.width-frame)
}

// View renders the picker and positions the input cursor.
func (m *Model) View() (string, *tea.Cursor) {
	var lines []string
	if m.core.Options().ShowRepositoryPicker {
		lines = append(lines, m.renderRepositories())
	}
	inputRow := len(lines)
	lines = append(lines, m.input.View())
	if status := m.renderStatus(); status != "" {
		lines = append(lines, status)
	}
	lines = append(lines, m.renderSuggestions()...)

	frame := m.styles.Frame
	if !m.focused {
		frame = m.styles.FrameBlurred
	}
	box := frame.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	var cursor *tea.Cursor
	if c := m.input.Cursor(); c != nil && m.focused {
		clone := *c
		clone.Position.Y += inputRow + 1
		clone.Position.X += 1 + frame.GetPaddingLeft()
		cursor = &clone
	}
	return box, cursor
}

func (m *Model) renderRepositories() string {
	parts := []string{m.styles.Label.Render("Repository:")}
	current := m.core.Repository().Value
	for _, d := range m.core.Catalog() {
		label := taxon.FormatRepository(d)
		if d.Value == current {
			parts = append(parts, m.styles.Current.Render("["+label+"]"))
			continue
		}
		parts = append(parts, m.styles.Repository.Render(label))
	}
	if fixed := m.core.Options().FixedRepository; fixed != "" && current == fixed {
		if _, ok := taxon.FindDescriptor(m.core.Catalog(), fixed); !ok {
			parts = append(parts, m.styles.Current.Render("["+fixed+"]"))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderStatus() string {
	switch {
	case m.core.ConfigError() != nil:
		return m.styles.Error.Render(truncate.StringWithTail(m.core.ConfigError().Error(), uint(m.innerWidth()), "…"))
	case !m.core.Enabled():
		return m.styles.Status.Render("disabled")
	case m.core.IsLoading():
		return m.styles.Status.Render("loading…")
	case m.core.IsSearching():
		return m.styles.Status.Render("searching…")
	case m.core.IsEditing():
		id := "-"
		if occ := m.core.EditingOccurrence(); occ != nil {
			id = fmt.Sprint(*occ)
		}
		return m.styles.Status.Render("editing occurrence " + id + " (esc to cancel)")
	}
	return ""
}

func (m *Model) renderSuggestions() []string {
	if !m.core.PanelOpen() {
		return nil
	}
	cands := m.core.Candidates()
	start := 0
	if m.highlight >= m.maxSuggestions {
		start = m.highlight - m.maxSuggestions + 1
	}
	end := min(len(cands), start+m.maxSuggestions)

	width := uint(max(4, m.innerWidth()-2))
	rows := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		label := truncate.StringWithTail(taxon.FormatCandidate(&cands[i]), width, "…")
		style := m.styles.Candidate
		if cands[i].IsSynonym {
			style = m.styles.Synonym
		}
		if i == m.highlight {
			style = m.styles.Highlight
		}
		rows = append(rows, "  "+style.Render(label))
	}
	if hidden := len(cands) - end; hidden > 0 {
		rows = append(rows, m.styles.Status.Render(fmt.Sprintf("  … %d more", hidden)))
	}
	return rows
}
