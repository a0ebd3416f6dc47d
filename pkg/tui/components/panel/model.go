// Package panel renders the last record the picker produced.
package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/taxoselect/pkg/taxon"
	"tableflip.dev/taxoselect/pkg/tui/theme"
)

// Model renders a titled panel with one line per record field.
type Model struct {
	title      string
	lines      []string
	width      int
	frameStyle lipgloss.Style
	titleStyle lipgloss.Style
	bodyStyle  lipgloss.Style
}

// New returns an empty panel.
func New(th theme.PanelTheme) Model {
	return Model{
		frameStyle: th.Frame,
		titleStyle: th.Title,
		bodyStyle:  th.Body,
	}
}

// SetWidth fixes the rendered width. Zero lets the content decide.
func (m *Model) SetWidth(width int) { m.width = width }

// SetContent updates the panel title and body lines.
func (m *Model) SetContent(title string, lines []string) {
	m.title = title
	m.lines = lines
}

// SetRecord shows rec under title. A nil record renders as an empty commit.
func (m *Model) SetRecord(title string, rec *taxon.Record) {
	m.SetContent(title, RecordLines(rec))
}

// Reset clears panel content.
func (m *Model) Reset() {
	m.title = ""
	m.lines = nil
}

// View returns the rendered panel and its height in lines.
func (m Model) View() (string, int) {
	var content []string
	if m.title != "" {
		content = append(content, m.titleStyle.Render(m.title))
	}
	for _, line := range m.lines {
		content = append(content, m.bodyStyle.Render(line))
	}
	frame := m.frameStyle
	if m.width > 0 {
		frame = frame.Width(m.width)
	}
	view := frame.Render(strings.Join(content, "\n"))
	return view, lipgloss.Height(view)
}

// RecordLines lists the fields of rec worth showing.
func RecordLines(rec *taxon.Record) []string {
	if rec == nil {
		return []string{"(empty)"}
	}
	lines := []string{
		"name:       " + taxon.DisplayName(rec),
		"repository: " + rec.Repository,
	}
	if rec.OccurrenceID != nil {
		lines = append(lines, fmt.Sprintf("occurrence: %d", *rec.OccurrenceID))
	}
	if rec.ExternalNameID != "" {
		lines = append(lines, "name id:    "+rec.ExternalNameID)
	}
	if rec.ExternalTaxonID != "" {
		lines = append(lines, "taxon id:   "+rec.ExternalTaxonID)
	}
	if rec.Rank != "" {
		lines = append(lines, "rank:       "+rec.Rank)
	}
	if rec.IsSynonym {
		lines = append(lines, "synonym:    yes")
	}
	if v := rec.ValidOccurrence; v != nil && (rec.IsSynonym || v.ExternalNameID != rec.ExternalNameID) {
		lines = append(lines, "valid:      "+taxon.DisplayName(v))
	}
	return lines
}
