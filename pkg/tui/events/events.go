package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taxoselect/pkg/taxon"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

func recordLabel(rec *taxon.Record) string {
	if rec == nil {
		return "<none>"
	}
	return taxon.DisplayName(rec)
}

func occurrenceLabel(id *int) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}

// NewDataMsg carries a record the picker resolved. Record is nil when an
// empty commit aborted.
type NewDataMsg struct {
	Component ComponentID
	Record    *taxon.Record
}

// Describe renders the record for logs.
func (m NewDataMsg) Describe() string {
	if m.Record == nil {
		return `record:<none>`
	}
	valid := ""
	if m.Record.ValidOccurrence != nil {
		valid = taxon.DisplayName(m.Record.ValidOccurrence)
	}
	return fmt.Sprintf(`repository:%q name:%q synonym:%t valid:%q`,
		m.Record.Repository, recordLabel(m.Record), m.Record.IsSynonym, valid)
}

// UpdatedDataMsg carries the record replacing an edited occurrence.
type UpdatedDataMsg struct {
	Component ComponentID
	Record    *taxon.Record
}

// Describe renders the update for logs.
func (m UpdatedDataMsg) Describe() string {
	var id *int
	if m.Record != nil {
		id = m.Record.OccurrenceID
	}
	return fmt.Sprintf(`occurrence:%s name:%q`, occurrenceLabel(id), recordLabel(m.Record))
}

// EditCancelledMsg announces that an edit session ended without a result.
type EditCancelledMsg struct {
	Component    ComponentID
	OccurrenceID *int
}

// Describe implements the logging helper.
func (m EditCancelledMsg) Describe() string {
	return fmt.Sprintf(`occurrence:%s`, occurrenceLabel(m.OccurrenceID))
}

// RepositorySelectedMsg fires whenever the picker selects a repository.
type RepositorySelectedMsg struct {
	Component  ComponentID
	Repository string
}

// Describe implements the logging helper.
func (m RepositorySelectedMsg) Describe() string {
	return fmt.Sprintf(`repository:%q`, m.Repository)
}

// AllResultsMsg carries a whole result list when the picker runs without
// its suggestion panel.
type AllResultsMsg struct {
	Component ComponentID
	Records   []taxon.Record
}

// Describe implements the logging helper.
func (m AllResultsMsg) Describe() string {
	first := ""
	if len(m.Records) > 0 {
		first = taxon.DisplayName(&m.Records[0])
	}
	return fmt.Sprintf(`count:%d first:%q`, len(m.Records), first)
}

// LookupErrorMsg reports a failed repository lookup.
type LookupErrorMsg struct {
	Component ComponentID
	Err       error
}

// Describe implements the logging helper.
func (m LookupErrorMsg) Describe() string {
	return fmt.Sprintf(`error:%q`, m.Err)
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"blur"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}
