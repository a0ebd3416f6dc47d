package taxoselect

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taxoselect/pkg/taxon"
)

type editSession struct {
	active       bool
	session      uint64
	occurrenceID *int
	savedRepo    string
	savedHint    string
	clearOnStop  bool
}

// StartEdit opens an edit session for rec, cancelling the active one first.
// The input is prefilled with the record's name and author.
func (m *Model) StartEdit(rec taxon.Record) tea.Cmd {
	if m.closed {
		return nil
	}
	if m.edit.active {
		m.CancelEdit()
	}

	m.editSeq++
	m.edit = editSession{
		active:    true,
		session:   m.editSeq,
		savedRepo: m.current.Value,
		savedHint: m.placeholder,
	}
	if rec.OccurrenceID != nil {
		id := *rec.OccurrenceID
		m.edit.occurrenceID = &id
	}
	m.log.Debug().
		Interface("occurrence", m.edit.occurrenceID).
		Str("repository", rec.Repository).
		Msg("edit started")

	m.SetRepository(rec.Repository)
	m.placeholder = "Edit " + taxon.DisplayName(&rec)

	m.pipe.invalidate()
	m.candidates = nil
	m.input = taxon.DisplayName(&rec)
	if m.opts.SearchOnEditPrefill && m.enabled {
		return m.rearm()
	}
	return nil
}

// StopEdit ends the edit session without emitting anything.
func (m *Model) StopEdit() {
	if !m.edit.active {
		return
	}
	m.stopEdit()
}

func (m *Model) stopEdit() {
	session := m.edit
	m.edit = editSession{}

	m.placeholder = session.savedHint
	if m.opts.RestoreRepositoryAfterEdit && session.savedRepo != "" && session.savedRepo != m.current.Value {
		m.SetRepository(session.savedRepo)
	}
	m.pipe.invalidate()
	m.panelOpen = false
	m.candidates = nil
	if session.clearOnStop {
		m.input = ""
	}
	m.log.Debug().Interface("occurrence", session.occurrenceID).Msg("edit stopped")
}

// CancelEdit emits the cancellation of the active session, stops it and
// clears the input.
func (m *Model) CancelEdit() {
	if !m.edit.active {
		return
	}
	m.listener.EditCancelled(EditCancellation{OccurrenceID: m.EditingOccurrence()})
	m.stopEdit()
	m.input = ""
}

// Commit is the enter key. With the free-entry repository, or when free text
// is allowed and there are no candidates, the typed text is emitted as a free
// record. Blank text outside an edit session emits nil.
func (m *Model) Commit() tea.Cmd {
	if !m.enabled || m.closed || !m.freeTextAllowed() {
		return nil
	}
	text := strings.TrimSpace(m.input)
	m.pipe.invalidate()

	if m.edit.active {
		rec := m.freeRecord(text)
		rec.WithOccurrence(m.edit.occurrenceID)
		m.listener.UpdatedData(rec)
		m.stopEdit()
		return nil
	}

	if text == "" {
		m.listener.NewData(nil)
		return nil
	}
	m.listener.NewData(m.freeRecord(text))
	if m.opts.ClearOnSelect {
		m.input = ""
	}
	return nil
}

// Blur commits unstructured text when EmitOnBlurIfUnstructured is set.
func (m *Model) Blur() tea.Cmd {
	if !m.opts.EmitOnBlurIfUnstructured || m.inputBlank() {
		return nil
	}
	return m.Commit()
}

func (m *Model) freeTextAllowed() bool {
	if m.current.IsFreeEntry() {
		return true
	}
	return m.opts.AllowFreeTextOnNoResults && len(m.candidates) == 0
}

func (m *Model) freeRecord(text string) *taxon.Record {
	rec := taxon.NewFreeRecord(text)
	rec.ValidOccurrence = rec.SelfValidForm()
	return &rec
}
