package taxoselect

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taxoselect/pkg/taxon"
)

// ticket remembers how a finalized record must be emitted. It is captured at
// selection time so a late valid form lookup emits the way the selection
// would have.
type ticket struct {
	editing bool
	session uint64
}

type validFormMsg struct {
	record *taxon.Record
	ticket ticket
	valid  taxon.Record
	err    error
}

// finalize attaches the valid form and emits the record. Retained names are
// their own valid form; synonyms without one are resolved asynchronously.
func (m *Model) finalize(rec *taxon.Record, t ticket) tea.Cmd {
	switch {
	case !rec.IsSynonym:
		rec.ValidOccurrence = rec.SelfValidForm()
	case rec.ValidOccurrence != nil:
	default:
		return m.resolveValidForm(rec, t)
	}
	m.emit(rec, t)
	return nil
}

// resolveValidForm looks the accepted name up. The lookup runs on the
// Model's base context only: keystrokes do not cancel it, Close does.
func (m *Model) resolveValidForm(rec *taxon.Record, t ticket) tea.Cmd {
	ctx := m.ctx
	svc := m.svc
	m.log.Debug().
		Str("repository", rec.Repository).
		Str("name_id", rec.ExternalNameID).
		Str("taxon_id", rec.ExternalTaxonID).
		Msg("resolving valid form")

	return func() tea.Msg {
		msg := validFormMsg{record: rec, ticket: t}
		raw, err := svc.FetchValidForm(ctx, rec.Repository, rec.ExternalNameID, rec.ExternalTaxonID)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.valid, msg.err = svc.StandardizeValidForm(rec.Repository, raw)
		return msg
	}
}

func (m *Model) handleValidForm(msg validFormMsg) {
	rec := msg.record
	if msg.err != nil {
		err := fmt.Errorf("resolve valid form of %q: %w", rec.Name, msg.err)
		m.log.Warn().Err(err).Msg("synonym dropped")
		m.listener.LookupError(err)
		return
	}
	valid := msg.valid
	valid.Repository = rec.Repository
	valid.ValidOccurrence = nil
	rec.ValidOccurrence = &valid
	m.emit(rec, msg.ticket)
}

// emit hands the record to the host. An edit session is stopped after the
// update is emitted, and only if it is still the session the record was
// selected in.
func (m *Model) emit(rec *taxon.Record, t ticket) {
	if !t.editing {
		m.listener.NewData(rec.Clone())
		return
	}
	m.listener.UpdatedData(rec.Clone())
	if m.edit.active && m.edit.session == t.session {
		m.stopEdit()
	}
}
