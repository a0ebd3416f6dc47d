package taxoselect

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taxoselect/pkg/repository"
)

// SetRepository selects id from the catalog. A miss falls back to the
// free-entry repository when allowed, then to the first entry; an empty
// catalog raises the "no repository available" flag. The returned decision
// tells which branch fired.
func (m *Model) SetRepository(id string) repository.Decision {
	d, decision := repository.Choose(m.catalog, id, m.opts.AllowFreeEntry)
	if decision == repository.NoneAvailable {
		m.markEmptyCatalog()
		return decision
	}
	m.selectDescriptor(d, decision)
	m.pipe.forget()
	return decision
}

// SwitchRepository is the user facing repository change. Outside an edit
// session it drops the candidates and searches the current text again in the
// new repository. A fixed repository cannot be switched.
func (m *Model) SwitchRepository(id string) tea.Cmd {
	if m.opts.FixedRepository != "" {
		m.log.Debug().Str("repository", id).Msg("switch ignored, repository is fixed")
		return nil
	}
	if id == m.current.Value {
		return nil
	}
	m.SetRepository(id)
	if m.edit.active {
		return nil
	}
	m.candidates = nil
	m.panelOpen = false
	return m.rearm()
}
