package taxoselect

import (
	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/taxon"
)

// loadCatalog rebuilds the repository list for the configured level and
// selects the fixed or default repository. RepositorySelected fires once.
func (m *Model) loadCatalog(requested string) {
	m.configErr = nil
	m.noRepository = false

	m.svc.Configure(m.opts.Repositories)
	list, err := m.svc.RepositoriesForLevel(m.opts.Level)
	if err != nil {
		m.configErr = &repository.ConfigError{
			Kind:    repository.UnknownLevel,
			Message: "level " + m.opts.Level + " has no repositories",
			Err:     err,
		}
		m.noRepository = true
		list = nil
		m.log.Warn().Err(err).Str("level", m.opts.Level).Msg("catalog unavailable")
	}
	if m.opts.AllowFreeEntry {
		list = append(list, taxon.FreeEntryDescriptor())
	}
	m.catalog = list

	if fixed := m.opts.FixedRepository; fixed != "" {
		d, err := repository.EnforceFixed(m.catalog, fixed)
		if err != nil {
			m.configErr = err
			m.noRepository = true
			m.log.Warn().Err(err).Str("repository", fixed).Msg("forcing repository")
		}
		m.selectDescriptor(d, repository.ExactMatch)
		return
	}

	d, decision := repository.ResolveDefault(m.catalog, requested)
	if decision == repository.NoneAvailable {
		m.markEmptyCatalog()
		return
	}
	m.selectDescriptor(d, decision)
}

func (m *Model) markEmptyCatalog() {
	m.current = taxon.Descriptor{}
	m.noRepository = true
	if m.configErr == nil {
		m.configErr = &repository.ConfigError{
			Kind:    repository.EmptyCatalog,
			Message: "no repository available for level " + m.opts.Level,
		}
	}
	m.log.Warn().Str("level", m.opts.Level).Msg("no repository available")
}

func (m *Model) selectDescriptor(d taxon.Descriptor, decision repository.Decision) {
	m.current = d
	m.log.Debug().
		Str("repository", d.Value).
		Stringer("decision", decision).
		Msg("repository selected")
	m.listener.RepositorySelected(d.Value)
}
