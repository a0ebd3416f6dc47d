package taxoselect

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/rs/zerolog"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/taxon"
)

// Model is the type-ahead resolution state machine. It owns the repository
// selection, the debounced search pipeline, synonym resolution and the edit
// session. A Model is driven from a single goroutine: the host calls its
// methods and feeds the messages produced by returned commands back into
// Update.
type Model struct {
	svc      repository.Service
	listener Listener
	opts     Options
	log      zerolog.Logger
	tick     Ticker

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	catalog      []taxon.Descriptor
	current      taxon.Descriptor
	configErr    error
	noRepository bool

	input       string
	placeholder string
	enabled     bool

	pipe       pipeline
	candidates []taxon.Record
	panelOpen  bool

	edit    editSession
	editSeq uint64
}

// New builds a Model around svc. Emissions go to listener, which may be nil.
// Call Init before use.
func New(svc repository.Service, listener Listener, opts Options) *Model {
	if listener == nil {
		listener = Funcs{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		svc:         svc,
		listener:    listener,
		opts:        opts,
		log:         opts.Logger.With().Str("component", "taxoselect").Logger(),
		tick:        opts.ticker(),
		ctx:         ctx,
		cancel:      cancel,
		placeholder: opts.Placeholder,
		enabled:     !opts.Disabled,
	}
}

// Init loads the repository catalog, selects the initial repository and
// applies the starting value.
func (m *Model) Init() tea.Cmd {
	requested := m.opts.DefaultRepository
	if v := m.opts.Value; v != nil && v.Repository != "" {
		requested = v.Repository
	}
	m.loadCatalog(requested)
	if v := m.opts.Value; v != nil {
		m.input = taxon.DisplayName(v)
	}
	return nil
}

// Update consumes the messages produced by the Model's own commands.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.closed {
		return nil
	}
	switch msg := msg.(type) {
	case debounceMsg:
		return m.handleDebounce(msg)
	case searchResultMsg:
		return m.handleResults(msg)
	case validFormMsg:
		m.handleValidForm(msg)
	}
	return nil
}

// Close releases in-flight lookups and pending timers. Later messages are
// ignored.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.pipe.invalidate()
	m.cancel()
	m.log.Debug().Msg("closed")
}

// Input returns the current input text.
func (m *Model) Input() string { return m.input }

// Placeholder returns the input hint.
func (m *Model) Placeholder() string {
	if m.placeholder != "" {
		return m.placeholder
	}
	if m.current.Value == "" {
		return "No repository available"
	}
	if m.current.IsFreeEntry() {
		return "Type a name"
	}
	return fmt.Sprintf("Search %s", m.svc.DescribeRepository(m.current.Value))
}

// Candidates returns a copy of the candidate buffer.
func (m *Model) Candidates() []taxon.Record { return cloneRecords(m.candidates) }

// PanelOpen reports whether the suggestion panel should be shown.
func (m *Model) PanelOpen() bool { return m.panelOpen && len(m.candidates) > 0 }

// ClosePanel hides the suggestion panel without dropping candidates.
func (m *Model) ClosePanel() { m.panelOpen = false }

// OpenPanel shows the suggestion panel when candidates exist.
func (m *Model) OpenPanel() { m.panelOpen = len(m.candidates) > 0 }

// Catalog returns the repositories the user can choose from.
func (m *Model) Catalog() []taxon.Descriptor {
	return append([]taxon.Descriptor(nil), m.catalog...)
}

// Repository returns the current repository.
func (m *Model) Repository() taxon.Descriptor { return m.current }

// IsSearching reports whether input changed and results are not applied yet.
func (m *Model) IsSearching() bool { return m.pipe.searching }

// IsLoading reports whether a repository lookup is in flight.
func (m *Model) IsLoading() bool { return m.pipe.loading }

// IsEditing reports whether an edit session is active.
func (m *Model) IsEditing() bool { return m.edit.active }

// EditingOccurrence returns the occurrence id of the active edit session.
func (m *Model) EditingOccurrence() *int {
	if !m.edit.active || m.edit.occurrenceID == nil {
		return nil
	}
	id := *m.edit.occurrenceID
	return &id
}

// ConfigError returns the last configuration problem, if any.
func (m *Model) ConfigError() error { return m.configErr }

// NoRepositoryAvailable reports the "no valid repository" error state.
func (m *Model) NoRepositoryAvailable() bool { return m.noRepository }

// Enabled reports whether the widget accepts input.
func (m *Model) Enabled() bool { return m.enabled }

// Options returns the options the Model was built with.
func (m *Model) Options() Options { return m.opts }

// SetEnabled enables or disables the widget. Disabling drops pending
// searches.
func (m *Model) SetEnabled(enabled bool) {
	if m.enabled == enabled {
		return
	}
	m.enabled = enabled
	if !enabled {
		m.pipe.invalidate()
	}
	m.log.Debug().Bool("enabled", enabled).Msg("enabled changed")
}

// Reset clears the input, the candidates and any edit session. No edit
// cancellation is emitted.
func (m *Model) Reset() {
	m.pipe.invalidate()
	if m.edit.active {
		m.stopEdit()
	}
	m.input = ""
	m.candidates = nil
	m.panelOpen = false
	m.log.Debug().Msg("reset")
}

// SetLevel reloads the catalog for level.
func (m *Model) SetLevel(level string) {
	m.opts.Level = level
	m.reloadCatalog()
}

// SetFixedRepository forces id, or lifts the constraint when id is empty.
func (m *Model) SetFixedRepository(id string) {
	m.opts.FixedRepository = id
	m.reloadCatalog()
}

func (m *Model) reloadCatalog() {
	m.pipe.invalidate()
	m.candidates = nil
	m.panelOpen = false
	m.loadCatalog(m.opts.DefaultRepository)
}

func (m *Model) inputBlank() bool {
	return strings.TrimSpace(m.input) == ""
}
