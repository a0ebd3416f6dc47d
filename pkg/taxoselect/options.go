package taxoselect

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/rs/zerolog"

	"tableflip.dev/taxoselect/pkg/taxon"
)

// DefaultDebounce is the quiet interval between the last keystroke and the
// search it triggers.
const DefaultDebounce = 400 * time.Millisecond

// Ticker schedules a message after d. tea.Tick is the production ticker.
type Ticker func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Options configure a Model. Every field is a plain input; use
// DefaultOptions for the usual starting point.
type Options struct {
	// Level is the classification tier that selects applicable repositories.
	Level string
	// Repositories is the host supplied repository list.
	Repositories []taxon.Descriptor
	// DefaultRepository is selected at start when available.
	DefaultRepository string
	// FixedRepository, when set, forces the repository.
	FixedRepository string
	// AllowFreeEntry appends the free-text repository to the catalog.
	AllowFreeEntry bool
	// AllowFreeTextOnNoResults lets Commit emit free text when the
	// candidate buffer is empty.
	AllowFreeTextOnNoResults bool
	// ShowSuggestionPanel keeps results for internal selection. When false
	// results are surfaced wholesale through Listener.AllResults.
	ShowSuggestionPanel bool
	// ClearOnSelect clears the input once a candidate is selected.
	ClearOnSelect bool
	// AutoSelectSingleResult selects a lone search result automatically.
	AutoSelectSingleResult bool
	// ShowRepositoryPicker lets the user switch repositories.
	ShowRepositoryPicker bool
	// Value prefills the input at start.
	Value *taxon.Record
	// RestoreRepositoryAfterEdit restores the pre-edit repository on stop.
	RestoreRepositoryAfterEdit bool
	// EmitOnBlurIfUnstructured commits free text when the input loses focus.
	EmitOnBlurIfUnstructured bool
	// Disabled starts the widget disabled.
	Disabled bool
	// KeepRawData asks the repository to keep raw payloads on records.
	KeepRawData bool
	// SearchOnEditPrefill searches the text prefilled by StartEdit.
	SearchOnEditPrefill bool
	// Placeholder overrides the generated "Search <repository>" hint.
	Placeholder string
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
	// Ticker overrides tea.Tick.
	Ticker Ticker
	// Logger receives debug output. The zero value discards.
	Logger zerolog.Logger
}

// DefaultOptions returns the options a typical host starts from.
func DefaultOptions() Options {
	return Options{
		Level:                "idiotaxon",
		AllowFreeEntry:       true,
		ShowSuggestionPanel:  true,
		ClearOnSelect:        true,
		ShowRepositoryPicker: true,
		Debounce:             DefaultDebounce,
		Logger:               zerolog.Nop(),
	}
}

func (o Options) debounce() time.Duration {
	if o.Debounce > 0 {
		return o.Debounce
	}
	return DefaultDebounce
}

func (o Options) ticker() Ticker {
	if o.Ticker != nil {
		return o.Ticker
	}
	return tea.Tick
}
