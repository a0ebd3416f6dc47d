package options

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/taxoselect/pkg/store"
	"tableflip.dev/taxoselect/pkg/taxon"
	"tableflip.dev/taxoselect/pkg/taxoselect"
)

// WidgetOptions mirror taxoselect.Options as flags.
type WidgetOptions struct {
	Level                      string
	Repositories               []string
	DefaultRepository          string
	FixedRepository            string
	NoFreeEntry                bool
	FreeTextOnNoResults        bool
	NoSuggestionPanel          bool
	KeepInput                  bool
	AutoSelect                 bool
	HideRepositoryPicker       bool
	RestoreRepositoryAfterEdit bool
	EmitOnBlur                 bool
	KeepRawData                bool
	SearchOnEditPrefill        bool
	Placeholder                string
	Debounce                   time.Duration

	flags *pflag.FlagSet
}

// AddWidgetArgs registers the picker flags.
func AddWidgetArgs(cmd *cobra.Command, o *WidgetOptions) {
	f := cmd.Flags()
	o.flags = f
	f.StringVarP(&o.Level, "level", "l", "idiotaxon",
		"Classification level: idiotaxon, synusy, microcenosis, phytocenosis, sigmetum or geosigmetum.")
	f.StringSliceVar(&o.Repositories, "repositories", nil,
		"Repositories offered by the picker, as value or value=Label. Defaults to every repository of the level.")
	f.StringVarP(&o.DefaultRepository, "repository", "r", "",
		"Repository selected on start.")
	f.StringVar(&o.FixedRepository, "fixed-repository", "",
		"Force a repository and hide the choice.")
	f.BoolVar(&o.NoFreeEntry, "no-free-entry", false,
		"Do not offer the Other/unknown repository.")
	f.BoolVar(&o.FreeTextOnNoResults, "free-text-on-no-results", false,
		"Commit typed text when a search finds nothing.")
	f.BoolVar(&o.NoSuggestionPanel, "no-suggestions", false,
		"Emit whole result lists instead of showing suggestions.")
	f.BoolVar(&o.KeepInput, "keep-input", false,
		"Keep the text after a selection.")
	f.BoolVar(&o.AutoSelect, "auto-select", false,
		"Select a result automatically when it is the only one.")
	f.BoolVar(&o.HideRepositoryPicker, "hide-repositories", false,
		"Hide the repository row.")
	f.BoolVar(&o.RestoreRepositoryAfterEdit, "restore-repository", false,
		"Return to the previous repository when an edit ends.")
	f.BoolVar(&o.EmitOnBlur, "emit-on-blur", false,
		"Commit unstructured text when the picker loses focus.")
	f.BoolVar(&o.KeepRawData, "raw", false,
		"Keep the raw repository document on every record.")
	f.BoolVar(&o.SearchOnEditPrefill, "search-on-edit", false,
		"Search the prefilled name when an edit starts.")
	f.StringVar(&o.Placeholder, "placeholder", "",
		"Input placeholder.")
	f.DurationVar(&o.Debounce, "debounce", taxoselect.DefaultDebounce,
		"Delay between the last keystroke and the search.")
}

// ApplyConfig fills the options the user did not set on the command line
// from cfg.
func (o *WidgetOptions) ApplyConfig(cfg store.Config) {
	if cfg == nil {
		return
	}
	if !o.changed("level") && cfg.Level() != "" {
		o.Level = cfg.Level()
	}
	if !o.changed("repository") && cfg.DefaultRepository() != "" {
		o.DefaultRepository = cfg.DefaultRepository()
	}
	if !o.changed("repositories") && len(cfg.Repositories()) > 0 {
		o.Repositories = cfg.Repositories()
	}
}

func (o *WidgetOptions) changed(name string) bool {
	return o.flags != nil && o.flags.Changed(name)
}

// Options converts the flags into picker options.
func (o *WidgetOptions) Options() taxoselect.Options {
	opts := taxoselect.DefaultOptions()
	opts.Level = o.Level
	opts.Repositories = ParseDescriptors(o.Repositories)
	opts.DefaultRepository = o.DefaultRepository
	opts.FixedRepository = o.FixedRepository
	opts.AllowFreeEntry = !o.NoFreeEntry
	opts.AllowFreeTextOnNoResults = o.FreeTextOnNoResults
	opts.ShowSuggestionPanel = !o.NoSuggestionPanel
	opts.ClearOnSelect = !o.KeepInput
	opts.AutoSelectSingleResult = o.AutoSelect
	opts.ShowRepositoryPicker = !o.HideRepositoryPicker && o.FixedRepository == ""
	opts.RestoreRepositoryAfterEdit = o.RestoreRepositoryAfterEdit
	opts.EmitOnBlurIfUnstructured = o.EmitOnBlur
	opts.KeepRawData = o.KeepRawData
	opts.SearchOnEditPrefill = o.SearchOnEditPrefill
	opts.Placeholder = o.Placeholder
	if o.Debounce > 0 {
		opts.Debounce = o.Debounce
	}
	return opts
}

// ParseDescriptors reads "value" or "value=Label" items.
func ParseDescriptors(items []string) []taxon.Descriptor {
	out := make([]taxon.Descriptor, 0, len(items))
	for _, item := range items {
		value, label, _ := strings.Cut(strings.TrimSpace(item), "=")
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		out = append(out, taxon.Descriptor{Value: value, Label: strings.TrimSpace(label)})
	}
	return out
}
