package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/store"
)

// SourceOptions choose where names come from.
type SourceOptions struct {
	Demo bool
}

// AddSourceArgs registers the --demo flag.
func AddSourceArgs(cmd *cobra.Command, o *SourceOptions) {
	cmd.Flags().BoolVar(&o.Demo, "demo", false,
		"Use the bundled sample names instead of the local store.")
}

// Load returns the name service. The store is nil in demo mode.
func (o *SourceOptions) Load(cfg store.Config, opts ...store.Option) (repository.Service, *store.Store, error) {
	if o.Demo {
		return repository.Sample(), nil, nil
	}
	s, err := store.Load(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}
