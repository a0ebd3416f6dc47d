package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/taxoselect/pkg/commands/options"
	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/store"
)

var (
	lo = &options.LogOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "taxoselect",
		Short: base.Wrap80("Look up botanical names and vegetation units from the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
	options.AddLogArgs(cmd, lo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addSearch(topLevel)
	addRepos(topLevel)
	addImport(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
}

func logger() zerolog.Logger {
	return lo.Logger(os.Stderr)
}

// names loads the configuration and the name service it points at.
func names(so *options.SourceOptions, log zerolog.Logger) (store.Config, repository.Service, *store.Store, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	svc, s, err := so.Load(cfg, store.WithLogger(log))
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, svc, s, nil
}
