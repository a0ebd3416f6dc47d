package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taxoselect/pkg/commands/options"
	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/runner/repos"
)

func addRepos(topLevel *cobra.Command) {
	so := &options.SourceOptions{}
	oo := &options.OutputOptions{}
	r := &repos.Repos{}
	var noFreeEntry bool

	cmd := &cobra.Command{
		Use:   "repos",
		Short: "list the repositories of each level",
		Example: `
taxoselect repos
taxoselect repos --level synusy --default pvf2
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, _, err := names(so, logger())
			if err != nil {
				return oo.HandleError(err)
			}
			if !cmd.Flags().Changed("default") {
				r.Default = cfg.DefaultRepository()
			}
			if configured := options.ParseDescriptors(cfg.Repositories()); len(configured) > 0 {
				svc.Configure(configured)
			}
			r.Names = svc
			r.Levels = repository.DefaultLevels()
			r.AllowFreeEntry = !noFreeEntry
			r.JSON = oo.JSON
			r.Out = cmd.OutOrStdout()
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	options.AddSourceArgs(cmd, so)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().StringVarP(&r.Level, "level", "l", "", "Only show this level.")
	cmd.Flags().StringVar(&r.Default, "default", "", "Repository a picker would prefer.")
	cmd.Flags().StringVar(&r.Fixed, "fixed", "", "Repository a picker would be forced to.")
	cmd.Flags().BoolVar(&noFreeEntry, "no-free-entry", false, "Leave out the Other/unknown repository.")

	topLevel.AddCommand(cmd)
}
