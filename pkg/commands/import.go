package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/taxoselect/pkg/commands/options"
	"tableflip.dev/taxoselect/pkg/runner/importer"
	"tableflip.dev/taxoselect/pkg/store"
)

func addImport(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	i := &importer.Import{}

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "import names into the local store",
		Example: `
taxoselect import --sample
taxoselect import names.json
taxoselect import bdtxa.json --repository bdtxa
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				i.Path = args[0]
			}
			if i.Path == "" && !i.Sample {
				return oo.HandleError(errors.New("nothing to import, give a file or --sample"))
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := store.Load(cfg, store.WithLogger(logger()))
			if err != nil {
				return oo.HandleError(err)
			}
			i.Target = s
			i.Out = cmd.OutOrStdout()
			return oo.HandleError(i.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)
	cmd.Flags().StringVarP(&i.Repository, "repository", "r", "", "Repository of a plain name list.")
	cmd.Flags().BoolVar(&i.Sample, "sample", false, "Import the bundled sample names.")

	topLevel.AddCommand(cmd)
}
