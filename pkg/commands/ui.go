package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taxoselect/pkg/commands/options"
	"tableflip.dev/taxoselect/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	wo := &options.WidgetOptions{}
	so := &options.SourceOptions{}
	var (
		query string
		full  bool
	)
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the interactive taxon picker",
		Example: `
taxoselect ui
taxoselect ui --level synusy --repository baseveg
taxoselect ui --demo --query "quercus"
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := lo.FileLogger("taxoselect.log")
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			cfg, svc, s, err := names(so, log)
			if err != nil {
				return err
			}
			wo.ApplyConfig(cfg)

			i := ui.UI{
				Names:  svc,
				Widget: wo.Options(),
				Log:    log,
				Query:  query,
				Full:   full,
			}
			if s != nil {
				i.Watcher = s
			}
			return i.Do(cmd.Context())
		},
	}
	options.AddWidgetArgs(cmd, wo)
	options.AddSourceArgs(cmd, so)
	cmd.Flags().StringVarP(&query, "query", "q", "", "Text typed into the picker on start.")
	cmd.Flags().BoolVar(&full, "full", false, "Use the whole terminal.")

	topLevel.AddCommand(cmd)
}
