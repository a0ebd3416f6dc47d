package options

import (
	"github.com/spf13/cobra"
)

// InteractiveOptions allow prompting for what was left off the command line,
// such as the repository of a search.
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Prompt for a repository when none is given.`)
}
