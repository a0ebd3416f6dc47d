package commands

import (
	"errors"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/taxoselect/pkg/commands/options"
	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/runner/search"
)

func addSearch(topLevel *cobra.Command) {
	so := &options.SourceOptions{}
	oo := &options.OutputOptions{}
	in := &options.InteractiveOptions{}
	s := &search.Search{}
	var level string

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "search names in a repository",
		Example: `
taxoselect search "quercus rob" --repository bdtfx
taxoselect search -i "carpin"
taxoselect search "quercus" --resolve --json
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, _, err := names(so, logger())
			if err != nil {
				return oo.HandleError(err)
			}
			s.Names = svc
			s.Query = strings.Join(args, " ")
			s.JSON = oo.JSON
			s.Out = cmd.OutOrStdout()

			if s.Repository == "" {
				if in.Interactive && isatty.IsTerminal(os.Stdout.Fd()) {
					if level == "" {
						level = cfg.Level()
					}
					repo, err := chooseRepository(svc, level)
					if err != nil {
						return oo.HandleError(err)
					}
					s.Repository = repo
				} else {
					s.Repository = cfg.DefaultRepository()
				}
			}
			if s.Repository == "" {
				return oo.HandleError(errors.New("no repository, use --repository or -i"))
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}
	options.AddSourceArgs(cmd, so)
	options.AddOutputArg(cmd, oo)
	options.InteractiveArgs(cmd, in)
	cmd.Flags().StringVarP(&s.Repository, "repository", "r", "", "Repository to search.")
	cmd.Flags().StringVarP(&level, "level", "l", "", "Level whose repositories are offered with -i.")
	cmd.Flags().IntVarP(&s.Limit, "limit", "n", 20, "Maximum number of results, 0 for all.")
	cmd.Flags().BoolVar(&s.Resolve, "resolve", false, "Attach the valid form to each result.")

	topLevel.AddCommand(cmd)
}

func chooseRepository(svc repository.Service, level string) (string, error) {
	repos, err := svc.RepositoriesForLevel(level)
	if err != nil {
		return "", err
	}
	if len(repos) == 0 {
		return "", errors.New("no repository for level " + level)
	}
	prompt := promptui.Select{
		Label: "Repository",
		Items: repos,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}:",
			Active:   "▸ {{ .Value | cyan }} {{ .Label | faint }}",
			Inactive: "  {{ .Value }} {{ .Label | faint }}",
			Selected: "Repository: {{ .Value | green }}",
		},
	}
	i, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return repos[i].Value, nil
}
