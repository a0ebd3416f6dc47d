// Package repos prints the repository catalog of classification levels.
package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/taxon"
)

// Repos lists the repositories of Level, or of every level when Level is
// empty, and shows which one a picker would start on.
type Repos struct {
	Names  repository.Service
	Levels repository.Levels

	Level          string
	Default        string
	Fixed          string
	AllowFreeEntry bool
	JSON           bool
	Out            io.Writer
}

// Catalog is the resolved repository list of one level.
type Catalog struct {
	Level        string             `json:"level"`
	Repositories []taxon.Descriptor `json:"repositories"`
	Selected     string             `json:"selected,omitempty"`
	Decision     string             `json:"decision"`
	Error        string             `json:"error,omitempty"`
}

// Do prints the catalogs.
func (r *Repos) Do(ctx context.Context) error {
	catalogs, err := r.Catalogs()
	if err != nil {
		return err
	}
	out := r.Out
	if out == nil {
		out = color.Output
	}
	if r.JSON {
		b, err := json.MarshalIndent(catalogs, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}
	for _, c := range catalogs {
		r.print(out, c)
	}
	return nil
}

// Catalogs resolves the catalog of each requested level.
func (r *Repos) Catalogs() ([]Catalog, error) {
	if r.Names == nil {
		return nil, errors.New("can not list repositories, no name service")
	}
	levels := []string{r.Level}
	if r.Level == "" {
		if r.Levels == nil {
			r.Levels = repository.DefaultLevels()
		}
		levels = r.Levels.Names()
	}

	out := make([]Catalog, 0, len(levels))
	for _, level := range levels {
		list, err := r.Names.RepositoriesForLevel(level)
		if err != nil {
			if r.Level != "" {
				return nil, err
			}
			out = append(out, Catalog{Level: level, Error: err.Error(), Decision: repository.NoneAvailable.String()})
			continue
		}
		if r.AllowFreeEntry {
			list = append(list, taxon.FreeEntryDescriptor())
		}
		c := Catalog{Level: level, Repositories: list}
		if r.Fixed != "" {
			d, err := repository.EnforceFixed(list, r.Fixed)
			c.Selected, c.Decision = d.Value, repository.ExactMatch.String()
			if err != nil {
				c.Error = err.Error()
			}
		} else {
			d, decision := repository.ResolveDefault(list, r.Default)
			c.Selected, c.Decision = d.Value, decision.String()
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Repos) print(out io.Writer, c Catalog) {
	title := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)
	current := color.New(color.FgHiGreen, color.Bold)

	_, _ = title.Fprintln(out, c.Level)
	if c.Error != "" {
		_, _ = color.New(color.FgRed).Fprintf(out, "  %s\n\n", c.Error)
		if len(c.Repositories) == 0 {
			return
		}
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, d := range c.Repositories {
		marker := " "
		label := taxon.FormatRepository(d)
		if d.Value == c.Selected {
			marker = current.Sprint("*")
			label = current.Sprint(label)
		}
		tbl.AddRow(marker, d.Value, label)
	}
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = faint.Fprintf(out, "  %s\n\n", c.Decision)
}
