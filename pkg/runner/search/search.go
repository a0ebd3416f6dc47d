// Package search runs one-shot name lookups from the command line.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/taxon"
)

// Search looks up Query in Repository and prints the matches.
type Search struct {
	Names      repository.Service
	Repository string
	Query      string
	Limit      int
	// Resolve attaches the valid form to synonyms.
	Resolve bool
	JSON    bool
	Out     io.Writer
}

// Do runs the lookup.
func (s *Search) Do(ctx context.Context) error {
	recs, err := s.Find(ctx)
	if err != nil {
		return err
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}
	if s.JSON {
		b, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}
	s.print(out, recs)
	return nil
}

// Find returns the matching records.
func (s *Search) Find(ctx context.Context) ([]taxon.Record, error) {
	if s.Names == nil {
		return nil, errors.New("can not search, no name service")
	}
	if s.Repository == "" || s.Repository == taxon.FreeEntry {
		return nil, fmt.Errorf("can not search repository %q", s.Repository)
	}
	query := strings.TrimSpace(s.Query)
	if query == "" {
		return nil, errors.New("can not search, empty query")
	}

	recs, err := s.Names.Search(ctx, s.Repository, query, false)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.Repository, err)
	}
	if s.Limit > 0 && len(recs) > s.Limit {
		recs = recs[:s.Limit]
	}
	if !s.Resolve {
		return recs, nil
	}
	for i := range recs {
		if !recs[i].IsSynonym {
			recs[i].ValidOccurrence = recs[i].SelfValidForm()
			continue
		}
		raw, err := s.Names.FetchValidForm(ctx, s.Repository, recs[i].ExternalNameID, recs[i].ExternalTaxonID)
		if err != nil {
			return nil, fmt.Errorf("valid form of %s: %w", recs[i].Name, err)
		}
		valid, err := s.Names.StandardizeValidForm(s.Repository, raw)
		if err != nil {
			return nil, fmt.Errorf("valid form of %s: %w", recs[i].Name, err)
		}
		valid.Repository = s.Repository
		recs[i].ValidOccurrence = &valid
	}
	return recs, nil
}

func (s *Search) print(out io.Writer, recs []taxon.Record) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint, color.Italic)
	syn := color.New(color.FgHiYellow)

	if len(recs) == 0 {
		_, _ = faint.Fprintf(out, "no name matches %q in %s\n", s.Query, s.Names.DescribeRepository(s.Repository))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Rank"), bold.Sprint("Status"))
	for i := range recs {
		r := &recs[i]
		status := "retained"
		if r.IsSynonym {
			status = syn.Sprint("synonym")
			if r.ValidOccurrence != nil {
				status += " of " + taxon.DisplayName(r.ValidOccurrence)
			}
		}
		tbl.AddRow(r.ExternalNameID, taxon.DisplayName(r), r.Rank, status)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)
}
