// Package mcp exposes taxon name lookups over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/taxon"
)

// DefaultLimit is the number of names a search returns when the caller does
// not ask for a limit.
const DefaultLimit = 20

// Service coordinates the lookups shared by the MCP tools and resources.
type Service struct {
	Names  repository.Service
	Levels repository.Levels
}

// NameDTO is a transport-friendly projection of a record.
type NameDTO struct {
	Repository string   `json:"repository"`
	NameID     string   `json:"nameId,omitempty"`
	TaxonID    string   `json:"taxonId,omitempty"`
	Name       string   `json:"name"`
	Author     string   `json:"author,omitempty"`
	Rank       string   `json:"rank,omitempty"`
	Label      string   `json:"label"`
	Synonym    bool     `json:"synonym"`
	Valid      *NameDTO `json:"valid,omitempty"`
}

// RepositoryDTO describes one repository of a level.
type RepositoryDTO struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Default bool   `json:"default"`
}

// LevelDTO describes the repositories of a level and the default choice.
type LevelDTO struct {
	Level        string          `json:"level"`
	Repositories []RepositoryDTO `json:"repositories"`
	Default      string          `json:"default,omitempty"`
	Decision     string          `json:"decision"`
}

// NewService builds a service over names. A nil level table uses
// repository.DefaultLevels.
func NewService(names repository.Service, levels repository.Levels) *Service {
	if levels == nil {
		levels = repository.DefaultLevels()
	}
	return &Service{Names: names, Levels: levels}
}

// SearchNames runs query against repo. With resolve set, synonyms carry
// their valid form.
func (s *Service) SearchNames(ctx context.Context, repo, query string, limit int, resolve bool) ([]NameDTO, error) {
	if s.Names == nil {
		return nil, errors.New("name service is not configured")
	}
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return nil, errors.New("repository is required")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	recs, err := s.Names.Search(ctx, repo, query, false)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", repo, err)
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}

	out := make([]NameDTO, 0, len(recs))
	for i := range recs {
		dto := toNameDTO(&recs[i])
		if resolve && recs[i].IsSynonym {
			valid, err := s.ResolveValidForm(ctx, repo, recs[i].ExternalNameID, recs[i].ExternalTaxonID)
			if err != nil {
				return nil, err
			}
			dto.Valid = &valid
		}
		out = append(out, dto)
	}
	return out, nil
}

// ResolveValidForm returns the accepted name for nameID.
func (s *Service) ResolveValidForm(ctx context.Context, repo, nameID, taxonID string) (NameDTO, error) {
	if s.Names == nil {
		return NameDTO{}, errors.New("name service is not configured")
	}
	if strings.TrimSpace(nameID) == "" && strings.TrimSpace(taxonID) == "" {
		return NameDTO{}, errors.New("nameId or taxonId is required")
	}
	raw, err := s.Names.FetchValidForm(ctx, repo, nameID, taxonID)
	if err != nil {
		return NameDTO{}, fmt.Errorf("resolve valid form: %w", err)
	}
	rec, err := s.Names.StandardizeValidForm(repo, raw)
	if err != nil {
		return NameDTO{}, fmt.Errorf("resolve valid form: %w", err)
	}
	rec.Repository = repo
	return toNameDTO(&rec), nil
}

// ListRepositories describes the repositories of level. requested is the
// preferred default.
func (s *Service) ListRepositories(level, requested string) (LevelDTO, error) {
	if s.Names == nil {
		return LevelDTO{}, errors.New("name service is not configured")
	}
	list, err := s.Names.RepositoriesForLevel(level)
	if err != nil {
		return LevelDTO{}, err
	}
	def, decision := repository.ResolveDefault(list, requested)

	dto := LevelDTO{
		Level:        level,
		Repositories: make([]RepositoryDTO, 0, len(list)),
		Default:      def.Value,
		Decision:     decision.String(),
	}
	for _, d := range list {
		dto.Repositories = append(dto.Repositories, RepositoryDTO{
			Value:   d.Value,
			Label:   taxon.FormatRepository(d),
			Default: d.Value == def.Value,
		})
	}
	return dto, nil
}

// LevelNames lists the known levels.
func (s *Service) LevelNames() []string {
	return s.Levels.Names()
}

func toNameDTO(rec *taxon.Record) NameDTO {
	return NameDTO{
		Repository: rec.Repository,
		NameID:     rec.ExternalNameID,
		TaxonID:    rec.ExternalTaxonID,
		Name:       rec.Name,
		Author:     rec.Author,
		Rank:       rec.Rank,
		Label:      taxon.FormatCandidate(rec),
		Synonym:    rec.IsSynonym,
	}
}
