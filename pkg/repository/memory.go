package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"tableflip.dev/taxoselect/pkg/taxon"
)

// Memory is an in-memory Service. It backs the demo dataset and tests.
type Memory struct {
	mu         sync.RWMutex
	levels     Levels
	configured []taxon.Descriptor
	names      map[string][]RawName
	limit      int
}

var _ Service = (*Memory)(nil)

// NewMemory creates an empty service over levels. A nil table uses
// DefaultLevels.
func NewMemory(levels Levels) *Memory {
	if levels == nil {
		levels = DefaultLevels()
	}
	return &Memory{
		levels: levels,
		names:  make(map[string][]RawName),
		limit:  DefaultLimit,
	}
}

// Add appends raw names to repo.
func (m *Memory) Add(repo string, names ...RawName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[repo] = append(m.names[repo], names...)
}

// Repositories lists the repositories holding at least one name.
func (m *Memory) Repositories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.names))
	for repo := range m.names {
		out = append(out, repo)
	}
	sort.Strings(out)
	return out
}

func (m *Memory) Configure(repos []taxon.Descriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configured = append([]taxon.Descriptor(nil), repos...)
}

func (m *Memory) RepositoriesForLevel(level string) ([]taxon.Descriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.levels.ForLevel(level, m.configured)
}

func (m *Memory) Search(ctx context.Context, repo, text string, keepRaw bool) ([]taxon.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if repo == "" || repo == taxon.FreeEntry {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRepository, repo)
	}
	m.mu.RLock()
	names := m.names[repo]
	m.mu.RUnlock()
	return Records(repo, Match(names, text, m.limit), keepRaw), nil
}

func (m *Memory) FetchValidForm(ctx context.Context, repo, nameID, taxonID string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	names := m.names[repo]
	m.mu.RUnlock()
	accepted, err := FindAccepted(names, nameID, taxonID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", repo, err)
	}
	return Encode(accepted), nil
}

func (m *Memory) StandardizeValidForm(repo string, raw json.RawMessage) (taxon.Record, error) {
	return StandardizeValidForm(repo, raw)
}

func (m *Memory) DescribeRepository(repo string) string {
	return m.levels.Describe(repo)
}

// Records standardizes names for repo. When keepRaw is set each record
// carries its raw JSON form.
func Records(repo string, names []RawName, keepRaw bool) []taxon.Record {
	out := make([]taxon.Record, 0, len(names))
	for _, n := range names {
		rec := Standardize(repo, n)
		if keepRaw {
			rec.Raw = Encode(n)
		}
		out = append(out, rec)
	}
	return out
}

// FindAccepted returns the retained name for the synonym nameID of taxonID.
func FindAccepted(names []RawName, nameID, taxonID string) (RawName, error) {
	validID := ""
	for _, n := range names {
		if n.NameID == nameID {
			validID = n.ValidNameID
			break
		}
	}
	if validID != "" {
		for _, n := range names {
			if n.NameID == validID {
				return n, nil
			}
		}
	}
	for _, n := range names {
		if n.Accepted(taxonID) {
			return n, nil
		}
	}
	return RawName{}, fmt.Errorf("%w: valid form of name %s (taxon %s)", ErrNotFound, nameID, taxonID)
}

// StandardizeValidForm decodes an accepted name. The result is never a
// synonym and carries no nested valid form.
func StandardizeValidForm(repo string, raw json.RawMessage) (taxon.Record, error) {
	rec, err := Decode(repo, raw)
	if err != nil {
		return taxon.Record{}, err
	}
	rec.IsSynonym = false
	rec.ValidOccurrence = nil
	return rec, nil
}
