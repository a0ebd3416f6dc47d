package repository

import (
	"fmt"
	"sort"

	"tableflip.dev/taxoselect/pkg/taxon"
)

// Levels maps a classification tier to the repositories that can serve it,
// in preference order.
type Levels map[string][]taxon.Descriptor

// DefaultLevels returns the built-in level table.
func DefaultLevels() Levels {
	flora := []taxon.Descriptor{
		{Value: "bdtfx", Label: "BDTFX"},
		{Value: "bdtxa", Label: "BDTXA"},
		{Value: "bdtre", Label: "BDTRE"},
		{Value: "isfan", Label: "ISFAN"},
		{Value: "apd", Label: "APD"},
		{Value: "taxref", Label: "TAXREF"},
	}
	syntaxa := []taxon.Descriptor{
		{Value: "baseveg", Label: "BASEVEG"},
		{Value: "pvf2", Label: "PVF2"},
	}
	return Levels{
		"idiotaxon":    flora,
		"synusy":       syntaxa,
		"microcenosis": syntaxa,
		"phytocenosis": syntaxa,
		"sigmetum":     syntaxa[:1],
		"geosigmetum":  syntaxa[:1],
	}
}

// Names returns the sorted level names.
func (l Levels) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForLevel returns the repositories applicable to level. When configured is
// non empty, only configured repositories are kept, in configured order and
// with configured labels.
func (l Levels) ForLevel(level string, configured []taxon.Descriptor) ([]taxon.Descriptor, error) {
	known, ok := l[level]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	if len(configured) == 0 {
		return append([]taxon.Descriptor(nil), known...), nil
	}
	out := make([]taxon.Descriptor, 0, len(configured))
	for _, d := range configured {
		if d.Value == taxon.FreeEntry {
			continue
		}
		if _, ok := taxon.FindDescriptor(known, d.Value); ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// Describe returns the label for repo across all levels.
func (l Levels) Describe(repo string) string {
	if repo == taxon.FreeEntry {
		return taxon.FreeEntryLabel
	}
	for _, list := range l {
		if d, ok := taxon.FindDescriptor(list, repo); ok {
			return taxon.FormatRepository(d)
		}
	}
	return taxon.FormatRepository(taxon.Descriptor{Value: repo})
}
