package taxon

import (
	"fmt"
	"strings"
)

// DisplayName renders "name author" for a record. It is what the input shows
// when a record is prefilled for editing.
func DisplayName(r *Record) string {
	if r == nil {
		return ""
	}
	name := strings.TrimSpace(r.Name)
	author := strings.TrimSpace(r.Author)
	if author == "" {
		return name
	}
	if name == "" {
		return author
	}
	return name + " " + author
}

// FormatCandidate renders one suggestion row. Synonyms point at their valid
// form when it is known.
func FormatCandidate(r *Record) string {
	if r == nil {
		return ""
	}
	label := DisplayName(r)
	if r.Rank != "" {
		label = fmt.Sprintf("%s (%s)", label, r.Rank)
	}
	if !r.IsSynonym {
		return label
	}
	if r.ValidOccurrence != nil && r.ValidOccurrence.Name != "" {
		return fmt.Sprintf("%s = %s", label, DisplayName(r.ValidOccurrence))
	}
	return label + " [syn.]"
}

// FormatRepository renders a descriptor for pickers and placeholders.
func FormatRepository(d Descriptor) string {
	if d.Label != "" {
		return d.Label
	}
	if d.Value == FreeEntry {
		return FreeEntryLabel
	}
	return strings.ToUpper(d.Value)
}

// FindDescriptor returns the descriptor with the given value.
func FindDescriptor(list []Descriptor, value string) (Descriptor, bool) {
	for _, d := range list {
		if d.Value == value {
			return d, true
		}
	}
	return Descriptor{}, false
}
