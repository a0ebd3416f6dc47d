package repository

import (
	"fmt"

	"tableflip.dev/taxoselect/pkg/taxon"
)

// Decision records which branch of the repository resolution table fired.
type Decision int

const (
	// NoneAvailable means the catalog was empty.
	NoneAvailable Decision = iota
	// ExactMatch means the requested repository was in the catalog.
	ExactMatch
	// FallbackToFirst means the first catalog entry was used instead.
	FallbackToFirst
	// FallbackToFreeEntry means the free-entry sentinel was used instead.
	FallbackToFreeEntry
)

func (d Decision) String() string {
	switch d {
	case ExactMatch:
		return "exact-match"
	case FallbackToFirst:
		return "fallback-to-first"
	case FallbackToFreeEntry:
		return "fallback-to-free-entry"
	default:
		return "none-available"
	}
}

// MaxFallbackDepth bounds the retry chain of Choose.
const MaxFallbackDepth = 3

// ResolveDefault picks requested when it is part of list and list[0]
// otherwise. It never fails; an empty list yields NoneAvailable.
func ResolveDefault(list []taxon.Descriptor, requested string) (taxon.Descriptor, Decision) {
	if d, ok := taxon.FindDescriptor(list, requested); ok {
		return d, ExactMatch
	}
	if len(list) == 0 {
		return taxon.Descriptor{}, NoneAvailable
	}
	return list[0], FallbackToFirst
}

// EnforceFixed forces fixed as the repository. When fixed is absent from
// list a ConfigError is returned alongside the forced descriptor.
func EnforceFixed(list []taxon.Descriptor, fixed string) (taxon.Descriptor, error) {
	if d, ok := taxon.FindDescriptor(list, fixed); ok {
		return d, nil
	}
	return taxon.Descriptor{Value: fixed, Label: fixed}, &ConfigError{
		Kind:    ForcedRepositoryAbsent,
		Message: fmt.Sprintf("repository %q is not available for this level", fixed),
	}
}

// Choose walks the selection fallback table: exact match, then the free-entry
// sentinel when allowed, then the first entry. The walk is bounded by
// MaxFallbackDepth so an inconsistent catalog cannot loop.
func Choose(list []taxon.Descriptor, requested string, allowFreeEntry bool) (taxon.Descriptor, Decision) {
	if len(list) == 0 {
		return taxon.Descriptor{}, NoneAvailable
	}
	want := requested
	decision := ExactMatch
	for depth := 0; depth < MaxFallbackDepth; depth++ {
		if d, ok := taxon.FindDescriptor(list, want); ok {
			return d, decision
		}
		switch {
		case allowFreeEntry && want != taxon.FreeEntry && decision == ExactMatch:
			want, decision = taxon.FreeEntry, FallbackToFreeEntry
		default:
			want, decision = list[0].Value, FallbackToFirst
		}
	}
	return list[0], FallbackToFirst
}
