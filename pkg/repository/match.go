package repository

import (
	"sort"
	"strings"
)

// DefaultLimit caps the number of candidates returned by a search.
const DefaultLimit = 30

// Match filters names by query. Each whitespace separated query token must
// prefix the name token at the same position, case insensitively, so "ros
// can" finds "Rosa canina". Results are ordered exact match first, then
// retained names before synonyms, then alphabetically.
func Match(names []RawName, query string, limit int) []RawName {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	needle := strings.Join(tokens, " ")

	out := make([]RawName, 0)
	for _, n := range names {
		if matchTokens(strings.Fields(strings.ToLower(n.ScientificName)), tokens) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i].ScientificName), strings.ToLower(out[j].ScientificName)
		if ei, ej := li == needle, lj == needle; ei != ej {
			return ei
		}
		if si, sj := out[i].Synonym(), out[j].Synonym(); si != sj {
			return !si
		}
		if li != lj {
			return li < lj
		}
		return out[i].NameID < out[j].NameID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func matchTokens(name, query []string) bool {
	if len(query) > len(name) {
		return false
	}
	for i, q := range query {
		if !strings.HasPrefix(name[i], q) {
			return false
		}
	}
	return true
}
