package taxon

import (
	"encoding/json"
	"strings"
)

// FreeEntry is the reserved repository value meaning "no structured
// repository, keep whatever the user typed".
const FreeEntry = "otherunknown"

// FreeEntryLabel is the label shown for the FreeEntry descriptor.
const FreeEntryLabel = "Other/unknown"

// Descriptor names a taxonomic repository the widget can search.
type Descriptor struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FreeEntryDescriptor returns the descriptor appended to a catalog when free
// entry is allowed.
func FreeEntryDescriptor() Descriptor {
	return Descriptor{Value: FreeEntry, Label: FreeEntryLabel}
}

// IsFreeEntry reports whether the descriptor is the free-text sentinel.
func (d Descriptor) IsFreeEntry() bool {
	return d.Value == FreeEntry
}

// Record is a candidate or resolved taxonomic name.
type Record struct {
	// OccurrenceID is only set when the record updates an existing host
	// occurrence (edit sessions).
	OccurrenceID    *int            `json:"occurrenceId,omitempty"`
	Repository      string          `json:"repository"`
	ExternalNameID  string          `json:"idNomen,omitempty"`
	ExternalTaxonID string          `json:"idTaxo,omitempty"`
	Name            string          `json:"name"`
	Author          string          `json:"author"`
	Rank            string          `json:"rank,omitempty"`
	IsSynonym       bool            `json:"isSynonym"`
	ValidOccurrence *Record         `json:"validOccurrence,omitempty"`
	Raw             json.RawMessage `json:"rawData,omitempty"`
}

// MarshalJSON writes an empty Author as null.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	out := struct {
		plain
		Author *string `json:"author"`
	}{plain: plain(r)}
	if r.Author != "" {
		author := r.Author
		out.Author = &author
	}
	return json.Marshal(out)
}

// NewFreeRecord builds the record committed for free text. All external
// identifiers stay empty.
func NewFreeRecord(text string) Record {
	return Record{
		Repository: FreeEntry,
		Name:       strings.TrimSpace(text),
	}
}

// Clone returns a deep copy of r. Nested valid forms and raw payloads are
// copied as well, so mutating the clone never touches r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.OccurrenceID != nil {
		id := *r.OccurrenceID
		out.OccurrenceID = &id
	}
	if r.Raw != nil {
		out.Raw = append(json.RawMessage(nil), r.Raw...)
	}
	out.ValidOccurrence = r.ValidOccurrence.Clone()
	return &out
}

// SelfValidForm returns a structural copy of r suitable for use as its own
// valid form: same content, no nested valid form.
func (r *Record) SelfValidForm() *Record {
	out := r.Clone()
	if out == nil {
		return nil
	}
	out.ValidOccurrence = nil
	return out
}

// IsFreeEntry reports whether r was committed as free text.
func (r *Record) IsFreeEntry() bool {
	return r != nil && r.Repository == FreeEntry
}

// WithOccurrence stamps the host occurrence id on r.
func (r *Record) WithOccurrence(id *int) {
	if id == nil {
		r.OccurrenceID = nil
		return
	}
	v := *id
	r.OccurrenceID = &v
}

// IntPtr is a small helper for building occurrence ids.
func IntPtr(v int) *int {
	return &v
}
