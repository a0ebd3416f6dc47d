package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"tableflip.dev/taxoselect/pkg/taxon"
)

// RawName is the wire shape of a name as returned by taxonomic repositories
// before standardization.
type RawName struct {
	NameID         string `json:"num_nom"`
	ValidNameID    string `json:"num_nom_retenu,omitempty"`
	TaxonID        string `json:"num_taxonomique"`
	ScientificName string `json:"nom_sci"`
	Author         string `json:"auteur,omitempty"`
	Rank           string `json:"rang,omitempty"`
}

// Synonym reports whether the name points at a different retained name.
func (r RawName) Synonym() bool {
	return r.ValidNameID != "" && r.ValidNameID != r.NameID
}

// Standardize converts a raw name into a record stamped with repo.
func Standardize(repo string, raw RawName) taxon.Record {
	return taxon.Record{
		Repository:      repo,
		ExternalNameID:  raw.NameID,
		ExternalTaxonID: raw.TaxonID,
		Name:            strings.TrimSpace(raw.ScientificName),
		Author:          strings.TrimSpace(raw.Author),
		Rank:            raw.Rank,
		IsSynonym:       raw.Synonym(),
	}
}

// Decode parses and standardizes a raw JSON name.
func Decode(repo string, data json.RawMessage) (taxon.Record, error) {
	var raw RawName
	if err := json.Unmarshal(data, &raw); err != nil {
		return taxon.Record{}, fmt.Errorf("repository: decode raw name: %w", err)
	}
	if raw.ScientificName == "" {
		return taxon.Record{}, fmt.Errorf("repository: decode raw name: missing nom_sci")
	}
	return Standardize(repo, raw), nil
}

// Encode returns the raw JSON form of raw.
func Encode(raw RawName) json.RawMessage {
	data, _ := json.Marshal(raw)
	return data
}

// Accepted reports whether raw is a retained (non synonym) name of taxonID.
func (r RawName) Accepted(taxonID string) bool {
	return r.TaxonID == taxonID && !r.Synonym()
}
