package repository

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed sample.json
var sampleJSON []byte

// Dataset is the on-disk import format: raw names grouped by repository.
type Dataset map[string][]RawName

// ParseDataset decodes a dataset document.
func ParseDataset(data []byte) (Dataset, error) {
	ds := Dataset{}
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("repository: parse dataset: %w", err)
	}
	return ds, nil
}

// SampleDataset returns the bundled demo names.
func SampleDataset() Dataset {
	ds, err := ParseDataset(sampleJSON)
	if err != nil {
		panic(err)
	}
	return ds
}

// Sample returns a Memory service preloaded with the demo names.
func Sample() *Memory {
	m := NewMemory(nil)
	for repo, names := range SampleDataset() {
		m.Add(repo, names...)
	}
	return m
}
