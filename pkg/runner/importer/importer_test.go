package importer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/store"
)

func TestDecodeList(t *testing.T) {
	ds, err := Decode([]byte(` [{"num_nom":"1","nom_sci":"Abies alba"}]`), "bdtfx")
	require.NoError(t, err)
	require.Len(t, ds["bdtfx"], 1)
	assert.Equal(t, "Abies alba", ds["bdtfx"][0].ScientificName)

	_, err = Decode([]byte(`[]`), "")
	assert.Error(t, err)
}

func TestDecodeDatasetFiltersRepository(t *testing.T) {
	ds, err := Decode([]byte(`{"bdtfx":[{"num_nom":"1"}],"baseveg":[{"num_nom":"2"}]}`), "baseveg")
	require.NoError(t, err)
	assert.Len(t, ds, 1)
	assert.Equal(t, "2", ds["baseveg"][0].NameID)
}

func TestImportFileIntoStore(t *testing.T) {
	s, err := store.Load(store.StaticConfig(t.TempDir()))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "names.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bdtxa":[{"num_nom":"7","num_nom_retenu":"7","num_taxonomique":"7","nom_sci":"Vanilla planifolia"}]}`), 0o644))

	var out bytes.Buffer
	i := Import{Target: s, Path: path, Out: &out}
	require.NoError(t, i.Do(context.Background()))
	assert.Contains(t, out.String(), "imported 1 names")

	recs, err := s.Search(context.Background(), "bdtxa", "vanilla", false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestImportSample(t *testing.T) {
	s, err := store.Load(store.StaticConfig(t.TempDir()))
	require.NoError(t, err)

	i := Import{Target: s, Sample: true, Out: &bytes.Buffer{}}
	require.NoError(t, i.Do(context.Background()))
	assert.Len(t, s.Names(context.Background(), "baseveg"), len(repository.SampleDataset()["baseveg"]))
}
