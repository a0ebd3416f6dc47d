package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taxoselect/pkg/taxon"
)

func descs(values ...string) []taxon.Descriptor {
	out := make([]taxon.Descriptor, 0, len(values))
	for _, v := range values {
		out = append(out, taxon.Descriptor{Value: v, Label: v})
	}
	return out
}

func TestResolveDefault(t *testing.T) {
	list := descs("bdtfx", "bdtxa", taxon.FreeEntry)

	d, decision := ResolveDefault(list, "bdtxa")
	assert.Equal(t, "bdtxa", d.Value)
	assert.Equal(t, ExactMatch, decision)

	d, decision = ResolveDefault(list, "nope")
	assert.Equal(t, "bdtfx", d.Value)
	assert.Equal(t, FallbackToFirst, decision)

	d, decision = ResolveDefault(list, "")
	assert.Equal(t, "bdtfx", d.Value)
	assert.Equal(t, FallbackToFirst, decision)

	d, decision = ResolveDefault(nil, "bdtfx")
	assert.Equal(t, taxon.Descriptor{}, d)
	assert.Equal(t, NoneAvailable, decision)
}

func TestEnforceFixed(t *testing.T) {
	list := descs("bdtfx")

	d, err := EnforceFixed(list, "bdtfx")
	require.NoError(t, err)
	assert.Equal(t, "bdtfx", d.Value)

	d, err = EnforceFixed(list, "taxref")
	require.Error(t, err)
	assert.True(t, IsConfigError(err, ForcedRepositoryAbsent))
	assert.Equal(t, "taxref", d.Value, "fixed value is forced anyway")
}

func TestChooseDecisionTable(t *testing.T) {
	tests := []struct {
		name      string
		list      []taxon.Descriptor
		requested string
		allowFree bool
		want      string
		decision  Decision
	}{
		{"exact", descs("bdtfx", "bdtxa"), "bdtxa", false, "bdtxa", ExactMatch},
		{"free entry fallback", descs("bdtfx", taxon.FreeEntry), "isfan", true, taxon.FreeEntry, FallbackToFreeEntry},
		{"first fallback", descs("bdtfx", "bdtxa"), "isfan", false, "bdtfx", FallbackToFirst},
		{"free allowed but sentinel missing", descs("bdtfx"), "isfan", true, "bdtfx", FallbackToFirst},
		{"empty", nil, "bdtfx", true, "", NoneAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, decision := Choose(tt.list, tt.requested, tt.allowFree)
			assert.Equal(t, tt.want, d.Value)
			assert.Equal(t, tt.decision, decision)
		})
	}
}

func TestLevelsForLevel(t *testing.T) {
	levels := DefaultLevels()

	list, err := levels.ForLevel("idiotaxon", []taxon.Descriptor{{Value: "bdtfx", Label: "BDTFX"}, {Value: "baseveg", Label: "BASEVEG"}})
	require.NoError(t, err)
	assert.Equal(t, []taxon.Descriptor{{Value: "bdtfx", Label: "BDTFX"}}, list)

	list, err = levels.ForLevel("synusy", nil)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "baseveg", list[0].Value)

	_, err = levels.ForLevel("kingdom", nil)
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestMatchOrdersExactAndRetainedFirst(t *testing.T) {
	names := SampleDataset()["bdtfx"]

	got := Match(names, "ros s", 0)
	require.Len(t, got, 3)
	assert.Equal(t, "Rosa sempervirens", got[0].ScientificName)
	assert.Equal(t, "Rosa stylosa", got[1].ScientificName)
	assert.Equal(t, "Rosa systyla", got[2].ScientificName, "synonyms sort after retained names")

	assert.Empty(t, Match(names, "   ", 0))

	got = Match(names, "QUERCUS ROBUR", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "54193", got[0].NameID)
}

func TestMemorySearchAndValidForm(t *testing.T) {
	svc := Sample()
	ctx := context.Background()

	recs, err := svc.Search(ctx, "bdtfx", "quercus ped", true)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	syn := recs[0]
	assert.True(t, syn.IsSynonym)
	assert.Equal(t, "bdtfx", syn.Repository)
	assert.NotEmpty(t, syn.Raw)

	raw, err := svc.FetchValidForm(ctx, "bdtfx", syn.ExternalNameID, syn.ExternalTaxonID)
	require.NoError(t, err)
	valid, err := svc.StandardizeValidForm("bdtfx", raw)
	require.NoError(t, err)
	assert.Equal(t, "Quercus robur", valid.Name)
	assert.False(t, valid.IsSynonym)

	_, err = svc.FetchValidForm(ctx, "bdtfx", "0", "0")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Search(ctx, taxon.FreeEntry, "rosa", false)
	assert.ErrorIs(t, err, ErrUnknownRepository)
}

func TestMemorySearchHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sample().Search(ctx, "bdtfx", "rosa", false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDescribeRepository(t *testing.T) {
	svc := Sample()
	assert.Equal(t, "BDTFX", svc.DescribeRepository("bdtfx"))
	assert.Equal(t, taxon.FreeEntryLabel, svc.DescribeRepository(taxon.FreeEntry))
	assert.Equal(t, "CUSTOM", svc.DescribeRepository("custom"))
}
