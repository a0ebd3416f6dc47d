package taxoselect

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/taxon"
)

func names(recs []taxon.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name)
	}
	return out
}

func TestInputSetsSearchingBeforeDebounce(t *testing.T) {
	m, _ := newTestModel(t, newFakeService(), testOptions())

	tick := m.SetInput("ros")
	require.NotNil(t, tick)
	assert.True(t, m.IsSearching())
	assert.False(t, m.IsLoading())

	search := m.Update(tick())
	require.NotNil(t, search)
	assert.True(t, m.IsLoading())

	drain(t, m, search)
	assert.False(t, m.IsSearching())
	assert.False(t, m.IsLoading())
	assert.Equal(t, []string{"ros alpha", "ros beta"}, names(m.Candidates()))
	assert.True(t, m.PanelOpen())
}

func TestRepeatedInputIsIgnored(t *testing.T) {
	svc := newFakeService()
	m, _ := newTestModel(t, svc, testOptions())

	drain(t, m, m.SetInput("rosa"))
	assert.Nil(t, m.SetInput("rosa"))
	assert.Equal(t, []string{"bdtfx:rosa"}, svc.searches)
}

func TestOnlyLatestDebounceIsClassified(t *testing.T) {
	svc := newFakeService()
	m, _ := newTestModel(t, svc, testOptions())

	first := m.SetInput("r")
	second := m.SetInput("ro")

	assert.Nil(t, m.Update(first()), "stale tick must not search")
	drain(t, m, second)
	assert.Equal(t, []string{"bdtfx:ro"}, svc.searches)
}

func TestOnlyLatestSearchIsApplied(t *testing.T) {
	svc := newFakeService()
	m, _ := newTestModel(t, svc, testOptions())

	ro := typeText(t, m, "ro")
	ros := typeText(t, m, "ros")
	rose := typeText(t, m, "rose")
	require.NotNil(t, ro)
	require.NotNil(t, ros)
	require.NotNil(t, rose)

	// "rose" answers first, "ro" last.
	assert.Nil(t, m.Update(rose()))
	assert.Nil(t, m.Update(ros()))
	assert.Nil(t, m.Update(ro()))

	assert.Equal(t, []string{"rose alpha", "rose beta"}, names(m.Candidates()))
	assert.False(t, m.IsLoading())
}

func TestSupersededSearchContextIsCancelled(t *testing.T) {
	svc := newFakeService()
	svc.search = func(ctx context.Context, repo, text string) ([]taxon.Record, error) {
		return nil, ctx.Err()
	}
	m, rec := newTestModel(t, svc, testOptions())

	stale := typeText(t, m, "ro")
	fresh := typeText(t, m, "ros")

	msg := stale()
	assert.ErrorIs(t, msg.(searchResultMsg).err, context.Canceled)
	assert.Nil(t, m.Update(msg))
	assert.Empty(t, rec.errs, "stale failures are not reported")

	svc.search = newFakeService().search
	drain(t, m, fresh)
	assert.Len(t, m.Candidates(), 2)
}

func TestWhitespaceNeverSearches(t *testing.T) {
	svc := newFakeService()
	m, _ := newTestModel(t, svc, testOptions())

	drain(t, m, m.SetInput("   "))

	assert.Empty(t, svc.searches)
	assert.False(t, m.IsSearching())
	assert.False(t, m.IsLoading())
}

func TestClearingInputDropsInFlightResults(t *testing.T) {
	svc := newFakeService()
	m, _ := newTestModel(t, svc, testOptions())

	inflight := typeText(t, m, "ro")
	drain(t, m, m.SetInput(""))
	assert.Nil(t, m.Update(inflight()))

	assert.Empty(t, m.Candidates())
}

func TestFreeEntryRepositoryNeverSearches(t *testing.T) {
	svc := newFakeService()
	m, _ := newTestModel(t, svc, testOptions())
	m.SetRepository(taxon.FreeEntry)

	drain(t, m, m.SetInput("Quercus robur"))

	assert.Empty(t, svc.searches)
	assert.False(t, m.IsSearching())
}

func TestLookupErrorBecomesEmptyResult(t *testing.T) {
	svc := newFakeService()
	boom := errors.New("boom")
	svc.search = func(context.Context, string, string) ([]taxon.Record, error) {
		return nil, boom
	}
	m, rec := newTestModel(t, svc, testOptions())

	drain(t, m, m.SetInput("rosa"))

	require.Len(t, rec.errs, 1)
	assert.ErrorIs(t, rec.errs[0], boom)
	assert.Empty(t, m.Candidates())
	assert.False(t, m.IsLoading())
	assert.False(t, m.IsSearching())
	assert.False(t, m.PanelOpen())
}

func TestRawResultsMode(t *testing.T) {
	opts := testOptions()
	opts.ShowSuggestionPanel = false
	m, rec := newTestModel(t, newFakeService(), opts)

	drain(t, m, m.SetInput("rosa"))

	require.Len(t, rec.all, 1)
	assert.Equal(t, []string{"rosa alpha", "rosa beta"}, names(rec.all[0]))
	assert.Empty(t, m.Candidates())
	assert.False(t, m.PanelOpen())
}

func TestSelectRetainedNameEmitsSelfValidForm(t *testing.T) {
	m, rec := newTestModel(t, newFakeService(), testOptions())
	drain(t, m, m.SetInput("rosa"))

	pick := m.Candidates()[0]
	drain(t, m, m.Select(pick))

	require.Len(t, rec.newData, 1)
	got := rec.newData[0]
	assert.Equal(t, "bdtfx", got.Repository)
	require.NotNil(t, got.ValidOccurrence)
	assert.Equal(t, got.Name, got.ValidOccurrence.Name)
	assert.Nil(t, got.ValidOccurrence.ValidOccurrence)

	got.ValidOccurrence.Name = "mutated"
	assert.Equal(t, "rosa alpha", got.Name, "valid form is a distinct copy")

	assert.Empty(t, m.Candidates())
	assert.Equal(t, "", m.Input(), "input cleared after selection")
}

func TestSelectingTwiceEmitsTwice(t *testing.T) {
	m, rec := newTestModel(t, newFakeService(), testOptions())
	pick := taxon.Record{Repository: "bdtfx", ExternalNameID: "56192", Name: "Rosa canina", Author: "L."}

	drain(t, m, m.Select(pick))
	drain(t, m, m.Select(pick))

	require.Len(t, rec.newData, 2)
	assert.Equal(t, rec.newData[0], rec.newData[1])
	assert.NotSame(t, rec.newData[0], rec.newData[1])
}

func TestSingleSynonymResultResolvesOnce(t *testing.T) {
	svc := newFakeService()
	svc.search = func(_ context.Context, repo, text string) ([]taxon.Record, error) {
		return []taxon.Record{{
			Repository:      repo,
			ExternalNameID:  "56351",
			ExternalTaxonID: "4953",
			Name:            "Rosa",
			IsSynonym:       true,
		}}, nil
	}
	opts := testOptions()
	opts.AutoSelectSingleResult = true
	m, rec := newTestModel(t, svc, opts)

	drain(t, m, m.SetInput("Rosa"))

	assert.Equal(t, []string{"bdtfx:56351:4953"}, svc.fetches)
	require.Len(t, rec.newData, 1)
	got := rec.newData[0]
	assert.True(t, got.IsSynonym)
	require.NotNil(t, got.ValidOccurrence)
	assert.Equal(t, "Rosa canina", got.ValidOccurrence.Name)
	assert.Equal(t, "bdtfx", got.ValidOccurrence.Repository)
	assert.False(t, got.ValidOccurrence.IsSynonym)
}

func TestSynonymWithValidFormPassesThrough(t *testing.T) {
	svc := newFakeService()
	m, rec := newTestModel(t, svc, testOptions())
	valid := &taxon.Record{Repository: "bdtfx", Name: "Quercus robur"}

	drain(t, m, m.Select(taxon.Record{Name: "Quercus pedunculata", IsSynonym: true, ValidOccurrence: valid}))

	assert.Empty(t, svc.fetches)
	require.Len(t, rec.newData, 1)
	assert.Equal(t, "Quercus robur", rec.newData[0].ValidOccurrence.Name)
}

func TestSynonymLookupFailureDropsSelection(t *testing.T) {
	svc := newFakeService()
	svc.fetch = func(context.Context, string, string, string) (json.RawMessage, error) {
		return nil, repository.ErrNotFound
	}
	m, rec := newTestModel(t, svc, testOptions())

	drain(t, m, m.Select(taxon.Record{Name: "Rosa systyla", IsSynonym: true}))

	assert.Empty(t, rec.newData)
	require.Len(t, rec.errs, 1)
	assert.ErrorIs(t, rec.errs[0], repository.ErrNotFound)
}

func TestSwitchRepositorySearchesAgain(t *testing.T) {
	svc := newFakeService()
	m, _ := newTestModel(t, svc, testOptions())
	drain(t, m, m.SetInput("rosa"))

	drain(t, m, m.SwitchRepository("bdtxa"))

	assert.Equal(t, []string{"bdtfx:rosa", "bdtxa:rosa"}, svc.searches)
	assert.Equal(t, "bdtxa", m.Candidates()[0].Repository)
}

func TestDisabledIgnoresInput(t *testing.T) {
	opts := testOptions()
	opts.Disabled = true
	m, _ := newTestModel(t, newFakeService(), opts)

	assert.Nil(t, m.SetInput("rosa"))
	assert.Nil(t, m.Commit())

	m.SetEnabled(true)
	assert.NotNil(t, m.SetInput("rosa"))
}

func TestDisablingDropsPendingSearch(t *testing.T) {
	m, _ := newTestModel(t, newFakeService(), testOptions())
	inflight := typeText(t, m, "rosa")

	m.SetEnabled(false)
	assert.Nil(t, m.Update(inflight()))
	assert.Empty(t, m.Candidates())
	assert.False(t, m.IsLoading())
}

func TestResetClearsState(t *testing.T) {
	m, rec := newTestModel(t, newFakeService(), testOptions())
	drain(t, m, m.SetInput("rosa"))
	m.StartEdit(taxon.Record{OccurrenceID: taxon.IntPtr(3), Repository: "bdtfx", Name: "Rosa"})

	m.Reset()

	assert.Equal(t, "", m.Input())
	assert.Empty(t, m.Candidates())
	assert.False(t, m.IsEditing())
	assert.Empty(t, rec.cancelled)
}

func TestCloseCancelsInFlightLookup(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := newFakeService()
	svc.search = func(ctx context.Context, _, _ string) ([]taxon.Record, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	rec := &recorder{}
	opts := testOptions()
	m := New(svc, rec, opts)
	m.Init()

	search := typeText(t, m, "rosa")
	done := make(chan any, 1)
	go func() { done <- search() }()

	m.Close()
	msg := <-done

	assert.Nil(t, m.Update(msg))
	assert.Empty(t, rec.errs)
	assert.Nil(t, m.SetInput("rose"))
}

func TestDebouncedValueEqualToLastClassifiedIsDropped(t *testing.T) {
	svc := newFakeService()
	m, _ := newTestModel(t, svc, testOptions())

	drain(t, m, m.SetInput("ro"))
	m.SetInput("ros")
	drain(t, m, m.SetInput("ro"))

	assert.Equal(t, []string{"bdtfx:ro"}, svc.searches)
	assert.False(t, m.IsSearching())
	assert.Equal(t, []string{"ro alpha", "ro beta"}, names(m.Candidates()))

	drain(t, m, m.Refresh())
	assert.Equal(t, []string{"bdtfx:ro", "bdtfx:ro"}, svc.searches, "refresh searches the same text again")

	drain(t, m, m.SwitchRepository("bdtxa"))
	assert.Equal(t, "bdtxa:ro", svc.searches[len(svc.searches)-1])
}

func TestSameTextSearchesAgainAfterSelection(t *testing.T) {
	svc := newFakeService()
	m, _ := newTestModel(t, svc, testOptions())

	drain(t, m, m.SetInput("ro"))
	drain(t, m, m.Select(m.Candidates()[0]))
	require.Equal(t, "", m.Input())

	drain(t, m, m.SetInput("ro"))
	assert.Equal(t, []string{"bdtfx:ro", "bdtfx:ro"}, svc.searches)
}

func TestAutoSelectIgnoresKeepRawData(t *testing.T) {
	single := func(_ context.Context, repo, text string) ([]taxon.Record, error) {
		return []taxon.Record{{Repository: repo, ExternalNameID: "1", Name: "Rosa canina", Raw: json.RawMessage(`{}`)}}, nil
	}

	svc := newFakeService()
	svc.search = single
	opts := testOptions()
	opts.AutoSelectSingleResult = true
	opts.KeepRawData = true
	m, rec := newTestModel(t, svc, opts)
	drain(t, m, m.SetInput("rosa"))
	require.Len(t, rec.newData, 1)
	assert.Equal(t, "Rosa canina", rec.newData[0].Name)

	svc = newFakeService()
	svc.search = single
	opts.ShowSuggestionPanel = false
	m, rec = newTestModel(t, svc, opts)
	drain(t, m, m.SetInput("rosa"))
	assert.Empty(t, rec.newData, "raw-results mode never auto-selects")
	require.Len(t, rec.all, 1)
	assert.Len(t, rec.all[0], 1)
}
