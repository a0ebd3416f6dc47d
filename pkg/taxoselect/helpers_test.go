package taxoselect

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/taxon"
)

func immediateTick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Time{}) }
}

// fakeService scripts the repository collaborator and records calls.
type fakeService struct {
	levels     repository.Levels
	configured []taxon.Descriptor

	search func(ctx context.Context, repo, text string) ([]taxon.Record, error)
	fetch  func(ctx context.Context, repo, nameID, taxonID string) (json.RawMessage, error)

	searches []string
	fetches  []string
}

func newFakeService() *fakeService {
	return &fakeService{
		levels: repository.DefaultLevels(),
		search: func(_ context.Context, repo, text string) ([]taxon.Record, error) {
			return []taxon.Record{
				{Repository: repo, ExternalNameID: "1", Name: text + " alpha"},
				{Repository: repo, ExternalNameID: "2", Name: text + " beta"},
			}, nil
		},
		fetch: func(_ context.Context, repo, nameID, taxonID string) (json.RawMessage, error) {
			return repository.Encode(repository.RawName{
				NameID:         "100",
				ValidNameID:    "100",
				TaxonID:        taxonID,
				ScientificName: "Rosa canina",
				Author:         "L.",
			}), nil
		},
	}
}

func (f *fakeService) Configure(repos []taxon.Descriptor) {
	f.configured = repos
}

func (f *fakeService) RepositoriesForLevel(level string) ([]taxon.Descriptor, error) {
	return f.levels.ForLevel(level, f.configured)
}

func (f *fakeService) Search(ctx context.Context, repo, text string, _ bool) ([]taxon.Record, error) {
	f.searches = append(f.searches, repo+":"+text)
	return f.search(ctx, repo, text)
}

func (f *fakeService) FetchValidForm(ctx context.Context, repo, nameID, taxonID string) (json.RawMessage, error) {
	f.fetches = append(f.fetches, repo+":"+nameID+":"+taxonID)
	return f.fetch(ctx, repo, nameID, taxonID)
}

func (f *fakeService) StandardizeValidForm(repo string, raw json.RawMessage) (taxon.Record, error) {
	return repository.StandardizeValidForm(repo, raw)
}

func (f *fakeService) DescribeRepository(repo string) string {
	return f.levels.Describe(repo)
}

// recorder keeps every emission plus an ordered log of them.
type recorder struct {
	log       []string
	newData   []*taxon.Record
	updated   []*taxon.Record
	cancelled []EditCancellation
	selected  []string
	all       [][]taxon.Record
	errs      []error
}

func (r *recorder) NewData(rec *taxon.Record) {
	r.newData = append(r.newData, rec)
	if rec == nil {
		r.log = append(r.log, "new:<nil>")
		return
	}
	r.log = append(r.log, "new:"+rec.Name)
}

func (r *recorder) UpdatedData(rec *taxon.Record) {
	r.updated = append(r.updated, rec)
	r.log = append(r.log, "updated:"+rec.Name)
}

func (r *recorder) EditCancelled(c EditCancellation) {
	r.cancelled = append(r.cancelled, c)
	id := "<nil>"
	if c.OccurrenceID != nil {
		id = fmt.Sprint(*c.OccurrenceID)
	}
	r.log = append(r.log, "cancelled:"+id)
}

func (r *recorder) RepositorySelected(id string) {
	r.selected = append(r.selected, id)
	r.log = append(r.log, "repository:"+id)
}

func (r *recorder) AllResults(recs []taxon.Record) {
	r.all = append(r.all, recs)
	r.log = append(r.log, fmt.Sprintf("all:%d", len(recs)))
}

func (r *recorder) LookupError(err error) {
	r.errs = append(r.errs, err)
	r.log = append(r.log, "error")
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Repositories = []taxon.Descriptor{
		{Value: "bdtfx", Label: "BDTFX"},
		{Value: "bdtxa", Label: "BDTXA"},
	}
	opts.DefaultRepository = "bdtfx"
	opts.Ticker = immediateTick
	return opts
}

func newTestModel(t *testing.T, svc repository.Service, opts Options) (*Model, *recorder) {
	t.Helper()
	rec := &recorder{}
	m := New(svc, rec, opts)
	m.Init()
	t.Cleanup(m.Close)
	return m, rec
}

// drain runs cmd and feeds every produced message back into m until the
// chain settles.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 20 {
			t.Fatal("command chain did not settle")
		}
		msg := cmd()
		if msg == nil {
			return
		}
		cmd = m.Update(msg)
	}
}

// typeText feeds text and runs the debounce tick, returning the search
// command it issued, if any.
func typeText(t *testing.T, m *Model, text string) tea.Cmd {
	t.Helper()
	tick := m.SetInput(text)
	if tick == nil {
		return nil
	}
	return m.Update(tick())
}
