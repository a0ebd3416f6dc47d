package taxoselect

import "tableflip.dev/taxoselect/pkg/taxon"

// EditCancellation identifies the edit session that was cancelled.
type EditCancellation struct {
	OccurrenceID *int
}

// Listener receives the widget's emissions. Calls happen synchronously on
// the goroutine driving the Model, in emission order. Records are copies the
// listener may keep.
type Listener interface {
	// NewData carries a new record, or nil when an empty commit aborted.
	NewData(rec *taxon.Record)
	UpdatedData(rec *taxon.Record)
	EditCancelled(c EditCancellation)
	RepositorySelected(id string)
	// AllResults is only used when the suggestion panel is disabled.
	AllResults(recs []taxon.Record)
	LookupError(err error)
}

// Funcs adapts optional functions to a Listener. Nil fields are skipped.
type Funcs struct {
	OnNewData            func(*taxon.Record)
	OnUpdatedData        func(*taxon.Record)
	OnEditCancelled      func(EditCancellation)
	OnRepositorySelected func(string)
	OnAllResults         func([]taxon.Record)
	OnLookupError        func(error)
}

var _ Listener = Funcs{}

func (f Funcs) NewData(rec *taxon.Record) {
	if f.OnNewData != nil {
		f.OnNewData(rec)
	}
}

func (f Funcs) UpdatedData(rec *taxon.Record) {
	if f.OnUpdatedData != nil {
		f.OnUpdatedData(rec)
	}
}

func (f Funcs) EditCancelled(c EditCancellation) {
	if f.OnEditCancelled != nil {
		f.OnEditCancelled(c)
	}
}

func (f Funcs) RepositorySelected(id string) {
	if f.OnRepositorySelected != nil {
		f.OnRepositorySelected(id)
	}
}

func (f Funcs) AllResults(recs []taxon.Record) {
	if f.OnAllResults != nil {
		f.OnAllResults(recs)
	}
}

func (f Funcs) LookupError(err error) {
	if f.OnLookupError != nil {
		f.OnLookupError(err)
	}
}

// Listeners fans emissions out to several listeners in order.
type Listeners []Listener

var _ Listener = Listeners{}

func (ls Listeners) NewData(rec *taxon.Record) {
	for _, l := range ls {
		l.NewData(rec.Clone())
	}
}

func (ls Listeners) UpdatedData(rec *taxon.Record) {
	for _, l := range ls {
		l.UpdatedData(rec.Clone())
	}
}

func (ls Listeners) EditCancelled(c EditCancellation) {
	for _, l := range ls {
		l.EditCancelled(c)
	}
}

func (ls Listeners) RepositorySelected(id string) {
	for _, l := range ls {
		l.RepositorySelected(id)
	}
}

func (ls Listeners) AllResults(recs []taxon.Record) {
	for _, l := range ls {
		l.AllResults(cloneRecords(recs))
	}
}

func (ls Listeners) LookupError(err error) {
	for _, l := range ls {
		l.LookupError(err)
	}
}

func cloneRecords(recs []taxon.Record) []taxon.Record {
	if recs == nil {
		return nil
	}
	out := make([]taxon.Record, len(recs))
	for i := range recs {
		out[i] = *recs[i].Clone()
	}
	return out
}
