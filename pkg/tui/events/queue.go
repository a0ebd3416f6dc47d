package events

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taxoselect/pkg/taxon"
	"tableflip.dev/taxoselect/pkg/taxoselect"
)

// Queue collects picker emissions as messages so a Bubble Tea component can
// hand them to the program in emission order.
type Queue struct {
	component ComponentID
	pending   []tea.Msg
}

var _ taxoselect.Listener = (*Queue)(nil)

// NewQueue returns a queue tagging messages with component.
func NewQueue(component ComponentID) *Queue {
	return &Queue{component: component}
}

func (q *Queue) NewData(rec *taxon.Record) {
	q.pending = append(q.pending, NewDataMsg{Component: q.component, Record: rec})
}

func (q *Queue) UpdatedData(rec *taxon.Record) {
	q.pending = append(q.pending, UpdatedDataMsg{Component: q.component, Record: rec})
}

func (q *Queue) EditCancelled(c taxoselect.EditCancellation) {
	q.pending = append(q.pending, EditCancelledMsg{Component: q.component, OccurrenceID: c.OccurrenceID})
}

func (q *Queue) RepositorySelected(id string) {
	q.pending = append(q.pending, RepositorySelectedMsg{Component: q.component, Repository: id})
}

func (q *Queue) AllResults(recs []taxon.Record) {
	q.pending = append(q.pending, AllResultsMsg{Component: q.component, Records: recs})
}

func (q *Queue) LookupError(err error) {
	q.pending = append(q.pending, LookupErrorMsg{Component: q.component, Err: err})
}

// Len reports how many messages are waiting.
func (q *Queue) Len() int { return len(q.pending) }

// Drain empties the queue. The returned command delivers the messages in
// the order they were emitted.
func (q *Queue) Drain() tea.Cmd {
	if len(q.pending) == 0 {
		return nil
	}
	pending := q.pending
	q.pending = nil
	cmds := make([]tea.Cmd, 0, len(pending))
	for _, msg := range pending {
		msg := msg
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Sequence(cmds...)
}

// Messages empties the queue and returns the raw messages.
func (q *Queue) Messages() []tea.Msg {
	pending := q.pending
	q.pending = nil
	return pending
}
