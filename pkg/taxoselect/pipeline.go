package taxoselect

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taxoselect/pkg/taxon"
)

// pipeline holds the search state machine flags. Two generation counters
// order the asynchronous steps: a debounce tick is only classified when its
// generation is the latest, and a search response is only applied when its
// generation matches the latest issued search.
type pipeline struct {
	searching bool
	loading   bool

	debounceGen  uint64
	searchGen    uint64
	cancelSearch context.CancelFunc

	// lastText is the last text classified since the pipeline was last
	// reset. A debounced value equal to it is dropped.
	lastText    string
	hasLastText bool
}

// supersede invalidates any in-flight search and returns the generation of
// the next one.
func (p *pipeline) supersede() uint64 {
	if p.cancelSearch != nil {
		p.cancelSearch()
		p.cancelSearch = nil
	}
	p.searchGen++
	return p.searchGen
}

// invalidate drops pending ticks and in-flight searches.
func (p *pipeline) invalidate() {
	p.debounceGen++
	p.supersede()
	p.forget()
	p.searching = false
	p.loading = false
}

// forget lets the next debounced text be classified even when it repeats
// the previous one.
func (p *pipeline) forget() {
	p.lastText = ""
	p.hasLastText = false
}

// repeats reports whether v is the text classified last.
func (p *pipeline) repeats(v inputValue) bool {
	return v.selected == nil && p.hasLastText && v.text == p.lastText
}

func (p *pipeline) idle() {
	p.searching = false
	p.loading = false
}

// inputValue is what the input holds: typed text or a picked candidate.
type inputValue struct {
	text     string
	selected *taxon.Record
}

type debounceMsg struct {
	generation uint64
	value      inputValue
}

type searchResultMsg struct {
	generation uint64
	repository string
	text       string
	results    []taxon.Record
	err        error
}

// SetInput feeds a raw text change. Repeating the current text is a no-op.
func (m *Model) SetInput(text string) tea.Cmd {
	if !m.enabled || m.closed {
		return nil
	}
	if text == m.input {
		return nil
	}
	m.input = text
	return m.change(inputValue{text: text})
}

// Select feeds a candidate the user picked from the suggestions.
func (m *Model) Select(rec taxon.Record) tea.Cmd {
	if !m.enabled || m.closed {
		return nil
	}
	m.input = taxon.DisplayName(&rec)
	return m.change(inputValue{selected: rec.Clone()})
}

// Refresh searches the current text again, for example after the underlying
// repository data changed.
func (m *Model) Refresh() tea.Cmd {
	if !m.enabled || m.closed || m.edit.active {
		return nil
	}
	return m.rearm()
}

func (m *Model) rearm() tea.Cmd {
	if m.inputBlank() || m.current.IsFreeEntry() {
		return nil
	}
	m.pipe.forget()
	return m.change(inputValue{text: m.input})
}

func (m *Model) change(v inputValue) tea.Cmd {
	m.pipe.searching = true
	m.pipe.debounceGen++
	gen := m.pipe.debounceGen
	return m.tick(m.opts.debounce(), func(time.Time) tea.Msg {
		return debounceMsg{generation: gen, value: v}
	})
}

func (m *Model) handleDebounce(msg debounceMsg) tea.Cmd {
	if msg.generation != m.pipe.debounceGen {
		return nil
	}
	if m.pipe.repeats(msg.value) {
		m.log.Debug().Str("text", msg.value.text).Msg("unchanged input dropped")
		m.pipe.searching = false
		return nil
	}
	return m.classify(msg.value)
}

func (m *Model) classify(v inputValue) tea.Cmd {
	if v.selected != nil {
		m.pipe.supersede()
		m.pipe.idle()
		m.pipe.forget()
		return m.selectCandidate(*v.selected)
	}
	m.pipe.lastText, m.pipe.hasLastText = v.text, true
	if m.current.Value == "" || m.current.IsFreeEntry() {
		m.pipe.supersede()
		m.pipe.idle()
		return nil
	}
	if strings.TrimSpace(v.text) == "" {
		m.pipe.supersede()
		m.pipe.idle()
		m.candidates = nil
		return nil
	}
	return m.search(v.text)
}

func (m *Model) search(text string) tea.Cmd {
	gen := m.pipe.supersede()
	ctx, cancel := context.WithCancel(m.ctx)
	m.pipe.cancelSearch = cancel
	m.pipe.loading = true

	svc := m.svc
	repo := m.current.Value
	keepRaw := m.opts.KeepRawData
	m.log.Debug().
		Str("repository", repo).
		Str("text", text).
		Uint64("generation", gen).
		Msg("search issued")

	return func() tea.Msg {
		results, err := svc.Search(ctx, repo, text, keepRaw)
		return searchResultMsg{
			generation: gen,
			repository: repo,
			text:       text,
			results:    results,
			err:        err,
		}
	}
}

func (m *Model) handleResults(msg searchResultMsg) tea.Cmd {
	if msg.generation != m.pipe.searchGen {
		m.log.Debug().
			Str("text", msg.text).
			Uint64("generation", msg.generation).
			Uint64("latest", m.pipe.searchGen).
			Msg("stale results dropped")
		return nil
	}
	if m.pipe.cancelSearch != nil {
		m.pipe.cancelSearch()
		m.pipe.cancelSearch = nil
	}
	m.pipe.idle()

	results := msg.results
	if msg.err != nil {
		err := fmt.Errorf("search %s for %q: %w", msg.repository, msg.text, msg.err)
		m.log.Warn().Err(err).Msg("lookup failed")
		m.listener.LookupError(err)
		results = nil
	}

	if !m.opts.ShowSuggestionPanel {
		m.candidates = nil
		m.listener.AllResults(cloneRecords(results))
		return nil
	}

	m.candidates = results
	if len(results) == 0 {
		return nil
	}
	m.panelOpen = true
	if len(results) == 1 && m.opts.AutoSelectSingleResult {
		return m.selectCandidate(results[0])
	}
	return nil
}

// selectCandidate stamps the picked record and routes it to finalization.
func (m *Model) selectCandidate(rec taxon.Record) tea.Cmd {
	out := rec.Clone()
	out.Repository = m.current.Value

	t := ticket{}
	if m.edit.active {
		out.WithOccurrence(m.edit.occurrenceID)
		t = ticket{editing: true, session: m.edit.session}
	}

	m.candidates = nil
	m.panelOpen = false
	m.pipe.forget()
	if m.opts.ClearOnSelect {
		if m.edit.active {
			m.edit.clearOnStop = true
		} else {
			m.input = ""
		}
	}
	return m.finalize(out, t)
}
