package picker

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/taxon"
	"tableflip.dev/taxoselect/pkg/taxoselect"
	"tableflip.dev/taxoselect/pkg/tui/events"
)

func immediateTick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Time{}) }
}

func newTestPicker(t *testing.T, mutate func(*taxoselect.Options)) *Model {
	t.Helper()
	widget := taxoselect.DefaultOptions()
	widget.Repositories = []taxon.Descriptor{
		{Value: "bdtfx", Label: "BDTFX"},
		{Value: "bdtxa", Label: "BDTXA"},
	}
	widget.DefaultRepository = "bdtfx"
	widget.Ticker = immediateTick
	if mutate != nil {
		mutate(&widget)
	}
	m := NewModel(repository.Sample(), Options{Widget: widget})
	m.SetSize(60, 14)
	m.core.Init()
	m.syncInput()
	m.queue.Messages()
	t.Cleanup(m.Close)
	return m
}

var cmdSliceType = reflect.TypeOf([]tea.Cmd(nil))

// pump runs cmd, feeds every non-event message back into the picker and
// returns the events messages in delivery order.
func pump(t *testing.T, m *Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	pending := []tea.Cmd{cmd}
	for steps := 0; len(pending) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("pump did not settle")
		}
		next := pending[0]
		pending = pending[1:]
		if next == nil {
			continue
		}
		msg := next()
		if msg == nil {
			continue
		}
		if v := reflect.ValueOf(msg); v.Kind() == reflect.Slice && v.Type().ConvertibleTo(cmdSliceType) {
			cmds := v.Convert(cmdSliceType).Interface().([]tea.Cmd)
			pending = append(append([]tea.Cmd(nil), cmds...), pending...)
			continue
		}
		switch msg.(type) {
		case events.NewDataMsg, events.UpdatedDataMsg, events.EditCancelledMsg,
			events.RepositorySelectedMsg, events.AllResultsMsg, events.LookupErrorMsg:
			out = append(out, msg)
			continue
		}
		_, follow := m.Update(msg)
		pending = append([]tea.Cmd{follow}, pending...)
	}
	return out
}

func press(m *Model, code rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestSetValueOpensSuggestions(t *testing.T) {
	m := newTestPicker(t, nil)

	pump(t, m, m.SetValue("quercus"))

	if !m.core.PanelOpen() {
		t.Fatalf("expected the suggestion panel to open")
	}
	if got := len(m.core.Candidates()); got != 5 {
		t.Fatalf("expected 5 candidates, got %d", got)
	}
	view, _ := m.View()
	for _, want := range []string{"Quercus ilex L. (sp.)", "Quercus petraea Liebl. (sp.)", "[BDTFX]"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view is missing %q:\n%s", want, view)
		}
	}
}

func TestEnterSelectsHighlightedCandidate(t *testing.T) {
	m := newTestPicker(t, nil)
	pump(t, m, m.SetValue("quercus"))

	pump(t, m, press(m, tea.KeyDown))
	if m.Highlighted() != 1 {
		t.Fatalf("expected highlight 1, got %d", m.Highlighted())
	}

	msgs := pump(t, m, press(m, tea.KeyEnter))
	if len(msgs) != 1 {
		t.Fatalf("expected a single emission, got %d: %#v", len(msgs), msgs)
	}
	data, ok := msgs[0].(events.NewDataMsg)
	if !ok {
		t.Fatalf("expected NewDataMsg, got %T", msgs[0])
	}
	if data.Record.Name != "Quercus petraea" || data.Record.Repository != "bdtfx" {
		t.Fatalf("unexpected record %+v", data.Record)
	}
	if data.Record.ValidOccurrence == nil {
		t.Fatalf("expected the valid form to be attached")
	}
	if m.core.PanelOpen() {
		t.Fatalf("expected the panel to close after selection")
	}
	if m.input.Value() != "" {
		t.Fatalf("expected the input to clear on select, got %q", m.input.Value())
	}
}

func TestEscClosesPanelThenCancelsEdit(t *testing.T) {
	m := newTestPicker(t, func(o *taxoselect.Options) { o.SearchOnEditPrefill = true })
	rec := taxon.Record{OccurrenceID: taxon.IntPtr(12), Repository: "bdtfx", Name: "Rosa canina", Author: "L."}

	pump(t, m, m.StartEdit(rec))
	if !m.core.IsEditing() {
		t.Fatalf("expected an edit session")
	}
	if m.input.Value() != "Rosa canina L." {
		t.Fatalf("expected prefilled input, got %q", m.input.Value())
	}

	if m.core.PanelOpen() {
		if msgs := pump(t, m, press(m, tea.KeyEscape)); len(msgs) != 0 {
			t.Fatalf("closing the panel should not emit, got %#v", msgs)
		}
	}

	msgs := pump(t, m, press(m, tea.KeyEscape))
	if len(msgs) != 1 {
		t.Fatalf("expected one emission, got %#v", msgs)
	}
	cancelled, ok := msgs[0].(events.EditCancelledMsg)
	if !ok || cancelled.OccurrenceID == nil || *cancelled.OccurrenceID != 12 {
		t.Fatalf("unexpected cancellation %#v", msgs[0])
	}
	if m.core.IsEditing() {
		t.Fatalf("expected edit session to be closed")
	}
}

func TestTabCyclesRepositories(t *testing.T) {
	m := newTestPicker(t, nil)

	msgs := pump(t, m, press(m, tea.KeyTab))
	if len(msgs) != 1 {
		t.Fatalf("expected one emission, got %#v", msgs)
	}
	if got := msgs[0].(events.RepositorySelectedMsg).Repository; got != "bdtxa" {
		t.Fatalf("expected bdtxa, got %q", got)
	}

	pump(t, m, press(m, tea.KeyTab))
	if got := m.core.Repository().Value; got != taxon.FreeEntry {
		t.Fatalf("expected the free entry sentinel, got %q", got)
	}
	view, _ := m.View()
	if !strings.Contains(view, "["+taxon.FreeEntryLabel+"]") {
		t.Fatalf("expected the sentinel to be highlighted:\n%s", view)
	}
}

func TestFixedRepositoryIgnoresTab(t *testing.T) {
	m := newTestPicker(t, func(o *taxoselect.Options) { o.FixedRepository = "bdtxa" })

	if msgs := pump(t, m, press(m, tea.KeyTab)); len(msgs) != 0 {
		t.Fatalf("expected no emission, got %#v", msgs)
	}
	if got := m.core.Repository().Value; got != "bdtxa" {
		t.Fatalf("expected bdtxa to stay selected, got %q", got)
	}
}

func TestViewShowsConfigError(t *testing.T) {
	m := newTestPicker(t, func(o *taxoselect.Options) {
		o.Level = "kingdom"
		o.AllowFreeEntry = false
	})

	view, _ := m.View()
	if !strings.Contains(view, "kingdom") {
		t.Fatalf("expected the configuration error in the view:\n%s", view)
	}
	if !strings.Contains(view, "No repository available") {
		t.Fatalf("expected the empty catalog placeholder:\n%s", view)
	}
}

func TestViewFitsWidth(t *testing.T) {
	m := newTestPicker(t, nil)
	m.SetSize(30, 10)
	pump(t, m, m.SetValue("quercus"))

	view, _ := m.View()
	for _, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w > 30 {
			t.Fatalf("line exceeds width (%d): %q", w, line)
		}
	}
	if !strings.Contains(view, "…") {
		t.Fatalf("expected long rows to be truncated:\n%s", view)
	}
}

func TestDisabledIgnoresKeys(t *testing.T) {
	m := newTestPicker(t, nil)
	m.SetEnabled(false)

	if cmd := press(m, tea.KeyTab); cmd != nil {
		if msgs := pump(t, m, cmd); len(msgs) != 0 {
			t.Fatalf("expected no emission while disabled, got %#v", msgs)
		}
	}
	view, _ := m.View()
	if !strings.Contains(view, "disabled") {
		t.Fatalf("expected disabled status:\n%s", view)
	}
}
