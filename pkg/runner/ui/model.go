package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/rs/zerolog"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/store"
	"tableflip.dev/taxoselect/pkg/taxon"
	"tableflip.dev/taxoselect/pkg/tui/components/eventviewer"
	"tableflip.dev/taxoselect/pkg/tui/components/help"
	"tableflip.dev/taxoselect/pkg/tui/components/panel"
	"tableflip.dev/taxoselect/pkg/tui/components/picker"
	"tableflip.dev/taxoselect/pkg/tui/events"
	"tableflip.dev/taxoselect/pkg/tui/theme"
)

const (
	pickerID       events.ComponentID = "picker"
	minEventHeight                    = 5
	maxPickerWidth                    = 80
)

// storeChangedMsg carries one store watch event into the program.
type storeChangedMsg struct {
	event store.Event
}

// storeClosedMsg reports that the watch channel closed.
type storeClosedMsg struct{}

func waitForStore(ch <-chan store.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return storeClosedMsg{}
		}
		return storeChangedMsg{event: ev}
	}
}

// model hosts the picker with a record panel and an event log.
type model struct {
	picker *picker.Model
	events *eventviewer.Model
	record panel.Model
	help   *help.Model
	theme  theme.Theme
	log    zerolog.Logger

	watch <-chan store.Event

	showHelp bool
	last     *taxon.Record
	nextID   int
	status   string

	width  int
	height int
}

func newModel(svc repository.Service, opts picker.Options, log zerolog.Logger) *model {
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	opts.ID = pickerID
	opts.Theme = &th
	return &model{
		picker: picker.NewModel(svc, opts),
		events: eventviewer.NewModel(400),
		record: panel.New(th.Panel),
		help:   help.New(60, 20, "notty"),
		theme:  th,
		log:    log,
		nextID: 1,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), waitForStore(m.watch))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case storeChangedMsg:
		m.log.Debug().Stringer("type", msg.event.Type).Str("repository", msg.event.Repository).Msg("store changed")
		m.events.Append(eventviewer.Entry{
			Source:  "store",
			Summary: msg.event.Type.String(),
			Detail:  msg.event.Repository,
		})
		var refresh tea.Cmd
		repo := m.picker.Core().Repository().Value
		if msg.event.Type == store.EventStoreInvalidated || msg.event.Repository == repo {
			refresh = m.picker.Refresh()
		}
		return m, tea.Batch(refresh, waitForStore(m.watch))

	case storeClosedMsg:
		m.watch = nil
		return m, nil

	case events.NewDataMsg:
		m.observe(msg)
		if msg.Record == nil {
			m.status = "empty entry ignored"
			return m, nil
		}
		rec := msg.Record.Clone()
		rec.WithOccurrence(taxon.IntPtr(m.nextID))
		m.nextID++
		m.last = rec
		m.record.SetRecord("New record", rec)
		m.status = "added " + taxon.DisplayName(rec)
		return m, nil

	case events.UpdatedDataMsg:
		m.observe(msg)
		m.last = msg.Record.Clone()
		m.record.SetRecord("Updated record", m.last)
		m.status = "updated " + taxon.DisplayName(m.last)
		return m, nil

	case events.EditCancelledMsg:
		m.observe(msg)
		m.status = "edit cancelled"
		return m, nil

	case events.RepositorySelectedMsg:
		m.observe(msg)
		m.status = "repository " + msg.Repository
		return m, nil

	case events.AllResultsMsg:
		m.observe(msg)
		m.status = fmt.Sprintf("%d results", len(msg.Records))
		return m, nil

	case events.LookupErrorMsg:
		m.observe(msg)
		m.log.Warn().Err(msg.Err).Msg("lookup failed")
		m.status = "lookup failed"
		return m, nil
	}

	_, cmd := m.picker.Update(msg)
	return m, cmd
}

func (m *model) observe(msg tea.Msg) {
	m.events.Observe(msg)
	if d, ok := msg.(interface{ Describe() string }); ok {
		m.log.Debug().Str("event", fmt.Sprintf("%T", msg)).Msg(d.Describe())
	}
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.picker.Close()
		return tea.Quit
	}

	if m.showHelp {
		switch key {
		case "esc", "?", "f1", "q":
			m.showHelp = false
			return events.FocusCmd(m.picker.ID())
		}
		return m.help.Update(msg)
	}

	switch key {
	case "f1":
		m.showHelp = true
		return events.BlurCmd(m.picker.ID())
	case "?":
		if strings.TrimSpace(m.picker.Core().Input()) == "" {
			m.showHelp = true
			return events.BlurCmd(m.picker.ID())
		}
	case "ctrl+e":
		if m.last == nil {
			m.status = "nothing to edit"
			return nil
		}
		return m.picker.StartEdit(*m.last)
	case "ctrl+l":
		m.events.Clear()
		return nil
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		return m.events.Update(msg)
	}

	_, cmd := m.picker.Update(msg)
	return cmd
}

func (m *model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	w := min(m.width, maxPickerWidth)
	m.picker.SetSize(w, m.height)
	m.record.SetWidth(w)
	m.help.SetSize(w, max(8, m.height-1))
}

func (m *model) View() (string, *tea.Cursor) {
	if m.width == 0 || m.height == 0 {
		return "Resizing…", nil
	}
	if m.showHelp {
		return m.help.View(), nil
	}

	top, cursor := m.picker.View()
	blocks := []string{top}
	if m.last != nil {
		view, _ := m.record.View()
		blocks = append(blocks, view)
	}
	footer := m.renderFooter()
	blocks = append(blocks, footer)

	used := 0
	for _, b := range blocks {
		used += lipgloss.Height(b)
	}
	if room := m.height - used; room >= minEventHeight {
		m.events.SetSize(m.width, room)
		blocks = append(blocks[:len(blocks)-1], m.events.View(), footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...), cursor
}

func (m *model) renderFooter() string {
	helpLine := m.theme.Footer.Help.Render("f1 help · ctrl+e edit last · ctrl+c quit")
	if m.status == "" {
		return helpLine
	}
	style := m.theme.Footer.Status
	if m.status == "lookup failed" {
		style = m.theme.Footer.Error
	}
	return style.Render(m.status) + "  " + helpLine
}
