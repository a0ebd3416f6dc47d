// Package ui runs the interactive taxon picker.
package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/rs/zerolog"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/store"
	"tableflip.dev/taxoselect/pkg/taxoselect"
	"tableflip.dev/taxoselect/pkg/tui/components/picker"
)

// Watcher streams store changes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan store.Event, error)
}

// UI hosts the picker in a full screen Bubble Tea program.
type UI struct {
	Names   repository.Service
	Watcher Watcher
	Widget  taxoselect.Options
	Log     zerolog.Logger

	// Query is typed into the picker on start.
	Query string
	// Full uses the alternate screen.
	Full bool
}

// Do runs the program until the user quits.
func (u *UI) Do(ctx context.Context) error {
	if u.Names == nil {
		return errors.New("ui requires a name service")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	widget := u.Widget
	widget.Logger = u.Log
	m := newModel(u.Names, picker.Options{Widget: widget}, u.Log)
	defer m.picker.Close()

	if u.Watcher != nil {
		ch, err := u.Watcher.Watch(ctx)
		if err != nil {
			u.Log.Warn().Err(err).Msg("store watch unavailable")
		} else {
			m.watch = ch
		}
	}

	var opts []tea.ProgramOption
	if u.Full {
		opts = append(opts, tea.WithAltScreen())
	}
	opts = append(opts, tea.WithContext(ctx))

	p := tea.NewProgram(&startup{model: m, query: u.Query}, opts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// startup types the initial query once the picker is initialized.
type startup struct {
	*model
	query string
}

func (s *startup) Init() tea.Cmd {
	init := s.model.Init()
	if s.query == "" {
		return init
	}
	return tea.Batch(init, s.model.picker.SetValue(s.query))
}
