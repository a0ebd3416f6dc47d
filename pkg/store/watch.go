package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a store change notification.
type EventType int

const (
	// EventRepositoryChanged indicates names of Repository were added,
	// edited or removed.
	EventRepositoryChanged EventType = iota

	// EventStoreInvalidated signals a change that could not be attributed to
	// one repository. Callers should refresh everything.
	EventStoreInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventRepositoryChanged:
		return "repository-changed"
	case EventStoreInvalidated:
		return "store-invalidated"
	}
	return "unknown"
}

// Event is emitted by Store.Watch when the directory changes.
type Event struct {
	Type       EventType
	Repository string
}

// Watch streams change events until ctx is cancelled. Callers should drain
// the returned channel; events are dropped when it is full. The channel is
// closed once ctx is done or the watcher fails.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				s.log.Warn().Err(err).Msg("watcher close")
			}
		})
	}

	dirs, err := collectDirs(s.basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)
	throttle := newEventThrottle(100 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Debug().Err(err).Msg("watcher error")
				throttle.Enqueue(Event{Type: EventStoreInvalidated})
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						dir := filepath.Clean(evt.Name)
						if _, found := watched[dir]; !found {
							if err := watcher.Add(dir); err != nil {
								s.log.Warn().Err(err).Str("dir", dir).Msg("watch directory")
							} else {
								watched[dir] = struct{}{}
							}
						}
						throttle.Enqueue(Event{Type: EventStoreInvalidated})
						continue
					}
				}
				repo := s.repositoryForPath(evt.Name)
				if repo == "" {
					throttle.Enqueue(Event{Type: EventStoreInvalidated})
					continue
				}
				throttle.Enqueue(Event{Type: EventRepositoryChanged, Repository: repo})
			}
		}
	}()

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				throttle.Stop()
				wg.Wait()
				return
			case batch := <-throttle.C():
				for _, ev := range batch {
					select {
					case events <- ev:
					default:
						s.log.Debug().Stringer("type", ev.Type).Msg("dropping store event")
					}
				}
			}
		}
	}()

	return events, nil
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// repositoryForPath derives the repository from a diskv path.
func (s *Store) repositoryForPath(path string) string {
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	return fromRepository(parts[0])
}

// eventThrottle coalesces rapid change notifications so a burst of writes
// produces one batch.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	order   []Event
	delay   time.Duration
	out     chan []Event
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[Event]struct{}),
		out:     make(chan []Event, 1),
	}
}

// C delivers the coalesced batches.
func (t *eventThrottle) C() <-chan []Event { return t.out }

func (t *eventThrottle) Enqueue(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if _, dup := t.pending[ev]; !dup {
		t.pending[ev] = struct{}{}
		t.order = append(t.order, ev)
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	}
}

func (t *eventThrottle) flush() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	batch := t.order
	t.pending = make(map[Event]struct{})
	t.order = nil
	t.timer = nil
	t.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	select {
	case t.out <- batch:
	default:
		// A batch is still waiting; merge into the next one.
		t.mu.Lock()
		for _, ev := range batch {
			if _, dup := t.pending[ev]; !dup {
				t.pending[ev] = struct{}{}
				t.order = append(t.order, ev)
			}
		}
		if t.timer == nil && !t.stopped {
			t.timer = time.AfterFunc(t.delay, t.flush)
		}
		t.mu.Unlock()
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
