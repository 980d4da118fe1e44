package search

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/favdash/internal/debounce"
	"github.com/nikbrunner/favdash/internal/model"
)

// DefaultDebounce is how long the query has to stay unchanged before a
// search runs.
const DefaultDebounce = 180 * time.Millisecond

// LinkProvider supplies the links a search runs over.
type LinkProvider interface {
	AllLinks() []model.Link
}

// LinkProviderFunc adapts a plain function to LinkProvider.
type LinkProviderFunc func() []model.Link

func (f LinkProviderFunc) AllLinks() []model.Link { return f() }

// State is the outcome of the most recent search.
type State struct {
	Query   string
	Results []model.Link
	Active  bool // a non-blank query is in effect
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Debounce time.Duration
	Logger   logrus.FieldLogger
}

// Manager runs debounced searches and publishes their results to listeners.
type Manager struct {
	provider  LinkProvider
	debouncer *debounce.Debouncer
	log       logrus.FieldLogger

	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
	closed    bool
}

// NewManager creates a Manager searching over provider.
func NewManager(provider LinkProvider, opts ManagerOptions) *Manager {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		opts.Logger = logger
	}

	return &Manager{
		provider:  provider,
		debouncer: debounce.New(opts.Debounce),
		log:       opts.Logger,
		state:     State{Results: []model.Link{}},
		listeners: make(map[int]func(State)),
	}
}

// SetQuery replaces the pending search with one for raw. Results are
// published once the query has been stable for the debounce delay.
func (m *Manager) SetQuery(raw string) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return
	}

	m.debouncer.Trigger(func() { m.run(raw) })
}

// Flush cancels the pending search and runs raw right away.
func (m *Manager) Flush(raw string) {
	m.debouncer.Cancel()
	m.run(raw)
}

func (m *Manager) run(raw string) {
	q := Normalize(raw)
	state := State{Query: raw, Results: []model.Link{}, Active: q != ""}
	if state.Active {
		state.Results = Filter(m.provider.AllLinks(), q)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state = state
	listeners := make([]func(State), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"query":   raw,
		"results": len(state.Results),
	}).Debug("search updated")

	for _, fn := range listeners {
		fn(state)
	}
}

// OnResultsUpdated registers fn to receive every published State.
func (m *Manager) OnResultsUpdated(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Current returns the last published State.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending reports whether a search is waiting for the debounce delay.
func (m *Manager) Pending() bool {
	return m.debouncer.Pending()
}

// Close cancels any pending search. Nothing is published afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.debouncer.Cancel()
}
