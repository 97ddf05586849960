// Package events is a small typed event bus scoped to one scaffold run.
//
// A Bus is created per invocation and closed when the invocation ends;
// subscriptions never outlive it. Delivery is synchronous and in publish
// order, so a subscriber sees phases in the order they happened.
package events

import (
	"sync"
	"time"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/command"
	"github.com/simonhull/hatch/internal/guard"
)

// Event is anything published on a Bus.
type Event interface {
	Name() string
}

type PhaseStarted struct {
	Phase string
}

type PhaseFinished struct {
	Phase    string
	Duration time.Duration
	Aborted  bool
}

type PluginGenerated struct {
	PluginID catalog.ID
	Success  bool
	Files    int
	Duration time.Duration
	Err      error
}

type GuardEvaluated struct {
	Result guard.Result
}

type CommandFinished struct {
	Result command.Result
}

// FileWritten is published for every path the run decided about, including
// skipped ones. Action is created, modified, skipped or planned.
type FileWritten struct {
	Path   string
	Action string
}

func (PhaseStarted) Name() string    { return "phase.started" }
func (PhaseFinished) Name() string   { return "phase.finished" }
func (PluginGenerated) Name() string { return "plugin.generated" }
func (GuardEvaluated) Name() string  { return "guard.evaluated" }
func (CommandFinished) Name() string { return "command.finished" }
func (FileWritten) Name() string     { return "file.written" }

// Handler receives events.
type Handler func(Event)

// Bus fans events out to subscribers.
type Bus struct {
	mu     sync.Mutex
	next   int
	subs   map[int]Handler
	order  []int
	closed bool
}

// NewBus creates an open bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it. Subscribing
// to a closed bus is a no-op.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || h == nil {
		return func() {}
	}

	id := b.next
	b.next++
	b.subs[id] = h
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// On subscribes fn to events of type T only.
func On[T Event](b *Bus, fn func(T)) (unsubscribe func()) {
	return b.Subscribe(func(e Event) {
		if typed, ok := e.(T); ok {
			fn(typed)
		}
	})
}

// Publish delivers e to every subscriber in subscription order. Publishing on
// a nil or closed bus does nothing.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	handlers := make([]Handler, 0, len(b.subs))
	for _, id := range b.order {
		if h, ok := b.subs[id]; ok {
			handlers = append(handlers, h)
		}
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}

// Close drops every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = nil
	b.order = nil
}
