package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simonhull/hatch/internal/command"
)

func TestBus_DeliversInOrder(t *testing.T) {
	b := NewBus()
	var got []string

	b.Subscribe(func(e Event) { got = append(got, "a:"+e.Name()) })
	b.Subscribe(func(e Event) { got = append(got, "b:"+e.Name()) })

	b.Publish(PhaseStarted{Phase: "resolving"})
	b.Publish(PhaseFinished{Phase: "resolving"})

	assert.Equal(t, []string{
		"a:phase.started", "b:phase.started",
		"a:phase.finished", "b:phase.finished",
	}, got)
}

func TestOn_FiltersByType(t *testing.T) {
	b := NewBus()
	var commands []string

	On(b, func(e CommandFinished) { commands = append(commands, e.Result.ID) })

	b.Publish(PhaseStarted{Phase: "executing-commands"})
	b.Publish(CommandFinished{Result: command.Result{ID: "install"}})
	b.Publish(FileWritten{Path: "README.md", Action: "created"})

	assert.Equal(t, []string{"install"}, commands)
}

func TestBus_UnsubscribeAndClose(t *testing.T) {
	b := NewBus()
	count := 0

	unsubscribe := b.Subscribe(func(Event) { count++ })
	b.Publish(PhaseStarted{})
	unsubscribe()
	b.Publish(PhaseStarted{})
	assert.Equal(t, 1, count)

	b.Subscribe(func(Event) { count++ })
	b.Close()
	b.Publish(PhaseStarted{})
	b.Subscribe(func(Event) { count++ })()
	assert.Equal(t, 1, count)

	var nilBus *Bus
	nilBus.Publish(PhaseStarted{})
}
