package command

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PrefixWriter adds a prefix to each line of output.
type PrefixWriter struct {
	prefix string
	writer io.Writer
	buffer []byte
}

// NewPrefixWriter creates a writer that prefixes each line.
func NewPrefixWriter(writer io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{prefix: prefix, writer: writer}
}

// Write emits every complete line and buffers the remainder.
func (p *PrefixWriter) Write(data []byte) (int, error) {
	p.buffer = append(p.buffer, data...)

	for {
		i := bytes.IndexByte(p.buffer, '\n')
		if i < 0 {
			break
		}
		line := p.buffer[:i]
		if _, err := fmt.Fprintf(p.writer, "%s%s\n", p.prefix, line); err != nil {
			return 0, err
		}
		p.buffer = p.buffer[i+1:]
	}

	return len(data), nil
}

// Flush writes any buffered partial line.
func (p *PrefixWriter) Flush() error {
	if len(p.buffer) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(p.writer, "%s%s\n", p.prefix, p.buffer)
	p.buffer = p.buffer[:0]
	return err
}

// runWithSpinner shows a spinner on w while run executes.
func runWithSpinner(w io.Writer, message string, run func() error) error {
	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(w), tea.WithInput(nil))

	spinnerDone := make(chan struct{})
	go func() {
		defer close(spinnerDone)
		// Spinner errors never affect the command result.
		_, _ = p.Run()
	}()

	err := run()
	p.Send(spinnerDoneMsg{err: err})

	select {
	case <-spinnerDone:
	case <-time.After(200 * time.Millisecond):
		p.Quit()
		<-spinnerDone
	}
	return err
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{spinner: s, message: message}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("❌ %s\n", m.message)
		}
		return fmt.Sprintf("✅ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}
