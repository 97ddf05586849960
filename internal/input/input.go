// Package input asks the user for values the command line left out.
//
// A Prompter reads answers line by line. When the input is not a terminal
// every question returns its default, so scripted runs never block.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Prompter asks questions on in and out.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// New returns a prompter reading from in. Passing a non-terminal *os.File,
// or any reader when interactive is false, makes every question return its
// default without printing.
func New(in io.Reader, out io.Writer, interactive bool) *Prompter {
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		interactive = false
	}
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

// Stdio returns a prompter on the process's standard streams.
func Stdio() *Prompter {
	return New(os.Stdin, os.Stdout, true)
}

// Interactive reports whether questions are actually asked.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Prompt asks for text. An empty answer returns defaultValue.
//
// Example:
//
//	name := p.Prompt("Project name", "my-app")
//	// Displays: Project name (my-app): _
func (p *Prompter) Prompt(message, defaultValue string) string {
	if !p.interactive {
		return defaultValue
	}

	if defaultValue != "" {
		fmt.Fprint(p.out, promptStyle.Render(message)+" "+
			hintStyle.Render(fmt.Sprintf("(%s)", defaultValue))+": ")
	} else {
		fmt.Fprint(p.out, promptStyle.Render(message)+": ")
	}

	answer, err := p.in.ReadString('\n')
	answer = strings.TrimSpace(answer)
	if answer == "" || (err != nil && err != io.EOF) {
		return defaultValue
	}
	return answer
}

// Confirm asks a yes/no question. y and yes in any case mean yes; an empty
// answer returns defaultYes.
func (p *Prompter) Confirm(message string, defaultYes bool) bool {
	if !p.interactive {
		return defaultYes
	}

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprint(p.out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")

	answer, err := p.in.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer == "" || (err != nil && err != io.EOF) {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}
