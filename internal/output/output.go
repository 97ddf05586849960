// Package output provides styled terminal output for the hatch CLI.
//
// Functions use lipgloss for styling but abstract away the details from callers.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

	mu          sync.Mutex
	out         io.Writer = os.Stdout
	verboseMode bool
)

// SetWriter redirects all output. It returns the previous writer so tests can
// restore it.
func SetWriter(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// SetVerbose enables or disables verbose output.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verboseMode
}

func writeLine(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, s)
}

// Success prints a success message in green.
//
// Example:
//
//	output.Success("Created project: myapp")
func Success(msg string) {
	writeLine(successStyle.Render("🐣 " + msg))
}

// Error prints an error message in red.
func Error(msg string) {
	writeLine(errorStyle.Render("❌ " + msg))
}

// Warn prints a warning in yellow. Use this for problems that did not stop
// the run.
func Warn(msg string) {
	writeLine(warnStyle.Render("⚠️  " + msg))
}

// Info prints an informational message in cyan.
func Info(msg string) {
	writeLine(infoStyle.Render("ℹ️  " + msg))
}

// Step prints an indented step message in gray.
//
// Example:
//
//	output.Step("cd myapp")
//	output.Step("pnpm dev")
func Step(msg string) {
	writeLine(stepStyle.Render("   " + msg))
}

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	if IsVerbose() {
		writeLine(stepStyle.Render("🔍 " + msg))
	}
}

// Header prints a section title.
func Header(msg string) {
	writeLine(headerStyle.Render(msg))
}

// KeyValues prints aligned key/value rows, keys in the given order.
func KeyValues(rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	for _, r := range rows {
		key := keyStyle.Render(r[0] + strings.Repeat(" ", width-lipgloss.Width(r[0])))
		writeLine("   " + key + "  " + r[1])
	}
}
