// Package conflict decides what happens when scaffolding would change a file
// that already exists in the output directory.
package conflict

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Decision is the outcome for one conflicting file.
type Decision int

const (
	Keep Decision = iota
	Overwrite
)

func (d Decision) String() string {
	if d == Overwrite {
		return "overwrite"
	}
	return "keep"
}

// Resolver decides conflicts. existing and proposed are full file contents.
type Resolver interface {
	Resolve(path, existing, proposed string) (Decision, error)
}

// Options selects a resolver.
type Options struct {
	Overwrite   bool // replace every conflicting file
	SkipPrompts bool // keep every conflicting file
	In          io.Reader
	Out         io.Writer
}

// New returns the resolver matching opts. Without a terminal to prompt on,
// conflicting files are kept.
func New(opts Options) Resolver {
	switch {
	case opts.Overwrite:
		return Always(Overwrite)
	case opts.SkipPrompts:
		return Always(Keep)
	}

	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return Always(Keep)
	}
	return &Interactive{in: in, out: out, diff: NewDiffer(nil)}
}

// Always returns the same decision for every file.
type Always Decision

// Resolve returns the fixed decision.
func (a Always) Resolve(string, string, string) (Decision, error) {
	return Decision(a), nil
}

// Interactive asks the user about each file. Choosing an "all" option
// answers every later conflict the same way.
type Interactive struct {
	in     io.Reader
	out    io.Writer
	diff   *Differ
	sticky *Decision
}

// Resolve shows the menu until the user picks keep or overwrite.
func (r *Interactive) Resolve(path, existing, proposed string) (Decision, error) {
	if r.sticky != nil {
		return *r.sticky, nil
	}

	for {
		choice, err := r.ask(path, existing, proposed)
		if err != nil {
			return Keep, err
		}

		switch choice {
		case choiceDiff:
			if err := r.showDiff(path, existing, proposed); err != nil {
				return Keep, err
			}
		case choiceOverwrite:
			return Overwrite, nil
		case choiceOverwriteAll:
			d := Overwrite
			r.sticky = &d
			return d, nil
		case choiceKeepAll:
			d := Keep
			r.sticky = &d
			return d, nil
		default:
			return Keep, nil
		}
	}
}

func (r *Interactive) ask(path, existing, proposed string) (choice, error) {
	model := newMenuModel(path, existing, proposed)
	final, err := tea.NewProgram(model, tea.WithInput(r.in), tea.WithOutput(r.out)).Run()
	if err != nil {
		return choiceKeep, fmt.Errorf("failed to show menu: %w", err)
	}
	return final.(menuModel).selected, nil
}

func (r *Interactive) showDiff(path, existing, proposed string) error {
	diff := r.diff.Diff(path, existing, proposed)
	if strings.Count(diff, "\n") <= 20 {
		_, err := fmt.Fprintln(r.out, diff)
		return err
	}

	p := tea.NewProgram(newViewerModel(path, diff), tea.WithAltScreen(), tea.WithInput(r.in), tea.WithOutput(r.out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to show diff: %w", err)
	}
	return nil
}

type choice int

const (
	choiceDiff choice = iota
	choiceKeep
	choiceOverwrite
	choiceKeepAll
	choiceOverwriteAll
)

var menuChoices = []struct {
	label string
	value choice
}{
	{"Show diff", choiceDiff},
	{"Keep existing file", choiceKeep},
	{"Overwrite with generated file", choiceOverwrite},
	{"Keep all remaining conflicts", choiceKeepAll},
	{"Overwrite all remaining conflicts", choiceOverwriteAll},
}

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type menuModel struct {
	path     string
	summary  string
	cursor   int
	selected choice
}

func newMenuModel(path, existing, proposed string) menuModel {
	return menuModel{
		path:     path,
		summary:  summarize(existing, proposed),
		selected: choiceKeep,
	}
}

func (m menuModel) Init() tea.Cmd { return nil }

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.selected = choiceKeep
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuChoices)-1 {
			m.cursor++
		}
	case "d":
		m.selected = choiceDiff
		return m, tea.Quit
	case "enter":
		m.selected = menuChoices[m.cursor].value
		return m, tea.Quit
	}
	return m, nil
}

func (m menuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("⚠️  File already exists: ") + titleStyle.Render(m.path) + "\n")
	b.WriteString(mutedStyle.Render("    "+m.summary) + "\n\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [d] Diff    [q] Keep") + "\n\n")

	for i, c := range menuChoices {
		if i == m.cursor {
			b.WriteString("    " + selectedStyle.Render("> "+c.label) + "\n")
		} else {
			b.WriteString("      " + c.label + "\n")
		}
	}
	return b.String()
}

// summarize describes the size change between two versions of a file.
func summarize(existing, proposed string) string {
	return fmt.Sprintf("existing %s, %d lines → generated %s, %d lines",
		formatSize(len(existing)), len(splitLines(existing)),
		formatSize(len(proposed)), len(splitLines(proposed)))
}

func formatSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
