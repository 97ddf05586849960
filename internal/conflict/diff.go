package conflict

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// maxDiffLines bounds the inputs the differ accepts.
const maxDiffLines = 10000

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

// DiffOptions configures diff output.
type DiffOptions struct {
	Context  int // unchanged lines around each change, default 3
	TabWidth int // default 4
	Width    int // truncate lines beyond this, default terminal width
}

// Differ produces unified diffs.
type Differ struct {
	opts DiffOptions
}

// NewDiffer creates a differ. A nil opts uses the defaults.
func NewDiffer(opts *DiffOptions) *Differ {
	d := &Differ{}
	if opts != nil {
		d.opts = *opts
	}
	if d.opts.Context <= 0 {
		d.opts.Context = 3
	}
	if d.opts.TabWidth <= 0 {
		d.opts.TabWidth = 4
	}
	if d.opts.Width <= 0 {
		d.opts.Width = terminalWidth()
	}
	return d
}

type op byte

const (
	opEqual  op = ' '
	opInsert op = '+'
	opDelete op = '-'
)

type edit struct {
	op   op
	a, b int // zero-based line indexes in old and new; -1 when absent
	text string
}

// Diff returns a unified diff of existing → proposed, or "" when the
// contents are equal.
func (d *Differ) Diff(path, existing, proposed string) string {
	if existing == proposed {
		return ""
	}
	if strings.IndexByte(existing, 0) >= 0 || strings.IndexByte(proposed, 0) >= 0 {
		return "Binary files differ\n"
	}

	a, b := splitLines(existing), splitLines(proposed)
	if len(a) > maxDiffLines || len(b) > maxDiffLines {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	edits := myers(a, b)
	hunks := group(edits, d.opts.Context)
	if len(hunks) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(headerStyle.Render("--- "+path+" (existing)") + "\n")
	buf.WriteString(headerStyle.Render("+++ "+path+" (generated)") + "\n")
	for _, h := range hunks {
		d.writeHunk(&buf, h)
	}
	return buf.String()
}

// myers computes a shortest edit script between a and b.
func myers(a, b []string) []edit {
	n, m := len(a), len(b)
	max := n + m
	offset := max + 1
	v := make([]int, 2*max+2)
	var trace [][]int

	for depth := 0; depth <= max; depth++ {
		trace = append(trace, append([]int(nil), v...))
		for k := -depth; k <= depth; k += 2 {
			var x int
			if k == -depth || (k != depth && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				return backtrack(a, b, trace, offset)
			}
		}
	}
	return nil
}

func backtrack(a, b []string, trace [][]int, offset int) []edit {
	x, y := len(a), len(b)
	var rev []edit

	for depth := len(trace) - 1; depth >= 0; depth-- {
		v := trace[depth]
		k := x - y

		var prevK int
		if k == -depth || (k != depth && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, edit{op: opEqual, a: x, b: y, text: a[x]})
		}
		if depth == 0 {
			break
		}
		if x == prevX {
			y--
			rev = append(rev, edit{op: opInsert, a: -1, b: y, text: b[y]})
		} else {
			x--
			rev = append(rev, edit{op: opDelete, a: x, b: -1, text: a[x]})
		}
	}

	edits := make([]edit, len(rev))
	for i, e := range rev {
		edits[len(rev)-1-i] = e
	}
	return edits
}

type hunk struct {
	aStart, aLen int
	bStart, bLen int
	edits        []edit
}

// group collects edits into hunks, merging changes separated by at most
// 2*context unchanged lines.
func group(edits []edit, context int) []hunk {
	var hunks []hunk
	i := 0
	for i < len(edits) {
		for i < len(edits) && edits[i].op == opEqual {
			i++
		}
		if i == len(edits) {
			break
		}

		start := max(0, i-context)
		end := i
		for end < len(edits) {
			if edits[end].op != opEqual {
				end++
				continue
			}
			run := end
			for run < len(edits) && edits[run].op == opEqual {
				run++
			}
			if run == len(edits) || run-end > 2*context {
				end = min(run, end+context)
				break
			}
			end = run
		}

		hunks = append(hunks, newHunk(edits, start, end))
		i = end
	}
	return hunks
}

func newHunk(edits []edit, start, end int) hunk {
	h := hunk{edits: edits[start:end], aStart: -1, bStart: -1}

	// Positions before the hunk, for empty-side headers.
	aPos, bPos := 0, 0
	for _, e := range edits[:start] {
		if e.op != opInsert {
			aPos++
		}
		if e.op != opDelete {
			bPos++
		}
	}

	for _, e := range h.edits {
		if e.op != opInsert {
			if h.aStart < 0 {
				h.aStart = e.a
			}
			h.aLen++
		}
		if e.op != opDelete {
			if h.bStart < 0 {
				h.bStart = e.b
			}
			h.bLen++
		}
	}
	if h.aStart < 0 {
		h.aStart = aPos - 1
	}
	if h.bStart < 0 {
		h.bStart = bPos - 1
	}
	return h
}

func (d *Differ) writeHunk(buf *strings.Builder, h hunk) {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.aStart+1, h.aLen, h.bStart+1, h.bLen)
	buf.WriteString(hunkStyle.Render(header) + "\n")

	for _, e := range h.edits {
		line := string(e.op) + truncate(expandTabs(e.text, d.opts.TabWidth), d.opts.Width-2)
		switch e.op {
		case opInsert:
			line = addedStyle.Render(line)
		case opDelete:
			line = removedStyle.Render(line)
		}
		buf.WriteString(line + "\n")
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width < 4 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// viewerModel shows a long diff in a scrollable viewport.
type viewerModel struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newViewerModel(path, diff string) viewerModel {
	return viewerModel{path: path, diff: diff}
}

func (m viewerModel) Init() tea.Cmd { return nil }

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		const chrome = 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(1, msg.Height-chrome))
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(1, msg.Height-chrome)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewerModel) View() string {
	if !m.ready {
		return "Loading diff..."
	}
	title := titleStyle.Render("Diff: " + m.path)
	footer := borderStyle.Render(fmt.Sprintf("[↑/↓/pgup/pgdn] Scroll    [q] Back    %3.0f%%", m.viewport.ScrollPercent()*100))
	return title + "\n" + m.viewport.View() + "\n" + footer
}
