package conflict

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsResolver(t *testing.T) {
	assert.Equal(t, Always(Overwrite), New(Options{Overwrite: true}))
	assert.Equal(t, Always(Keep), New(Options{SkipPrompts: true}))
	assert.Equal(t, Always(Overwrite), New(Options{Overwrite: true, SkipPrompts: true}))

	r := New(Options{In: strings.NewReader(""), Out: &bytes.Buffer{}})
	_, ok := r.(*Interactive)
	assert.True(t, ok)
}

func TestAlways(t *testing.T) {
	d, err := Always(Overwrite).Resolve("a.txt", "old", "new")
	require.NoError(t, err)
	assert.Equal(t, Overwrite, d)
	assert.Equal(t, "overwrite", d.String())
	assert.Equal(t, "keep", Keep.String())
}

func TestInteractive_StickyDecision(t *testing.T) {
	d := Overwrite
	r := &Interactive{sticky: &d}

	got, err := r.Resolve("a.txt", "old", "new")
	require.NoError(t, err)
	assert.Equal(t, Overwrite, got)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m menuModel, keys ...string) (menuModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(menuModel)
	}
	return m, cmd
}

func TestMenuModel_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want choice
	}{
		{"first entry is diff", []string{"enter"}, choiceDiff},
		{"down once keeps", []string{"down", "enter"}, choiceKeep},
		{"vim keys", []string{"j", "j", "enter"}, choiceOverwrite},
		{"up stops at top", []string{"up", "up", "enter"}, choiceDiff},
		{"down stops at bottom", []string{"down", "down", "down", "down", "down", "down", "enter"}, choiceOverwriteAll},
		{"shortcut d", []string{"d"}, choiceDiff},
		{"quit keeps", []string{"down", "down", "q"}, choiceKeep},
		{"esc keeps", []string{"esc"}, choiceKeep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(newMenuModel("a.txt", "old\n", "new\n"), tt.keys...)
			assert.Equal(t, tt.want, m.selected)
			require.NotNil(t, cmd)
		})
	}
}

func TestMenuModel_View(t *testing.T) {
	m := newMenuModel("src/index.ts", "one\ntwo\n", "one\n")
	view := m.View()

	assert.Contains(t, view, "src/index.ts")
	assert.Contains(t, view, "existing 8 B, 2 lines")
	assert.Contains(t, view, "generated 4 B, 1 lines")
	for _, c := range menuChoices {
		assert.Contains(t, view, c.label)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", formatSize(0))
	assert.Equal(t, "1023 B", formatSize(1023))
	assert.Equal(t, "1.0 KB", formatSize(1024))
	assert.Equal(t, "1.5 KB", formatSize(1536))
	assert.Equal(t, "2.0 MB", formatSize(2*1024*1024))
}

func TestDiff_Equal(t *testing.T) {
	assert.Empty(t, NewDiffer(nil).Diff("a", "same\n", "same\n"))
}

func TestDiff_Binary(t *testing.T) {
	assert.Equal(t, "Binary files differ\n", NewDiffer(nil).Diff("a", "x\x00", "y"))
}

func TestDiff_SingleChange(t *testing.T) {
	d := NewDiffer(&DiffOptions{Context: 1, Width: 200})
	out := d.Diff("file.txt", "a\nb\nc\nd\ne\n", "a\nb\nX\nd\ne\n")

	assert.Contains(t, out, "--- file.txt (existing)")
	assert.Contains(t, out, "+++ file.txt (generated)")
	assert.Contains(t, out, "@@ -2,3 +2,3 @@")
	assert.Contains(t, out, "-c")
	assert.Contains(t, out, "+X")
	assert.NotContains(t, out, " a\n")
}

func TestDiff_SeparateHunks(t *testing.T) {
	var a, b []string
	for i := range 20 {
		line := string(rune('a' + i))
		a = append(a, line)
		b = append(b, line)
	}
	b[1] = "first"
	b[18] = "second"

	out := NewDiffer(&DiffOptions{Context: 2, Width: 200}).Diff("f", strings.Join(a, "\n")+"\n", strings.Join(b, "\n")+"\n")
	assert.Equal(t, 2, strings.Count(out, "@@ -"))
}

func TestDiff_NewFileContent(t *testing.T) {
	out := NewDiffer(&DiffOptions{Width: 200}).Diff("f", "", "one\ntwo\n")
	assert.Contains(t, out, "@@ -0,0 +1,2 @@")
	assert.Contains(t, out, "+one")
	assert.Contains(t, out, "+two")
}

func TestMyers_EditScript(t *testing.T) {
	edits := myers([]string{"a", "b", "c"}, []string{"a", "c", "d"})

	var ops strings.Builder
	for _, e := range edits {
		ops.WriteByte(byte(e.op))
	}
	assert.Equal(t, " - +", ops.String())
}

func TestExpandTabsAndTruncate(t *testing.T) {
	assert.Equal(t, "    x", expandTabs("\tx", 4))
	assert.Equal(t, "ab  x", expandTabs("ab\tx", 4))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "short", truncate("short", 10))
}

func TestViewerModel(t *testing.T) {
	m := newViewerModel("f", "line\n")
	assert.Equal(t, "Loading diff...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	view := next.(viewerModel).View()
	assert.Contains(t, view, "Diff: f")
	assert.Contains(t, view, "line")

	_, cmd := next.Update(key("q"))
	assert.NotNil(t, cmd)
}
