package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"fwlens/internal/core"
	"fwlens/pkg/engine"
)

func TestModelViewGrid(t *testing.T) {
	m := newTestModel(t, core.DemoDocument, nil)
	m, _ = Update(m, tea.WindowSizeMsg{Width: 120, Height: 30})

	view := ModelView(m)
	for _, want := range []string{
		"FixedWidth Lens",
		"demo data",
		"4 rows · width 28 · 1 overflow · 0 underflow",
		"John Doe",
		"EXTRA_DATA_HERE",
		"ID   Name           Date",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	// the tooltip describes the cell under the cursor
	if !strings.Contains(view, "ID  len 5  offset 0  row 1  [12345] 5/5") {
		t.Errorf("tooltip missing:\n%s", view)
	}
}

func TestModelViewEmptySchema(t *testing.T) {
	m := newTestModel(t, core.DemoDocument, nil)
	m = press(m, "s", "x", "x", "x", "esc")
	if len(m.sess.Schema()) != 0 {
		t.Fatalf("schema not emptied: %+v", m.sess.Schema())
	}
	if !strings.Contains(ModelView(m), "Define a schema") {
		t.Errorf("empty schema hint missing:\n%s", ModelView(m))
	}
	// editing without fields is a no-op
	m = press(m, "enter")
	if m.activeView != viewGrid {
		t.Errorf("expected grid view, got %v", m.activeView)
	}
}

func TestModelViewSchema(t *testing.T) {
	m := newTestModel(t, core.DemoDocument, nil)
	m, _ = Update(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = press(m, "s")
	view := ModelView(m)
	if !strings.Contains(view, "3 fields · total width 28") {
		t.Errorf("schema header missing:\n%s", view)
	}
	if !strings.Contains(view, "emerald") {
		t.Errorf("schema table missing colors:\n%s", view)
	}
}

func TestRenderRowMarksUnderflow(t *testing.T) {
	s := core.DefaultSchema()
	row, err := engine.SegmentRow(s, 0, "1234")
	if err != nil {
		t.Fatalf("SegmentRow failed: %v", err)
	}
	got := renderRow(s, row, -1)
	want := "   1 1234" + strings.Repeat(missingMark, 1+15+8)
	if got != want {
		t.Errorf("renderRow() = %q, want %q", got, want)
	}
}

func TestScrollFollowsCursor(t *testing.T) {
	text := strings.Repeat("12345John Doe       20231001\n", 50)
	m := newTestModel(t, text, nil)
	m, _ = Update(m, tea.WindowSizeMsg{Width: 80, Height: 20})

	for i := 0; i < 30; i++ {
		m = press(m, "j")
	}
	if m.cursorRow != 30 {
		t.Fatalf("cursorRow = %d, want 30", m.cursorRow)
	}
	if m.cursorRow < m.rowOffset || m.cursorRow >= m.rowOffset+m.visibleRows() {
		t.Errorf("cursor row %d outside window [%d,%d)", m.cursorRow, m.rowOffset, m.rowOffset+m.visibleRows())
	}
	m = press(m, "pgdown", "pgdown", "pgdown")
	if m.cursorRow != 49 {
		t.Errorf("cursorRow = %d, want 49 (last row)", m.cursorRow)
	}
}

// simulateKeyMsg creates a tea.KeyMsg for a given string key
func simulateKeyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(key),
	}
}
