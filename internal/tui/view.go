package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"fwlens/internal/core"
	"fwlens/internal/state"
	"fwlens/pkg/engine"
	"fwlens/pkg/schema"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4f46e5"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
	gutterStyle  = mutedStyle
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#059669"))
	tooltipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e2e8f0")).Background(lipgloss.Color("#0f172a"))
	panelStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555"))
)

const missingMark = "·"

// ModelView renders the TUI model's view as a string.
func ModelView(m model) string {
	var body string
	switch m.activeView {
	case viewQuitting:
		return "Goodbye!\n"
	case viewSchema, viewFieldInput:
		body = schemaView(m)
	case viewRaw:
		body = m.raw.View()
	case viewPrompt:
		body = promptView(m)
	default:
		body = gridView(m)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerView(m),
		body,
		statusView(m),
		m.help.View(m.keys.helpFor(m.activeView, m.help.ShowAll)),
	)
}

func headerView(m model) string {
	name := m.docPath
	if name == "" {
		name = "demo data"
	}
	if m.dirty() {
		name += " *"
	}
	sum := m.sess.Summary()
	counts := fmt.Sprintf("%d rows · width %d · %d overflow · %d underflow",
		sum.Rows, m.sess.Schema().TotalWidth(), sum.Overflowing, sum.Underflowing)
	return titleStyle.Render("FixedWidth Lens") + "  " + name + "  " +
		mutedStyle.Render(counts) + "  " + inferenceView(m)
}

func inferenceView(m model) string {
	inf := m.sess.Inference()
	switch inf.Status {
	case state.Analyzing:
		return m.spinner.View() + " analyzing"
	case state.Succeeded:
		return okStyle.Render("schema inferred")
	case state.Failed:
		return errorStyle.Render("inference failed")
	}
	return ""
}

func gridView(m model) string {
	s := m.sess.Schema()
	if len(s) == 0 {
		return mutedStyle.Render("Define a schema to see the segmented rows (press s).")
	}
	rows, err := m.sess.Rows()
	if err != nil {
		return errorStyle.Render(err.Error())
	}

	lines := []string{columnHeader(s)}
	end := min(m.rowOffset+m.visibleRows(), len(rows))
	for i := m.rowOffset; i < end; i++ {
		cursor := -1
		if i == m.cursorRow {
			cursor = m.cursorField
		}
		lines = append(lines, renderRow(s, rows[i], cursor))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(lines, "\n"))
}

// columnHeader renders the field names, each cut to its field length.
func columnHeader(s schema.Schema) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	r := lipgloss.DefaultRenderer()
	for _, f := range s {
		name := runewidth.FillRight(runewidth.Truncate(f.Name, f.Length, ""), f.Length)
		b.WriteString(core.CellStyle(r, f.Color).Bold(true).Render(name))
	}
	return b.String()
}

// renderRow renders one row: gutter, cells in their field colors with the missing
// positions of short cells dotted, and the overflow tail. cursor is the field under
// the cursor, or -1.
func renderRow(s schema.Schema, row engine.Row, cursor int) string {
	r := lipgloss.DefaultRenderer()
	var b strings.Builder
	b.WriteString(gutterStyle.Render(fmt.Sprintf("%*d ", gutterWidth-1, row.Line)))
	for i, c := range row.Cells {
		style := core.CellStyle(r, s[i].Color)
		missing := core.UnderflowStyle(r)
		if i == cursor {
			style = style.Reverse(true)
			missing = missing.Reverse(true)
		}
		b.WriteString(style.Render(c.Value))
		if n := c.Length - utf8.RuneCountInString(c.Value); n > 0 {
			b.WriteString(missing.Render(strings.Repeat(missingMark, n)))
		}
	}
	if row.HasOverflow {
		b.WriteString(core.OverflowStyle(r).Render(row.Overflow))
	}
	return b.String()
}

func schemaView(m model) string {
	title := titleStyle.Render("Schema") + "  " +
		mutedStyle.Render(fmt.Sprintf("%d fields · total width %d", len(m.sess.Schema()), m.sess.Schema().TotalWidth()))
	parts := []string{title, panelStyle.Render(m.schemaTable.View())}
	if m.activeView == viewFieldInput {
		parts = append(parts, m.fieldInput.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func promptView(m model) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Infer schema"),
		mutedStyle.Render("Describe the fields or paste a sample row."),
		m.promptInput.View(),
	)
}

// statusView shows the transient status, or the details of the cell under the cursor.
func statusView(m model) string {
	if m.activeView == viewEditCell {
		return m.cellInput.View()
	}
	if m.status != "" {
		if m.statusErr {
			return errorStyle.Render(m.status)
		}
		return m.status
	}
	if m.activeView != viewGrid {
		return ""
	}
	return tooltipStyle.Render(cellTooltip(m))
}

// cellTooltip describes the cell under the cursor.
func cellTooltip(m model) string {
	rows, err := m.sess.Rows()
	s := m.sess.Schema()
	if err != nil || m.cursorRow >= len(rows) || m.cursorField >= len(s) {
		return ""
	}
	row := rows[m.cursorRow]
	c := row.Cells[m.cursorField]
	value := c.Value
	if value == "" {
		value = "empty"
	}
	text := fmt.Sprintf(" %s  len %d  offset %d  row %d  [%s] %d/%d ",
		s[m.cursorField].Name, c.Length, c.Offset, row.Line, value, utf8.RuneCountInString(c.Value), c.Length)
	if row.HasOverflow {
		text += fmt.Sprintf(" +%d overflow ", utf8.RuneCountInString(row.Overflow))
	}
	return text
}
