package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"fwlens/internal/config"
	"fwlens/internal/core"
	"fwlens/internal/session"
)

// viewMode is the screen or input currently receiving keys.
type viewMode int

const (
	viewGrid viewMode = iota
	viewEditCell
	viewSchema
	viewFieldInput
	viewRaw
	viewPrompt
	viewQuitting
)

// fieldAction is what the field input applies on enter.
type fieldAction int

const (
	fieldRename fieldAction = iota
	fieldResize
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	gutterWidth   = 5
	// lines taken by the title, summary, column header, status and help
	chromeLines = 7
)

// model is the Bubbletea model for the TUI.
type model struct {
	ctx    context.Context
	sess   *session.Session
	runner *session.Runner
	logger *zap.Logger

	docPath     string
	savedText   string // text as last read from or written to docPath
	savedRev    uint64 // text revision of savedText
	editor      config.EditorConfig
	schemaStore core.SchemaStore
	copyText    func(string) error

	activeView  viewMode
	cursorRow   int
	cursorField int
	rowOffset   int
	width       int
	height      int
	confirmQuit bool

	cellInput   textinput.Model
	fieldInput  textinput.Model
	fieldAction fieldAction
	fieldID     string
	promptInput textinput.Model
	raw         textarea.Model
	rawOrig     string
	schemaTable table.Model
	spinner     spinner.Model
	help        help.Model
	keys        keyMap

	status    string
	statusErr bool
}

// Options configures the editor.
type Options struct {
	Session *session.Session
	Runner  *session.Runner
	Logger  *zap.Logger
	// DocumentPath is where w writes the document. Empty disables writing.
	DocumentPath string
	// SchemaStore, when set, receives the schema on ctrl+s in the schema panel.
	SchemaStore core.SchemaStore
	Editor      config.EditorConfig
	// Clipboard overrides the system clipboard writer.
	Clipboard func(string) error
}

// initialModel creates the initial TUI model.
func initialModel(ctx context.Context, opts Options) model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	runner := opts.Runner
	if runner == nil {
		// without an inferrer every request fails with a missing key
		runner = session.NewRunner(nil)
	}
	editor := opts.Editor
	if editor.DefaultFieldName == "" {
		editor.DefaultFieldName = config.DefaultConfig().Editor.DefaultFieldName
	}
	if editor.DefaultFieldLength < 1 {
		editor.DefaultFieldLength = config.DefaultConfig().Editor.DefaultFieldLength
	}

	cellInput := textinput.New()
	cellInput.Prompt = "edit> "

	fieldInput := textinput.New()
	fieldInput.CharLimit = 64

	promptInput := textinput.New()
	promptInput.Prompt = "describe> "
	promptInput.Placeholder = "ID (5), Name (15), Date (8)  or paste a sample row"
	promptInput.CharLimit = 4000

	raw := textarea.New()
	raw.ShowLineNumbers = true
	raw.CharLimit = 0
	raw.MaxHeight = 0

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	t := table.New(
		table.WithColumns(schemaColumns(defaultWidth)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(defaultHeight-chromeLines),
		table.WithWidth(defaultWidth),
	)

	m := model{
		ctx:         ctx,
		sess:        opts.Session,
		runner:      runner,
		logger:      logger,
		docPath:     opts.DocumentPath,
		savedText:   opts.Session.Text(),
		editor:      editor,
		schemaStore: opts.SchemaStore,
		copyText:    copyText,
		width:       defaultWidth,
		height:      defaultHeight,
		cellInput:   cellInput,
		fieldInput:  fieldInput,
		promptInput: promptInput,
		raw:         raw,
		schemaTable: t,
		spinner:     spin,
		help:        help.New(),
		keys:        defaultKeyMap(),
	}
	_, m.savedRev = opts.Session.Revisions()
	m.refreshSchemaTable()
	return m
}

func schemaColumns(width int) []table.Column {
	nameWidth := max(width-40, 12)
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Name", Width: nameWidth},
		{Title: "Length", Width: 7},
		{Title: "Offset", Width: 7},
		{Title: "Color", Width: 9},
	}
}

// refreshSchemaTable rebuilds the schema panel rows from the session.
func (m *model) refreshSchemaTable() {
	s := m.sess.Schema()
	rows := make([]table.Row, len(s))
	offset := 0
	for i, f := range s {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			f.Name,
			strconv.Itoa(f.Length),
			strconv.Itoa(offset),
			f.Color,
		}
		offset += f.Length
	}
	m.schemaTable.SetRows(rows)
	if c := m.schemaTable.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.schemaTable.SetCursor(len(rows) - 1)
	}
}

// clampCursor keeps the cursor on an existing cell and inside the visible window.
func (m *model) clampCursor() {
	rows := m.rowCount()
	fields := len(m.sess.Schema())
	m.cursorRow = min(max(m.cursorRow, 0), max(rows-1, 0))
	m.cursorField = min(max(m.cursorField, 0), max(fields-1, 0))

	visible := m.visibleRows()
	if m.cursorRow < m.rowOffset {
		m.rowOffset = m.cursorRow
	}
	if m.cursorRow >= m.rowOffset+visible {
		m.rowOffset = m.cursorRow - visible + 1
	}
	m.rowOffset = max(m.rowOffset, 0)
}

func (m model) rowCount() int {
	rows, err := m.sess.Rows()
	if err != nil {
		return 0
	}
	return len(rows)
}

func (m model) visibleRows() int {
	return max(m.height-chromeLines, 3)
}

func (m model) dirty() bool {
	if _, rev := m.sess.Revisions(); rev == m.savedRev {
		return false
	}
	return m.sess.Text() != m.savedText
}

func (m *model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}
