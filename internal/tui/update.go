package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fwlens/internal/core"
	"fwlens/internal/session"
	"fwlens/internal/state"
	"fwlens/pkg/schema"
)

// Message types for Bubbletea update loop
type inferenceResultMsg struct{ result session.Result }
type clipboardMsg struct{ err error }
type documentWrittenMsg struct {
	text string
	rev  uint64
	err  error
}
type schemaSavedMsg struct{ err error }

// runnerEventCmd returns a Bubbletea command that waits for the next inference result.
func runnerEventCmd(runner *session.Runner) tea.Cmd {
	return func() tea.Msg {
		return inferenceResultMsg{result: <-runner.Events()}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: write(text)}
	}
}

func writeDocumentCmd(path, text string, rev uint64) tea.Cmd {
	return func() tea.Msg {
		return documentWrittenMsg{text: text, rev: rev, err: core.WriteDocument(path, text)}
	}
}

func saveSchemaCmd(store core.SchemaStore, s schema.Schema) tea.Cmd {
	return func() tea.Msg {
		return schemaSavedMsg{err: store.Save(s)}
	}
}

// Update handles all Bubbletea update logic for the TUI model.
func Update(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(m, msg)
	case tea.WindowSizeMsg:
		return handleWindowResize(m, msg)
	case inferenceResultMsg:
		return handleInferenceResult(m, msg)
	case spinner.TickMsg:
		if !m.sess.Inference().IsActive() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case clipboardMsg:
		if msg.err != nil {
			m.setStatus("Clipboard unavailable: %v", msg.err)
			return m, nil
		}
		m.setStatus("Copied %d bytes to the clipboard", len(m.sess.Text()))
		return m, nil
	case documentWrittenMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.savedText, m.savedRev = msg.text, msg.rev
		m.setStatus("Wrote %s", m.docPath)
		m.logger.Info("Document written", zap.String("path", m.docPath), zap.Int("bytes", len(msg.text)))
		return m, nil
	case schemaSavedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("Schema saved")
		return m, nil
	default:
		return forwardToInput(m, msg)
	}
}

// forwardToInput passes non-key messages such as cursor blinks to the focused input.
func forwardToInput(m model, msg tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeView {
	case viewEditCell:
		m.cellInput, cmd = m.cellInput.Update(msg)
	case viewFieldInput:
		m.fieldInput, cmd = m.fieldInput.Update(msg)
	case viewPrompt:
		m.promptInput, cmd = m.promptInput.Update(msg)
	case viewRaw:
		m.raw, cmd = m.raw.Update(msg)
	}
	return m, cmd
}

func HandleKeyMsg(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return quit(m)
	}

	switch m.activeView {
	case viewQuitting:
		// If quitting, ignore further input
		return m, nil
	case viewEditCell:
		return handleEditCellKey(m, msg)
	case viewSchema:
		return handleSchemaKey(m, msg)
	case viewFieldInput:
		return handleFieldInputKey(m, msg)
	case viewRaw:
		return handleRawKey(m, msg)
	case viewPrompt:
		return handlePromptKey(m, msg)
	default:
		return handleGridKey(m, msg)
	}
}

func quit(m model) (model, tea.Cmd) {
	m.activeView = viewQuitting
	if m.sess.Inference().IsActive() {
		m.sess.CancelInference()
	}
	if m.runner != nil {
		m.runner.Cancel()
	}
	return m, tea.Quit
}

func handleGridKey(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	confirmQuit := m.confirmQuit
	m.confirmQuit = false
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		if m.dirty() && !confirmQuit {
			m.confirmQuit = true
			m.setStatus("Unsaved changes: press q again to quit, w to write")
			return m, nil
		}
		return quit(m)
	case key.Matches(msg, k.Up):
		m.cursorRow--
	case key.Matches(msg, k.Down):
		m.cursorRow++
	case key.Matches(msg, k.Left):
		m.cursorField--
	case key.Matches(msg, k.Right):
		m.cursorField++
	case key.Matches(msg, k.PageUp):
		m.cursorRow -= m.visibleRows()
	case key.Matches(msg, k.PageDown):
		m.cursorRow += m.visibleRows()
	case key.Matches(msg, k.Edit):
		return startEditCell(m)
	case key.Matches(msg, k.Pad):
		if m.sess.PadAll() {
			m.setStatus("Padded short rows to %d characters", m.sess.Schema().TotalWidth())
		} else {
			m.setStatus("Nothing to pad")
		}
	case key.Matches(msg, k.Copy):
		return m, copyCmd(m.copyText, m.sess.Text())
	case key.Matches(msg, k.Write):
		if m.docPath == "" {
			m.setStatus("No file to write: start fwlens with a data file")
			return m, nil
		}
		_, rev := m.sess.Revisions()
		return m, writeDocumentCmd(m.docPath, m.sess.Text(), rev)
	case key.Matches(msg, k.Schema):
		m.refreshSchemaTable()
		m.schemaTable.SetCursor(m.cursorField)
		m.schemaTable.Focus()
		m.activeView = viewSchema
		return m, nil
	case key.Matches(msg, k.Raw):
		m.raw.SetValue(m.sess.Text())
		m.rawOrig = m.raw.Value()
		m.activeView = viewRaw
		return m, m.raw.Focus()
	case key.Matches(msg, k.Infer):
		if m.sess.Inference().IsActive() {
			m.setError(session.ErrInferenceInFlight)
			return m, nil
		}
		m.promptInput.SetValue(m.sess.Inference().Input)
		m.activeView = viewPrompt
		return m, m.promptInput.Focus()
	case key.Matches(msg, k.Cancel):
		if m.sess.Inference().IsActive() {
			m.sess.CancelInference()
			m.runner.Cancel()
			m.setStatus("Inference cancelled")
		}
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.clampCursor()
	return m, nil
}

func startEditCell(m model) (model, tea.Cmd) {
	rows, err := m.sess.Rows()
	if err != nil {
		m.setError(err)
		return m, nil
	}
	if m.cursorRow >= len(rows) || m.cursorField >= len(rows[m.cursorRow].Cells) {
		return m, nil
	}
	cell := rows[m.cursorRow].Cells[m.cursorField]
	m.cellInput.CharLimit = cell.Length
	m.cellInput.SetValue(cell.Value)
	m.cellInput.CursorEnd()
	m.activeView = viewEditCell
	return m, m.cellInput.Focus()
}

func handleEditCellKey(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.cellInput.Blur()
		m.activeView = viewGrid
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.cellInput.Blur()
		m.activeView = viewGrid
		if err := m.sess.EditCell(m.cursorRow, m.cursorField, m.cellInput.Value()); err != nil {
			m.setError(err)
			return m, nil
		}
		m.status = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.cellInput, cmd = m.cellInput.Update(msg)
	return m, cmd
}

func handleSchemaKey(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	k := m.keys
	s := m.sess.Schema()
	selected := m.schemaTable.Cursor()
	var current *schema.Field
	if selected >= 0 && selected < len(s) {
		current = &s[selected]
	}

	var err error
	switch {
	case key.Matches(msg, k.Back), key.Matches(msg, k.Schema):
		m.schemaTable.Blur()
		m.activeView = viewGrid
		if current != nil {
			m.cursorField = selected
		}
		m.clampCursor()
		return m, nil
	case key.Matches(msg, k.AddField):
		var f schema.Field
		f, err = m.sess.AddField(m.editor.DefaultFieldName, m.editor.DefaultFieldLength)
		if err == nil {
			m.refreshSchemaTable()
			m.schemaTable.SetCursor(len(s))
			m.setStatus("Added %q", f.Name)
		}
	case current == nil:
		return m, nil
	case key.Matches(msg, k.RenameField):
		return startFieldInput(m, fieldRename, *current, current.Name)
	case key.Matches(msg, k.ResizeField):
		return startFieldInput(m, fieldResize, *current, strconv.Itoa(current.Length))
	case key.Matches(msg, k.RemoveField):
		if err = m.sess.RemoveField(current.ID); err == nil {
			m.setStatus("Removed %q", current.Name)
		}
	case key.Matches(msg, k.MoveUp):
		if selected > 0 {
			if err = m.sess.MoveField(selected, selected-1); err == nil {
				m.schemaTable.SetCursor(selected - 1)
			}
		}
	case key.Matches(msg, k.MoveDown):
		if selected < len(s)-1 {
			if err = m.sess.MoveField(selected, selected+1); err == nil {
				m.schemaTable.SetCursor(selected + 1)
			}
		}
	case key.Matches(msg, k.SaveSchema):
		if m.schemaStore == nil {
			m.setStatus("No schema file: start fwlens with --schema")
			return m, nil
		}
		return m, saveSchemaCmd(m.schemaStore, s)
	default:
		var cmd tea.Cmd
		m.schemaTable, cmd = m.schemaTable.Update(msg)
		return m, cmd
	}
	if err != nil {
		m.setError(err)
	}
	m.refreshSchemaTable()
	m.clampCursor()
	return m, nil
}

func startFieldInput(m model, action fieldAction, f schema.Field, value string) (model, tea.Cmd) {
	m.fieldAction = action
	m.fieldID = f.ID
	if action == fieldRename {
		m.fieldInput.Prompt = fmt.Sprintf("rename %s> ", f.Name)
	} else {
		m.fieldInput.Prompt = fmt.Sprintf("length of %s> ", f.Name)
	}
	m.fieldInput.SetValue(value)
	m.fieldInput.CursorEnd()
	m.activeView = viewFieldInput
	return m, m.fieldInput.Focus()
}

func handleFieldInputKey(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.fieldInput.Blur()
		m.activeView = viewSchema
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.fieldInput.Value())
		var err error
		switch m.fieldAction {
		case fieldRename:
			err = m.sess.RenameField(m.fieldID, value)
		case fieldResize:
			length, convErr := strconv.Atoi(value)
			if convErr != nil {
				err = fmt.Errorf("length %q is not a number", value)
			} else {
				err = m.sess.ResizeField(m.fieldID, length)
			}
		}
		if err != nil {
			// stay in the input so the value can be fixed
			m.setError(err)
			return m, nil
		}
		m.fieldInput.Blur()
		m.status = ""
		m.activeView = viewSchema
		m.refreshSchemaTable()
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.fieldInput, cmd = m.fieldInput.Update(msg)
	return m, cmd
}

func handleRawKey(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	if key.Matches(msg, m.keys.Raw) || key.Matches(msg, m.keys.Back) {
		m.raw.Blur()
		if v := m.raw.Value(); v != m.rawOrig {
			m.sess.SetText(v)
		}
		m.activeView = viewGrid
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.raw, cmd = m.raw.Update(msg)
	return m, cmd
}

func handlePromptKey(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.promptInput.Blur()
		m.activeView = viewGrid
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		input := m.promptInput.Value()
		id, err := m.sess.BeginInference(input)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.promptInput.Blur()
		m.activeView = viewGrid
		m.runner.Start(m.ctx, id, input)
		m.setStatus("Analyzing…")
		return m, tea.Batch(m.spinner.Tick, runnerEventCmd(m.runner))
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func handleInferenceResult(m model, msg inferenceResultMsg) (model, tea.Cmd) {
	res := msg.result
	if !m.sess.CompleteInference(res.ID, res.Specs, res.Err) {
		return m, nil
	}
	inf := m.sess.Inference()
	switch inf.Status {
	case state.Succeeded:
		m.setStatus("Schema inferred: %d fields", len(m.sess.Schema()))
	case state.Failed:
		m.setError(fmt.Errorf("schema inference failed: %w", inf.Err))
	}
	m.refreshSchemaTable()
	m.clampCursor()
	return m, nil
}

func handleWindowResize(m model, msg tea.WindowSizeMsg) (model, tea.Cmd) {
	m.height = msg.Height
	m.width = msg.Width
	m.help.Width = msg.Width
	m.schemaTable.SetColumns(schemaColumns(msg.Width))
	m.schemaTable.SetHeight(max(msg.Height-chromeLines, 3))
	m.schemaTable.SetWidth(msg.Width)
	m.raw.SetWidth(msg.Width)
	m.raw.SetHeight(max(msg.Height-chromeLines, 3))
	m.cellInput.Width = max(msg.Width-20, 10)
	m.promptInput.Width = max(msg.Width-20, 10)
	m.clampCursor()
	return m, nil
}
