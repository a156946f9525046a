package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding of the editor. Bindings are grouped per view for help.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Edit     key.Binding
	Pad      key.Binding
	Copy     key.Binding
	Write    key.Binding
	Schema   key.Binding
	Raw      key.Binding
	Infer    key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding

	AddField    key.Binding
	RenameField key.Binding
	ResizeField key.Binding
	RemoveField key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
	SaveSchema  key.Binding

	Confirm key.Binding
	Back    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev field")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next field")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Edit:     key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit cell")),
		Pad:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pad rows")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Write:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write file")),
		Schema:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "schema")),
		Raw:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "raw text")),
		Infer:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "infer schema")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel inference")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		AddField:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		RenameField: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		ResizeField: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "length")),
		RemoveField: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		MoveUp:      key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown:    key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		SaveSchema:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save schema")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// bindingSet adapts a flat list of bindings to help.KeyMap.
type bindingSet []key.Binding

func (b bindingSet) ShortHelp() []key.Binding  { return b }
func (b bindingSet) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

// helpFor returns the bindings shown in the help line of a view.
func (k keyMap) helpFor(v viewMode, full bool) bindingSet {
	switch v {
	case viewEditCell, viewFieldInput, viewPrompt:
		return bindingSet{k.Confirm, k.Back}
	case viewRaw:
		return bindingSet{k.Raw, k.Back}
	case viewSchema:
		return bindingSet{k.Up, k.Down, k.AddField, k.RenameField, k.ResizeField, k.RemoveField, k.MoveUp, k.MoveDown, k.SaveSchema, k.Back}
	}
	if !full {
		return bindingSet{k.Edit, k.Pad, k.Copy, k.Write, k.Schema, k.Raw, k.Infer, k.Help, k.Quit}
	}
	return bindingSet{
		k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown,
		k.Edit, k.Pad, k.Copy, k.Write, k.Schema, k.Raw, k.Infer, k.Cancel, k.Help, k.Quit,
	}
}
