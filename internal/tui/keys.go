package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the reading-mode bindings. While writing, every key except
// the writing bindings goes to the page editor.
type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	WriteR    key.Binding
	WriteL    key.Binding
	Date      key.Binding
	Close     key.Binding
	Analyze   key.Binding
	LooseLeaf key.Binding
	Help      key.Binding
	Back      key.Binding
	Quit      key.Binding

	// writing mode
	Stop         key.Binding
	AnalyzeWrite key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		Prev:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open page")),
		WriteR:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "write right")),
		WriteL:    key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "write left")),
		Date:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "date page")),
		Close:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close book")),
		Analyze:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shadow")),
		LooseLeaf: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "loose leaf")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Stop:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop writing")),
		AnalyzeWrite: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "shadow")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.WriteR, k.Close, k.Analyze, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Up, k.Down, k.Open},
		{k.WriteR, k.WriteL, k.Date, k.Close},
		{k.Analyze, k.LooseLeaf, k.Help, k.Back, k.Quit},
	}
}

// writingKeys is the help shown while a page is being written.
type writingKeys struct {
	keyMap
}

func (k writingKeys) ShortHelp() []key.Binding {
	accept := key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "accept whisper"))
	return []key.Binding{k.Stop, accept, k.AnalyzeWrite, k.Quit}
}

func (k writingKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// lockKeys is the help shown on the combination lock.
type lockKeys struct {
	keyMap
}

func (k lockKeys) ShortHelp() []key.Binding {
	pick := key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "roller"))
	turn := key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "turn"))
	set := key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "set"))
	return []key.Binding{pick, turn, set, k.Quit}
}

func (k lockKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
