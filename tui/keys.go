package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Search   key.Binding
	Category key.Binding
	CatBack  key.Binding
	Sort     key.Binding
	Inc      key.Binding
	Dec      key.Binding
	Open     key.Binding
	Back     key.Binding
	Add      key.Binding
	Cart     key.Binding
	Remove   key.Binding
	Clear    key.Binding
	Theme    key.Binding
	Retry    key.Binding
	Reset    key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev image")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next image")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Category: key.NewBinding(key.WithKeys("c"), key.WithHelp("c/C", "category")),
		CatBack:  key.NewBinding(key.WithKeys("C")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Inc:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "price")),
		Dec:      key.NewBinding(key.WithKeys("-", "_")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
		Cart:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "cart")),
		Remove:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		Clear:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear cart")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Reset:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset filters")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
