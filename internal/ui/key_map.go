package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	toggle     key.Binding
	next       key.Binding
	prev       key.Binding
	volumeUp   key.Binding
	volumeDown key.Binding
	mute       key.Binding
	add        key.Binding
	create     key.Binding
	playlists  key.Binding
	recent     key.Binding
	queue      key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		volumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "vol up")),
		volumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "vol down")),
		mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to playlist")),
		create:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new playlist")),
		playlists:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "playlists")),
		recent:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "recent")),
		queue:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "queue")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.next, k.prev, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.toggle, k.next, k.prev},
		{k.volumeUp, k.volumeDown, k.mute},
		{k.add, k.create},
		{k.playlists, k.recent, k.queue, k.quit},
	}
}
