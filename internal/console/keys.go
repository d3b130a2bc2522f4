package console

import termbox "github.com/nsf/termbox-go"

// Action is what a keypress should do to the app loop, decided without
// any termbox dependency so it stays unit-testable.
type Action int

const (
	// ActionNone means the app loop has nothing further to do: the key
	// was a focus transition, a selection move, or not recognized at all.
	ActionNone Action = iota
	// ActionQuit means the app loop should exit.
	ActionQuit
	// ActionTogglePause means the poller's paused flag should flip.
	ActionTogglePause
)

// NavDelta is the row delta a navigation keypress requests, relative to
// the active panel's current selection/scroll index.
type NavDelta int

// HandleKey maps one termbox key event to a focus transition, an action,
// and/or a navigation delta. Exactly one of (new focus != old focus),
// action, or a non-zero delta is the meaningful result of any given key;
// unrecognized keys return the focus unchanged, ActionNone, and a zero
// delta.
func HandleKey(focus Focus, ev termbox.Event) (Focus, Action, NavDelta) {
	if ev.Type != termbox.EventKey {
		return focus, ActionNone, 0
	}

	key := ev.Ch
	if ev.Key == termbox.KeyCtrlC {
		key = 'q'
	}

	switch key {
	case 'q':
		return focus, ActionQuit, 0
	case 'p':
		return focus, ActionTogglePause, 0
	}

	switch ev.Key {
	case termbox.KeyArrowDown:
		return focus, ActionNone, 1
	case termbox.KeyArrowUp:
		return focus, ActionNone, -1
	}
	switch key {
	case 'j':
		return focus, ActionNone, 1
	case 'k':
		return focus, ActionNone, -1
	}

	if next := Transition(focus, key); next != focus {
		return next, ActionNone, 0
	}
	return focus, ActionNone, 0
}
