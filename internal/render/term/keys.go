package term

import (
	"context"
	"unicode"

	"github.com/EverCrawl/client/internal/input"
	"github.com/gdamore/tcell/v2"
)

// Action is a host-level command raised by a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleDebug
)

var runeKeys = map[rune]string{
	'w': input.KeyW,
	'a': input.KeyA,
	's': input.KeyS,
	'd': input.KeyD,
}

// HandleKey records a terminal key event on kb. Terminals send repeats
// instead of releases, so kb should use a hold timeout. An upper-case
// movement rune also holds ShiftLeft.
func HandleKey(ev *tcell.EventKey, kb *input.Keyboard) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyF3:
		return ActionToggleDebug
	case tcell.KeyRune:
		r := ev.Rune()
		code, ok := runeKeys[unicode.ToLower(r)]
		if !ok {
			if r == 'q' {
				return ActionQuit
			}
			return ActionNone
		}
		kb.Press(code)
		if unicode.IsUpper(r) {
			kb.Press(input.KeyShiftLeft)
		}
	}
	return ActionNone
}

// PumpEvents feeds screen events into kb until ctx ends or a quit key
// arrives. onAction receives every non-quit action. It returns true when the
// user asked to quit.
func PumpEvents(ctx context.Context, screen tcell.Screen, kb *input.Keyboard, onAction func(Action)) bool {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch a := HandleKey(ev, kb); a {
				case ActionQuit:
					return true
				case ActionNone:
				default:
					if onAction != nil {
						onAction(a)
					}
				}
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventFocus:
				if !ev.Focused {
					kb.Reset()
				}
			}
		}
	}
}
