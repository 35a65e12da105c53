package game

import "github.com/pthm-cable/beehive/systems"

// Enqueue queues an input event for the next tick without blocking.
// Returns false when the queue is full and the event was dropped.
// Safe to call from any goroutine.
func (g *Game) Enqueue(ev systems.InputEvent) bool {
	select {
	case g.inputs <- ev:
		return true
	default:
		return false
	}
}

// drainInput applies every queued event to the input state.
func (g *Game) drainInput() {
	for {
		select {
		case ev := <-g.inputs:
			g.input.Apply(ev)
		default:
			return
		}
	}
}

// ReleaseInput clears held keys, look and joystick, as on focus loss.
func (g *Game) ReleaseInput() {
	g.drainInput()
	g.input.Reset()
}
