package transport

import (
	"fmt"

	"github.com/pthm-cable/beehive/game"
	"github.com/pthm-cable/beehive/systems"
)

// Message types on the wire.
const (
	TypeWelcome         = "welcome"
	TypeFrame           = "frame"
	TypeKey             = "key"
	TypeLook            = "look"
	TypeJoystick        = "joystick"
	TypeJoystickRelease = "joystick_release"
)

// WorldInfo describes the static world a client renders into.
type WorldInfo struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Ceiling float64 `json:"ceiling"`
}

// WelcomeMsg is the first message on every connection.
type WelcomeMsg struct {
	Type  string    `json:"type"`
	World WorldInfo `json:"world"`
}

// FrameMsg wraps a render frame.
type FrameMsg struct {
	Type string `json:"type"`
	game.Frame
}

// InputMsg is a client input event.
type InputMsg struct {
	Type   string  `json:"type"`
	Action string  `json:"action,omitempty"`
	Down   bool    `json:"down,omitempty"`
	DX     float32 `json:"dx,omitempty"`
	X      float32 `json:"x,omitempty"`
	Y      float32 `json:"y,omitempty"`
}

// Event converts the message to an input event.
func (m InputMsg) Event() (systems.InputEvent, error) {
	switch m.Type {
	case TypeKey:
		a, ok := systems.ParseAction(m.Action)
		if !ok {
			return systems.InputEvent{}, fmt.Errorf("unknown action %q", m.Action)
		}
		return systems.InputEvent{Kind: systems.EventKey, Action: a, Down: m.Down}, nil
	case TypeLook:
		dx := max(-systems.MaxLookDelta, min(m.DX, systems.MaxLookDelta))
		return systems.InputEvent{Kind: systems.EventLook, DX: dx}, nil
	case TypeJoystick:
		return systems.InputEvent{Kind: systems.EventJoystick, X: m.X, Y: m.Y}, nil
	case TypeJoystickRelease:
		return systems.InputEvent{Kind: systems.EventJoystickRelease}, nil
	default:
		return systems.InputEvent{}, fmt.Errorf("unknown message type %q", m.Type)
	}
}
