package systems

import "math"

// Action is a discrete movement input.
type Action uint8

const (
	ActionForward Action = iota
	ActionBackward
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionJump
	numActions
)

var actionNames = [numActions]string{"forward", "backward", "left", "right", "up", "down", "jump"}

// String returns the action name used on the wire.
func (a Action) String() string {
	if a < numActions {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction maps a wire name to an Action.
func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), true
		}
	}
	return 0, false
}

// EventKind identifies an input event.
type EventKind uint8

const (
	EventKey             EventKind = iota // Action pressed or released
	EventLook                             // Pointer delta for yaw
	EventJoystick                         // Analog vector from a virtual joystick
	EventJoystickRelease                  // Joystick let go
)

// MaxLookDelta bounds the pointer delta accumulated between ticks.
const MaxLookDelta = 10000

// InputEvent is a single input change from any input device.
type InputEvent struct {
	Kind   EventKind
	Action Action
	Down   bool
	DX     float32 // look delta
	X, Y   float32 // joystick vector, each in [-1, 1]
}

// InputState is the current input as seen by the player behavior.
// Devices feed it events; the tick reads it.
type InputState struct {
	held      [numActions]bool
	lookDX    float32
	joyX      float32
	joyY      float32
	joyActive bool
}

// Apply folds one event into the state.
func (s *InputState) Apply(ev InputEvent) {
	switch ev.Kind {
	case EventKey:
		if ev.Action < numActions {
			s.held[ev.Action] = ev.Down
		}
	case EventLook:
		if isFinite(ev.DX) {
			s.lookDX = clampFloat(s.lookDX+ev.DX, -MaxLookDelta, MaxLookDelta)
		}
	case EventJoystick:
		if !isFinite(ev.X) || !isFinite(ev.Y) {
			return
		}
		s.joyX = clampFloat(ev.X, -1, 1)
		s.joyY = clampFloat(ev.Y, -1, 1)
		s.joyActive = true
	case EventJoystickRelease:
		s.joyX, s.joyY = 0, 0
		s.joyActive = false
	}
}

// Held reports whether an action is currently held.
func (s *InputState) Held(a Action) bool {
	return a < numActions && s.held[a]
}

// Axis returns the discrete movement direction, one unit per held axis.
func (s *InputState) Axis() (x, y, z float32) {
	if s.held[ActionForward] {
		y--
	}
	if s.held[ActionBackward] {
		y++
	}
	if s.held[ActionLeft] {
		x--
	}
	if s.held[ActionRight] {
		x++
	}
	if s.held[ActionUp] {
		z++
	}
	if s.held[ActionDown] {
		z--
	}
	return x, y, z
}

// Joystick returns the analog vector and whether a joystick is active.
func (s *InputState) Joystick() (x, y float32, ok bool) {
	return s.joyX, s.joyY, s.joyActive
}

// ConsumeLook returns the accumulated look delta and resets it.
func (s *InputState) ConsumeLook() float32 {
	dx := s.lookDX
	s.lookDX = 0
	return dx
}

// Reset releases everything.
func (s *InputState) Reset() {
	*s = InputState{}
}

// JoystickVector converts a drag from (startX, startY) to (curX, curY) into
// an analog vector. The drag is clamped to radius and scaled so a full
// deflection has magnitude 1.
func JoystickVector(startX, startY, curX, curY, radius float32) (x, y float32) {
	if radius <= 0 {
		return 0, 0
	}
	dx := curX - startX
	dy := curY - startY
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist == 0 {
		return 0, 0
	}
	if dist > radius {
		dx *= radius / dist
		dy *= radius / dist
	}
	return dx / radius, dy / radius
}
