package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/beehive/systems"
)

// InputSink receives input events for the next tick.
type InputSink interface {
	Enqueue(ev systems.InputEvent) bool
	ReleaseInput()
}

// KeyBinding maps a keyboard key to a movement action.
type KeyBinding struct {
	Key    int32
	Action systems.Action
}

// DefaultBindings covers WASD, the arrows, Q/E for altitude and space to jump.
var DefaultBindings = []KeyBinding{
	{rl.KeyW, systems.ActionForward},
	{rl.KeyUp, systems.ActionForward},
	{rl.KeyS, systems.ActionBackward},
	{rl.KeyDown, systems.ActionBackward},
	{rl.KeyA, systems.ActionLeft},
	{rl.KeyLeft, systems.ActionLeft},
	{rl.KeyD, systems.ActionRight},
	{rl.KeyRight, systems.ActionRight},
	{rl.KeyE, systems.ActionUp},
	{rl.KeyQ, systems.ActionDown},
	{rl.KeySpace, systems.ActionJump},
}

// KeyEvents folds per-key held state into per-action transitions.
// An action stays down while any of its keys is held, so releasing one of
// two bound keys does not release the action.
type KeyEvents struct {
	bindings []KeyBinding
	held     map[systems.Action]bool
}

// NewKeyEvents creates a tracker for bindings.
func NewKeyEvents(bindings []KeyBinding) *KeyEvents {
	return &KeyEvents{bindings: bindings, held: make(map[systems.Action]bool)}
}

// Update takes the current key state and returns the action changes.
func (k *KeyEvents) Update(isDown func(key int32) bool) []systems.InputEvent {
	now := make(map[systems.Action]bool, len(k.bindings))
	for _, b := range k.bindings {
		if isDown(b.Key) {
			now[b.Action] = true
		}
	}

	var events []systems.InputEvent
	for _, b := range k.bindings {
		a := b.Action
		if now[a] == k.held[a] {
			continue
		}
		k.held[a] = now[a]
		events = append(events, systems.InputEvent{Kind: systems.EventKey, Action: a, Down: now[a]})
	}
	return events
}

// Reset forgets held actions, as after focus loss.
func (k *KeyEvents) Reset() {
	clear(k.held)
}

// Joystick is an on-screen virtual stick driven by a mouse or touch drag
// that starts inside its zone.
type Joystick struct {
	Zone   rl.Rectangle
	Radius float32

	active             bool
	startX, startY     float32
	currentX, currentY float32
}

// NewJoystick creates a stick whose drags must start inside zone.
func NewJoystick(zone rl.Rectangle, radius float32) *Joystick {
	return &Joystick{Zone: zone, Radius: radius}
}

// Active reports whether a drag is in progress.
func (j *Joystick) Active() bool {
	return j.active
}

// Begin starts a drag at (x, y). It returns false if the point is outside the zone.
func (j *Joystick) Begin(x, y float32) bool {
	if x < j.Zone.X || x > j.Zone.X+j.Zone.Width || y < j.Zone.Y || y > j.Zone.Y+j.Zone.Height {
		return false
	}
	j.active = true
	j.startX, j.startY = x, y
	j.currentX, j.currentY = x, y
	return true
}

// Move updates the drag and returns the joystick event for it.
func (j *Joystick) Move(x, y float32) (systems.InputEvent, bool) {
	if !j.active {
		return systems.InputEvent{}, false
	}
	j.currentX, j.currentY = x, y
	vx, vy := systems.JoystickVector(j.startX, j.startY, x, y, j.Radius)
	return systems.InputEvent{Kind: systems.EventJoystick, X: vx, Y: vy}, true
}

// End finishes the drag and returns the release event.
func (j *Joystick) End() (systems.InputEvent, bool) {
	if !j.active {
		return systems.InputEvent{}, false
	}
	j.active = false
	return systems.InputEvent{Kind: systems.EventJoystickRelease}, true
}

// Draw renders the stick base and knob while dragging.
func (j *Joystick) Draw() {
	if !j.active {
		rl.DrawRectangleLinesEx(j.Zone, 1, rl.Color{R: 255, G: 255, B: 255, A: 40})
		return
	}
	vx, vy := systems.JoystickVector(j.startX, j.startY, j.currentX, j.currentY, j.Radius)
	base := rl.Vector2{X: j.startX, Y: j.startY}
	knob := rl.Vector2{X: j.startX + vx*j.Radius, Y: j.startY + vy*j.Radius}
	rl.DrawCircleV(base, j.Radius, rl.Color{R: 255, G: 255, B: 255, A: 50})
	rl.DrawCircleLines(int32(base.X), int32(base.Y), j.Radius, rl.Color{R: 255, G: 255, B: 255, A: 120})
	rl.DrawCircleV(knob, j.Radius*0.4, rl.Color{R: 255, G: 255, B: 255, A: 160})
}

// Controller polls raylib devices each frame and forwards input events.
type Controller struct {
	sink     InputSink
	keys     *KeyEvents
	joystick *Joystick
	focused  bool
	dropped  int
}

// NewController creates a controller writing to sink.
func NewController(sink InputSink, joystick *Joystick) *Controller {
	return &Controller{
		sink:     sink,
		keys:     NewKeyEvents(DefaultBindings),
		joystick: joystick,
		focused:  true,
	}
}

// Dropped returns how many events the sink refused.
func (c *Controller) Dropped() int {
	return c.dropped
}

// Poll reads keyboard, mouse look and joystick drag. blocked reports
// that the pointer is over a panel, so left clicks belong to the UI.
func (c *Controller) Poll(blocked bool) {
	focused := rl.IsWindowFocused()
	if !focused {
		if c.focused {
			c.keys.Reset()
			c.joystick.End()
			c.sink.ReleaseInput()
		}
		c.focused = false
		return
	}
	c.focused = true

	for _, ev := range c.keys.Update(func(key int32) bool { return rl.IsKeyDown(key) }) {
		c.send(ev)
	}

	// Right-drag turns the player
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		if dx := rl.GetMouseDelta().X; dx != 0 {
			c.send(systems.InputEvent{Kind: systems.EventLook, DX: dx})
		}
	}

	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !blocked {
		c.joystick.Begin(mouse.X, mouse.Y)
	}
	if c.joystick.Active() {
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			if ev, ok := c.joystick.Move(mouse.X, mouse.Y); ok {
				c.send(ev)
			}
		} else if ev, ok := c.joystick.End(); ok {
			c.send(ev)
		}
	}
}

func (c *Controller) send(ev systems.InputEvent) {
	if !c.sink.Enqueue(ev) {
		c.dropped++
	}
}
