package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beehive/camera"
	"github.com/pthm-cable/beehive/game"
	"github.com/pthm-cable/beehive/renderer"
	"github.com/pthm-cable/beehive/systems"
)

const controlsLegend = "WASD/arrows: move | Q/E: down/up | Space: jump | Right-drag: look | P: pause | </>: speed | H: overlays"

// Viewer owns the window-side state: camera, panels and device input.
// The window must be open before NewViewer is called.
type Viewer struct {
	game *game.Game

	cam        *camera.Camera
	world      *WorldView
	overlays   *OverlayRegistry
	registry   *systems.SystemRegistry
	controller *Controller
	joystick   *Joystick

	hud       *HUD
	perf      *PerfPanel
	shop      *ShopPanel
	controls  *ControlsPanel
	inspector *Inspector
	effects   *renderer.Effects

	frame     game.Frame
	selection Selection

	screenW, screenH int32
}

// NewViewer creates a viewer for g sized to the current window.
func NewViewer(g *game.Game) *Viewer {
	cfg := g.Config()
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())

	cam := camera.New(float32(w), float32(h), cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	pos := g.PlayerPosition()
	cam.CenterOn(pos.X, pos.Y)

	overlays := NewOverlayRegistry()
	joystick := NewJoystick(joystickZone(w, h), 60)

	v := &Viewer{
		game:       g,
		cam:        cam,
		world:      NewWorldView(cam, overlays, float32(cfg.Bees.SenseRange)),
		overlays:   overlays,
		registry:   systems.NewSystemRegistry(),
		controller: NewController(g, joystick),
		joystick:   joystick,
		hud:        NewHUD(),
		perf:       NewPerfPanel(15, 140),
		shop:       NewShopPanel(w-250, 10, 240),
		controls:   NewControlsPanel(15, 140, 220),
		inspector:  NewInspector(w-250, h-150, 240),
		effects:    renderer.NewEffects(500),
		screenW:    w,
		screenH:    h,
	}
	v.frame = g.Frame()
	v.effects.Observe(v.frame)
	return v
}

// joystickZone is the lower-left corner of the screen.
func joystickZone(w, h int32) rl.Rectangle {
	return rl.Rectangle{X: 0, Y: float32(h) / 2, Width: float32(w) / 3, Height: float32(h) / 2}
}

// Update handles window input, advances the game and follows the player.
func (v *Viewer) Update() {
	v.handleResize()
	v.handleKeys()
	v.handleCamera()

	mouse := rl.GetMousePosition()
	overPanel := v.overPanel(mouse)
	v.controller.Poll(overPanel)
	if !overPanel && !v.joystick.Active() && rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		v.selectAt(mouse)
	}

	v.game.Update()
	v.frame = v.game.Frame()
	v.effects.Observe(v.frame)
	v.effects.Update()

	for _, e := range v.frame.Entities {
		if e.Kind == game.KindPlayer {
			v.cam.Follow(e.X, e.Y)
			break
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h
	v.cam.Resize(float32(w), float32(h))
	v.joystick.Zone = joystickZone(w, h)
	v.shop.SetPosition(w-250, 10)
	v.inspector.SetPosition(w-250, h-150)
}

// handleKeys processes window and simulation keys. Movement keys are
// read by the controller.
func (v *Viewer) handleKeys() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.game.TogglePause()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		v.game.SetSpeed(v.game.Speed() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.game.SetSpeed(v.game.Speed() + 1)
	}

	if rl.IsKeyPressed(rl.KeyH) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		v.selection = Selection{}
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		v.overlays.HandleKeyPress(key)
	}
}

// handleCamera processes zoom controls; position follows the player.
func (v *Viewer) handleCamera() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.SetZoom(1)
	}
}

func (v *Viewer) overPanel(mouse rl.Vector2) bool {
	if v.overlays.IsEnabled(OverlayShop) && rl.CheckCollisionPointRec(mouse, v.shop.Bounds(len(v.frame.Upgrades))) {
		return true
	}
	return false
}

func (v *Viewer) selectAt(mouse rl.Vector2) {
	wx, wy := v.cam.ScreenToWorld(mouse.X, mouse.Y)
	e, ok := PickEntity(v.frame.Entities, wx, wy)
	if !ok {
		v.selection = Selection{}
		return
	}
	v.selection = Selection{Kind: e.Kind, ID: e.ID, Valid: true}
}

// Draw renders the world and all panels.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	v.world.Draw(v.frame, v.selection)
	v.effects.Draw(v.cam)
	v.joystick.Draw()

	carrier := v.game.PlayerCarrier()
	v.hud.Draw(HUDData{
		Title:          "Beehive",
		Honey:          v.frame.Honey,
		StoredPollen:   v.frame.StoredPollen,
		ConversionRate: v.frame.ConversionRate,
		PlayerPollen:   carrier.Pollen.Amount,
		PlayerCapacity: carrier.Pollen.Capacity,
		BeeCount:       v.game.BeeCount(),
		Tick:           v.frame.Tick,
		Speed:          v.game.Speed(),
		FPS:            rl.GetFPS(),
		Paused:         v.frame.Paused,
		Notice:         v.frame.Notice,
		ScreenWidth:    v.screenW,
		ScreenHeight:   v.screenH,
	})

	if v.overlays.IsEnabled(OverlayShop) {
		v.shop.Draw(v.frame, v.game)
	}

	y := v.controls.Draw(v.overlays)
	if v.overlays.IsEnabled(OverlayPerf) {
		stats := v.game.PerfStats()
		v.perf.SetPosition(23, y+8)
		v.perf.Draw(PerfPanelData{
			PhaseTimes: stats.PhaseAvg,
			Total:      stats.AvgTickDuration,
			Registry:   v.registry,
		})
	}

	if e, ok := v.selection.Find(v.frame); ok {
		v.inspector.Draw(e)
	}

	v.hud.DrawControls(v.screenW, v.screenH, controlsLegend)
}
