package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/beehive/camera"
	"github.com/pthm-cable/beehive/game"
)

// WorldView draws frame entities through the camera.
type WorldView struct {
	cam        *camera.Camera
	overlays   *OverlayRegistry
	senseRange float32
}

// NewWorldView creates a world view.
func NewWorldView(cam *camera.Camera, overlays *OverlayRegistry, senseRange float32) *WorldView {
	return &WorldView{cam: cam, overlays: overlays, senseRange: senseRange}
}

// Draw renders the ground, then hive, flowers and agents in frame order.
func (w *WorldView) Draw(f game.Frame, sel Selection) {
	rl.ClearBackground(rl.Color{R: 50, G: 80, B: 35, A: 255})

	x0, y0 := w.cam.WorldToScreen(0, 0)
	x1, y1 := w.cam.WorldToScreen(w.cam.WorldW, w.cam.WorldH)
	rl.DrawRectangle(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), colorGrass)

	for _, e := range f.Entities {
		if !w.cam.IsVisible(e.X, e.Y, e.Radius*2) {
			continue
		}
		sx, sy := w.cam.WorldToScreen(e.X, e.Y)
		r := e.Radius * w.cam.Zoom
		switch e.Kind {
		case game.KindHive:
			w.drawHive(sx, sy, r)
		case game.KindFlower:
			w.drawFlower(e, sx, sy, r)
		default:
			w.drawBee(e, sx, sy, r)
		}
		if w.overlays.IsEnabled(OverlayContacts) {
			rl.DrawCircleLines(int32(sx), int32(sy), r, rl.Color{R: 255, G: 255, B: 255, A: 90})
		}
		if sel.Valid && sel.Kind == e.Kind && sel.ID == e.ID {
			drawSelection(sx, sy, r)
		}
	}
}

func (w *WorldView) drawHive(sx, sy, r float32) {
	// Hexagon like a comb cell
	rl.DrawPoly(rl.Vector2{X: sx, Y: sy}, 6, r, 30, colorHive)
	rl.DrawPolyLinesEx(rl.Vector2{X: sx, Y: sy}, 6, r, 30, 3, colorHiveRim)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r*0.25, colorStripe)
}

func (w *WorldView) drawFlower(e game.EntityFrame, sx, sy, r float32) {
	fill := fillRatio(e.Pollen, e.Capacity)
	petal := lerpColor(colorFlowerEmpty, colorFlower, fill)

	for i := 0; i < 5; i++ {
		a := float64(i) * 2 * math.Pi / 5
		px := sx + float32(math.Cos(a))*r*0.6
		py := sy + float32(math.Sin(a))*r*0.6
		rl.DrawCircleV(rl.Vector2{X: px, Y: py}, r*0.5, petal)
	}
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r*0.4, colorPollen)

	if w.overlays.IsEnabled(OverlayLoadRings) {
		drawRing(sx, sy, r+3, fill, colorPollen)
	}
}

func (w *WorldView) drawBee(e game.EntityFrame, sx, sy, r float32) {
	body := colorBee
	if e.Kind == game.KindPlayer {
		body = colorPlayer
	}

	// Altitude lifts the sprite and leaves a shadow behind
	lift := e.Z * w.cam.Zoom
	if lift > 0 {
		rl.DrawEllipse(int32(sx), int32(sy), r, r*0.5, rl.Color{R: 0, G: 0, B: 0, A: 60})
	}
	cy := sy - lift

	fx := float32(math.Cos(float64(e.Yaw)))
	fy := float32(math.Sin(float64(e.Yaw)))
	rl.DrawCircleV(rl.Vector2{X: sx, Y: cy}, r, body)
	rl.DrawLineEx(
		rl.Vector2{X: sx - fy*r, Y: cy + fx*r},
		rl.Vector2{X: sx + fy*r, Y: cy - fx*r},
		r*0.3, colorStripe,
	)
	rl.DrawCircleV(rl.Vector2{X: sx + fx*r, Y: cy + fy*r}, r*0.35, colorStripe)

	if e.Kind == game.KindPlayer {
		rl.DrawCircleLines(int32(sx), int32(cy), r+2, rl.White)
	}
	if w.overlays.IsEnabled(OverlayLoadRings) {
		drawRing(sx, cy, r+4, fillRatio(e.Pollen, e.Capacity), colorPollen)
	}
	if w.overlays.IsEnabled(OverlayStateLabels) && e.State != "" {
		rl.DrawText(e.State, int32(sx+r+4), int32(cy-6), 10, rl.White)
	}
	if w.overlays.IsEnabled(OverlaySenseRange) && e.State != "" && w.senseRange > 0 {
		rl.DrawCircleLines(int32(sx), int32(cy), w.senseRange*w.cam.Zoom, rl.Color{R: 255, G: 255, B: 255, A: 50})
	}
}

// drawRing draws an arc proportional to fill, starting at twelve o'clock.
func drawRing(sx, sy, r, fill float32, color rl.Color) {
	if fill <= 0 {
		return
	}
	rl.DrawRing(rl.Vector2{X: sx, Y: sy}, r, r+2, -90, -90+360*fill, 24, color)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	mix := func(x, y uint8) uint8 { return uint8(float32(x) + (float32(y)-float32(x))*t) }
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
