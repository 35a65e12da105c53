package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/beehive/systems"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Honey          float64
	StoredPollen   float64
	ConversionRate float64
	PlayerPollen   float64
	PlayerCapacity float64
	BeeCount       int
	Tick           int32
	Speed          int
	FPS            int32
	Paused         bool
	Notice         string
	ScreenWidth    int32
	ScreenHeight   int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	r.DrawPanel(5, 5, 290, 120)

	rl.DrawText(data.Title, 15, 12, 20, rl.Gold)

	rl.DrawText(
		fmt.Sprintf("Honey: %.0f | Hive pollen: %.0f", data.Honey, data.StoredPollen),
		15, 37, 16, rl.RayWhite,
	)
	rl.DrawText(
		fmt.Sprintf("Bees: %d | Rate: %.2f/s", data.BeeCount, data.ConversionRate),
		15, 57, 14, rl.LightGray,
	)
	r.DrawFillBar(15, 77, "Carrying", data.PlayerPollen, data.PlayerCapacity, 270)

	status := fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS)
	statusColor := rl.LightGray
	if data.Paused {
		status += " | PAUSED"
		statusColor = rl.Yellow
	}
	rl.DrawText(status, 15, 100, 12, statusColor)

	if data.Notice != "" {
		h.drawNotice(data.Notice, data.ScreenWidth, data.ScreenHeight)
	}
}

// drawNotice centers a transient message near the top of the screen.
func (h *HUD) drawNotice(msg string, screenW, screenH int32) {
	const size = 24
	w := rl.MeasureText(msg, size)
	x := (screenW - w) / 2
	y := screenH / 6
	rl.DrawRectangle(x-12, y-8, w+24, size+16, rl.Color{R: 0, G: 0, B: 0, A: 180})
	rl.DrawText(msg, x, y, size, rl.Red)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseTimes map[string]time.Duration
	Total      time.Duration
	Registry   *systems.SystemRegistry
}

// PerfPanel renders the tick phase performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with phases in tick order.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	var ids []string
	if data.Registry != nil {
		ids = data.Registry.IDs()
	}

	p.renderer.DrawPanel(x-8, y-8, 250, int32(len(ids))*14+52)

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s", data.Total.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, id := range ids {
		avg := data.PhaseTimes[id]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-13s %6s %5.1f%%", data.Registry.GetName(id), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
