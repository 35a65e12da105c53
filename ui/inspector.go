package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/beehive/game"
)

// pickRadius is the extra slack, in world units, around an entity for clicks.
const pickRadius = 6

// Selection tracks the inspected entity across frames by kind and ID.
type Selection struct {
	Kind  game.EntityKind
	ID    uint32
	Valid bool
}

// Find returns the selected entity in f, if it still exists.
func (s Selection) Find(f game.Frame) (game.EntityFrame, bool) {
	if !s.Valid {
		return game.EntityFrame{}, false
	}
	for _, e := range f.Entities {
		if e.Kind == s.Kind && e.ID == s.ID {
			return e, true
		}
	}
	return game.EntityFrame{}, false
}

// PickEntity returns the entity closest to (wx, wy) whose radius, plus some
// slack, covers the point. Agents win ties with the flowers under them.
func PickEntity(entities []game.EntityFrame, wx, wy float32) (game.EntityFrame, bool) {
	var best game.EntityFrame
	bestDist := float32(-1)
	bestAgent := false
	for _, e := range entities {
		dx := e.X - wx
		dy := e.Y - wy
		d2 := dx*dx + dy*dy
		reach := e.Radius + pickRadius
		if d2 > reach*reach {
			continue
		}
		agent := e.Kind == game.KindBee || e.Kind == game.KindPlayer
		switch {
		case bestDist < 0,
			agent && !bestAgent,
			agent == bestAgent && d2 < bestDist:
			best, bestDist, bestAgent = e, d2, agent
		}
	}
	return best, bestDist >= 0
}

// Inspector renders details for the selected entity.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector and returns the Y below it.
func (ins *Inspector) Draw(e game.EntityFrame) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	inner := ins.width - padding*2

	r.DrawPanel(ins.x, ins.y, ins.width, 130)

	y := r.DrawSectionHeader(ins.x+padding, ins.y+padding, entityTitle(e))
	y = r.DrawLabelValue(ins.x+padding, y, "Position", fmt.Sprintf("%.0f, %.0f, %.0f", e.X, e.Y, e.Z))

	switch e.Kind {
	case game.KindHive:
		y = r.DrawLabelValue(ins.x+padding, y, "Stored", fmt.Sprintf("%.1f", e.Pollen))
	case game.KindFlower:
		y = r.DrawFillBar(ins.x+padding, y, "Pollen", e.Pollen, e.Capacity, inner)
	default:
		y = r.DrawLabelValue(ins.x+padding, y, "Heading", fmt.Sprintf("%.0f deg", e.Yaw*180/3.14159265))
		y = r.DrawFillBar(ins.x+padding, y, "Carrying", e.Pollen, e.Capacity, inner)
		if e.State != "" {
			y = r.DrawLabelValue(ins.x+padding, y, "State", e.State)
		}
	}
	return y
}

func entityTitle(e game.EntityFrame) string {
	switch e.Kind {
	case game.KindHive:
		return "Hive"
	case game.KindFlower:
		return fmt.Sprintf("Flower #%d", e.ID)
	case game.KindPlayer:
		return fmt.Sprintf("Player (bee %d)", e.ID)
	default:
		return fmt.Sprintf("Bee %d", e.ID)
	}
}

// drawSelection outlines the selected entity on screen.
func drawSelection(sx, sy, radius float32) {
	rl.DrawCircleLines(int32(sx), int32(sy), radius+4, rl.White)
}
