package ui

import (
	"context"
	"errors"
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beehive/game"
	"github.com/pthm-cable/beehive/shop"
)

// ControlsPanel renders the overlay toggle legend.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "panels":
		return "Panels"
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// Store is the save surface the shop panel drives.
type Store interface {
	Purchase(kind shop.Kind) error
	Save(ctx context.Context) error
	Export() (string, error)
	Import(str string) error
}

// Clipboard moves save strings in and out of the system clipboard.
type Clipboard interface {
	SetText(s string)
	Text() string
}

// raylibClipboard is the window clipboard.
type raylibClipboard struct{}

func (raylibClipboard) SetText(s string) { rl.SetClipboardText(s) }
func (raylibClipboard) Text() string     { return rl.GetClipboardText() }

// ShopPanel renders upgrade buttons and the save controls.
type ShopPanel struct {
	renderer  *Renderer
	x, y      int32
	width     int32
	clipboard Clipboard
	status    string
}

// NewShopPanel creates a shop panel anchored at (x, y).
func NewShopPanel(x, y, width int32) *ShopPanel {
	return &ShopPanel{
		renderer:  NewRenderer(),
		x:         x,
		y:         y,
		width:     width,
		clipboard: raylibClipboard{},
	}
}

// SetPosition updates the panel position.
func (s *ShopPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

const shopRowH = 28

// Bounds returns the panel rectangle for a shop with n upgrades.
func (s *ShopPanel) Bounds(n int) rl.Rectangle {
	t := s.renderer.Theme
	height := t.Padding*3 + t.LineHeight*2 + int32(n+1)*shopRowH
	return rl.Rectangle{X: float32(s.x), Y: float32(s.y), Width: float32(s.width), Height: float32(height)}
}

// Draw renders the panel and runs whichever button was clicked.
func (s *ShopPanel) Draw(frame game.Frame, store Store) {
	r := s.renderer
	padding := r.Theme.Padding
	const rowH = shopRowH

	b := s.Bounds(len(frame.Upgrades))
	r.DrawPanel(s.x, s.y, s.width, int32(b.Height))

	y := r.DrawSectionHeader(s.x+padding, s.y+padding, "Upgrades")
	btnW := float32(s.width - padding*2)

	for _, u := range frame.Upgrades {
		label := fmt.Sprintf("%s (Lv %d) - %.0f", u.Name, u.Level, u.Cost)
		if u.Maxed {
			label = fmt.Sprintf("%s (Lv %d) - MAX", u.Name, u.Level)
		}
		bounds := rl.Rectangle{X: float32(s.x + padding), Y: float32(y), Width: btnW, Height: rowH - 4}
		if gui.Button(bounds, label) && !u.Maxed {
			s.status = purchaseStatus(store.Purchase(shop.Kind(u.Kind)), u.Name)
		}
		y += rowH
	}

	third := (btnW - 8) / 3
	row := rl.Rectangle{X: float32(s.x + padding), Y: float32(y), Width: third, Height: rowH - 4}
	if gui.Button(row, "Save") {
		s.status = "Saved"
		if err := store.Save(context.Background()); err != nil {
			s.status = "Save failed"
		}
	}
	row.X += third + 4
	if gui.Button(row, "Export") {
		s.export(store)
	}
	row.X += third + 4
	if gui.Button(row, "Import") {
		s.status = "Imported"
		if err := store.Import(s.clipboard.Text()); err != nil {
			s.status = ""
		}
	}
	y += rowH

	if s.status != "" {
		rl.DrawText(s.status, s.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
	}
}

func (s *ShopPanel) export(store Store) {
	str, err := store.Export()
	if err != nil {
		s.status = "Export failed"
		return
	}
	s.clipboard.SetText(str)
	s.status = "Save copied to clipboard"
}

// purchaseStatus turns a purchase result into a one-line status.
func purchaseStatus(err error, name string) string {
	switch {
	case err == nil:
		return "Bought " + name
	case errors.Is(err, shop.ErrInsufficientFunds):
		return "Not enough honey"
	case errors.Is(err, shop.ErrMaxLevel):
		return name + " is maxed"
	default:
		return "Purchase failed"
	}
}
