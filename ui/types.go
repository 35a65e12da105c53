// Package ui draws the meadow and its panels with raylib and turns
// keyboard, mouse and drag input into simulation input events.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 30, G: 26, B: 18, A: 230},
		PanelBorder:    rl.Color{R: 90, G: 75, B: 40, A: 255},
		SectionHeader:  rl.Gold,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 240, G: 190, B: 60, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// Palette colors for world entities.
var (
	colorGrass       = rl.Color{R: 88, G: 140, B: 60, A: 255}
	colorHive        = rl.Color{R: 190, G: 130, B: 40, A: 255}
	colorHiveRim     = rl.Color{R: 120, G: 80, B: 20, A: 255}
	colorFlower      = rl.Color{R: 230, G: 110, B: 170, A: 255}
	colorFlowerEmpty = rl.Color{R: 120, G: 90, B: 100, A: 255}
	colorPollen      = rl.Color{R: 255, G: 220, B: 60, A: 255}
	colorBee         = rl.Color{R: 250, G: 200, B: 30, A: 255}
	colorPlayer      = rl.Color{R: 255, G: 240, B: 120, A: 255}
	colorStripe      = rl.Color{R: 30, G: 25, B: 15, A: 255}
)
