// Package papirus is the convenience layer the dashboard draws through:
// borders, text that replaces what was there, and thermometer scales.
package papirus

import (
	"github.com/jypelle/tphmonitor/internal/gauge"
	"github.com/jypelle/tphmonitor/internal/gfx"
	"github.com/sirupsen/logrus"
)

// Refresher pushes the drawn surface to the physical panel.
type Refresher interface {
	Display(tempC float32) error
	Clear(tempC float32) error
}

type Papirus struct {
	surface   gfx.Surface
	refresher Refresher
}

func New(surface gfx.Surface, refresher Refresher) *Papirus {
	return &Papirus{
		surface:   surface,
		refresher: refresher,
	}
}

func (p *Papirus) Surface() gfx.Surface {
	return p.surface
}

// AddBorder draws borderWidth nested rectangles inward from (x,y).
// A zero w or h spans the whole surface.
func (p *Papirus) AddBorder(x, y, w, h, borderWidth int) {
	if w <= 0 {
		w = p.surface.Width() - x
	}
	if h <= 0 {
		h = p.surface.Height() - y
	}
	for i := 0; i < borderWidth; i++ {
		gfx.DrawRect(p.surface, x+i, y+i, w-2*i, h-2*i, gfx.Black)
	}
}

// AddText replaces whatever was under the text box with text.
func (p *Papirus) AddText(x, y int, text string, size int) {
	p.RmText(x, y, text, size)
	gfx.DrawText(p.surface, x, y, text, size, gfx.Black)
}

// RmText erases the box text would occupy.
func (p *Papirus) RmText(x, y int, text string, size int) {
	w, h := gfx.TextBounds(text, size)
	gfx.FillRect(p.surface, x, y, w, h, gfx.White)
}

// AddVertScale draws a thermometer with its track at column x.
func (p *Papirus) AddVertScale(x int, scale gauge.Scale, value, low, high float32) error {
	return gauge.RenderVerticalScale(p.surface, x, scale, value, low, high)
}

func (p *Papirus) FullUpdate(tempC float32) error {
	logrus.Debugf("Full panel update at %.1f°C", tempC)
	return p.refresher.Display(tempC)
}

func (p *Papirus) Clear(tempC float32) error {
	return p.refresher.Clear(tempC)
}
