package gauge

import (
	"fmt"
	"github.com/jypelle/tphmonitor/internal/gfx"
	"strings"
)

// Position is the screen region a gauge is pinned to.
type Position int

const (
	Left Position = iota
	Center
	Right
)

var positionNames = []string{"left", "center", "right"}

func (p Position) String() string {
	if p < Left || p > Right {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

func ParsePosition(s string) (Position, error) {
	for i, name := range positionNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Position(i), nil
		}
	}
	return 0, fmt.Errorf("gauge: unknown position %q", s)
}

// Gauge is one thermometer of the dashboard.
type Gauge struct {
	position  Position
	title     string
	scale     Scale
	current   float32
	watermark Watermark
}

func New(position Position, title string, scale Scale) *Gauge {
	return &Gauge{
		position:  position,
		title:     title,
		scale:     scale,
		watermark: NewWatermark(),
	}
}

// SetCurrentValue records a new reading and widens the watermark.
func (g *Gauge) SetCurrentValue(v float32) {
	g.current = v
	g.watermark.Update(v)
}

func (g *Gauge) Position() Position { return g.position }
func (g *Gauge) Title() string      { return g.title }
func (g *Gauge) Scale() Scale       { return g.scale }
func (g *Gauge) Current() float32   { return g.current }
func (g *Gauge) Low() float32       { return g.watermark.Low }
func (g *Gauge) High() float32      { return g.watermark.High }

// Render draws the gauge with its track at column x.
func (g *Gauge) Render(s gfx.Surface, x int) error {
	return RenderVerticalScale(s, x, g.scale, g.current, g.watermark.Low, g.watermark.High)
}
