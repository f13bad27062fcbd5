// Package gauge maps a bounded numeric domain onto a vertical pixel track and
// draws it as a thermometer: bar, weighted ticks and value labels.
package gauge

import (
	"errors"
	"github.com/chewxy/math32"
	"github.com/jypelle/tphmonitor/internal/gfx"
)

var (
	ErrReversedBounds  = errors.New("gauge: min is greater than max")
	ErrDegenerateScale = errors.New("gauge: scale has no usable pixel span")
	ErrMisalignedTicks = errors.New("gauge: major ticks do not fall on minor ticks")
)

const (
	topMargin    = 1 // border row above the header line
	bottomMargin = 5
	barWidth     = 4
	labelOffset  = 59 // labels end left of the zero marker
	longTickEach = 10 // scale units between long ticks
	tickEpsilon  = 1e-2
)

// Scale is the domain of a gauge. Minor is optional: 0 draws major ticks only.
type Scale struct {
	Min   float32 `yaml:"min"`
	Max   float32 `yaml:"max"`
	Major float32 `yaml:"major"`
	Minor float32 `yaml:"minor"`
}

// TrackTop is the first row of every track: a header line and a title line
// of text sit above it.
func TrackTop() int {
	return topMargin + 2*gfx.LineHeight()
}

type geometry struct {
	bottom, top, height int
	pxScale             float32
	majorPx, minorPx    int
}

// step is the pixel distance between two drawn ticks and the scale units it covers.
func (g geometry) step(sc Scale) (int, float32) {
	if g.minorPx > 0 {
		return g.minorPx, sc.Minor
	}
	return g.majorPx, sc.Major
}

// geometry lays the scale out on a surface of the given height. The unit
// scale divides by Max-Minor so the top minor tick lands on the track top.
func (sc Scale) geometry(surfaceHeight int) (geometry, error) {
	if sc.Min > sc.Max {
		return geometry{}, ErrReversedBounds
	}
	g := geometry{
		bottom: surfaceHeight - bottomMargin,
		top:    TrackTop(),
	}
	g.height = g.bottom - g.top
	span := sc.Max - sc.Minor
	if g.height <= 0 || span <= 0 {
		return geometry{}, ErrDegenerateScale
	}
	g.pxScale = float32(g.height) / span
	g.majorPx = int(sc.Major * g.pxScale)
	g.minorPx = int(sc.Minor * g.pxScale)

	if g.minorPx > 0 && g.majorPx%g.minorPx > 1 {
		return geometry{}, ErrMisalignedTicks
	}
	if px, _ := g.step(sc); px <= 0 {
		return geometry{}, ErrDegenerateScale
	}
	return g, nil
}

// Validate reports whether the scale can be drawn on a surface of the given height.
func (sc Scale) Validate(surfaceHeight int) error {
	_, err := sc.geometry(surfaceHeight)
	return err
}

// BarHeight returns the filled height in pixels for value, clamped to the track.
func (sc Scale) BarHeight(surfaceHeight int, value float32) (int, error) {
	g, err := sc.geometry(surfaceHeight)
	if err != nil {
		return 0, err
	}
	return g.barHeight(sc, value), nil
}

func (g geometry) barHeight(sc Scale, value float32) int {
	v := clamp(value, sc.Min, sc.Max)
	h := int(math32.Round((v - sc.Min) * g.pxScale))
	if h > g.height {
		h = g.height
	}
	if h < 0 {
		h = 0
	}
	return h
}

func clamp(v, lo, hi float32) float32 {
	if math32.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type tickWeight int

const (
	tickShort tickWeight = iota
	tickLong
	tickZero
)

// tickWeight picks the mark for the tick standing for value. The zero marker
// only goes on a tick whose value is zero, never on the tick nearest to it.
func (sc Scale) tickWeight(value float32) tickWeight {
	if math32.Abs(value) < tickEpsilon {
		return tickZero
	}
	if math32.Abs(math32.Remainder(value, longTickEach)) < tickEpsilon {
		return tickLong
	}
	return tickShort
}

func drawTick(s gfx.Surface, x, y int, w tickWeight) {
	switch w {
	case tickZero:
		gfx.DrawCircle(s, x-7, y, 2, gfx.Black)
		gfx.DrawLine(s, x-4, y, x, y, gfx.Black)
	case tickLong:
		gfx.DrawLine(s, x-4, y, x, y, gfx.Black)
	default:
		gfx.DrawLine(s, x-2, y, x, y, gfx.Black)
	}
}

// RenderVerticalScale draws a thermometer whose track line sits at column x.
// Low and high labels are drawn only when they differ from value. An invalid
// scale leaves the surface untouched. Nothing is sent to the panel.
func RenderVerticalScale(s gfx.Surface, x int, sc Scale, value, low, high float32) error {
	g, err := sc.geometry(s.Height())
	if err != nil {
		return err
	}

	// label slots stay inside the track rows
	labelW, labelH := gfx.TextBounds(FormatValue(0), 1)
	lowY := g.bottom - labelH
	midY := (g.top+g.bottom)/2 - labelH/2
	highY := g.top
	for _, y := range []int{lowY, midY, highY} {
		gfx.FillRect(s, x-labelOffset, y, labelW, labelH, gfx.White)
	}

	bar := g.barHeight(sc, value)
	gfx.FillRect(s, x+1, g.bottom-g.height, barWidth, g.height, gfx.White)
	gfx.FillRect(s, x+1, g.bottom-bar, barWidth, bar, gfx.Black)
	gfx.DrawLine(s, x, g.bottom, x, g.bottom-g.height, gfx.Black)

	px, unit := g.step(sc)
	for i := 0; i*px <= g.height; i++ {
		drawTick(s, x, g.bottom-i*px, sc.tickWeight(sc.Min + float32(i)*unit))
	}

	if low < value {
		gfx.DrawText(s, x-labelOffset, lowY, FormatValue(low), 1, gfx.Black)
	}
	gfx.DrawText(s, x-labelOffset, midY, FormatValue(value), 1, gfx.Black)
	if high > value {
		gfx.DrawText(s, x-labelOffset, highY, FormatValue(high), 1, gfx.Black)
	}
	return nil
}
