// Package gfx holds the monochrome framebuffer used by the e-paper panel and
// the primitive drawing operations built on top of it.
//
// Every primitive goes through Surface.SetPixel, so rotation and clipping are
// applied in exactly one place.
package gfx

import (
	"image"
	"image/color"
)

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Rotation is a clockwise quarter turn count (0..3).
type Rotation uint8

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Surface is anything the drawing layer can paint on.
// Width and Height are the logical, rotation-aware dimensions.
type Surface interface {
	SetPixel(x, y int, c Color)
	Width() int
	Height() int
	Rotation() Rotation
}

// Canvas is a byte-packed 1 bit per pixel framebuffer.
// Pixel (x,y) lives in byte x/8 + y*W/8, bit x&7 (LSB first); a set bit is black.
type Canvas struct {
	w, h     int
	rotation Rotation
	pix      []byte
}

var _ Surface = (*Canvas)(nil)

// NewCanvas creates an all white canvas. w must be a multiple of 8.
func NewCanvas(w, h int, rotation Rotation) *Canvas {
	if w <= 0 || h <= 0 || w%8 != 0 {
		panic("gfx: canvas width must be a positive multiple of 8")
	}
	return &Canvas{
		w:        w,
		h:        h,
		rotation: rotation & 3,
		pix:      make([]byte, w*h/8),
	}
}

func (c *Canvas) PhysicalWidth() int  { return c.w }
func (c *Canvas) PhysicalHeight() int { return c.h }

func (c *Canvas) Width() int {
	if c.rotation&1 == 1 {
		return c.h
	}
	return c.w
}

func (c *Canvas) Height() int {
	if c.rotation&1 == 1 {
		return c.w
	}
	return c.h
}

func (c *Canvas) Rotation() Rotation {
	return c.rotation
}

func (c *Canvas) SetRotation(r Rotation) {
	c.rotation = r & 3
}

// transform maps a logical coordinate to the physical bitmap.
// ok is false when the logical coordinate is off the canvas.
func (c *Canvas) transform(x, y int) (px, py int, ok bool) {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return 0, 0, false
	}
	switch c.rotation {
	case Rotation90:
		return c.w - 1 - y, x, true
	case Rotation180:
		return c.w - 1 - x, c.h - 1 - y, true
	case Rotation270:
		return y, c.h - 1 - x, true
	}
	return x, y, true
}

func (c *Canvas) offset(px, py int) (index int, mask byte) {
	return px/8 + py*(c.w/8), 1 << uint(px&7)
}

// SetPixel paints one pixel. Clipping uses the logical, rotation-aware
// bounds [0,Width)x[0,Height) rather than the physical ones: on a quarter
// turned, non square canvas a point inside the physical rectangle but outside
// the logical one would otherwise land on a wrapped or out of range byte.
// Off-canvas coordinates are dropped.
func (c *Canvas) SetPixel(x, y int, col Color) {
	px, py, ok := c.transform(x, y)
	if !ok {
		return
	}
	index, mask := c.offset(px, py)
	if col == Black {
		c.pix[index] |= mask
	} else {
		c.pix[index] &^= mask
	}
}

// Pixel reads back one logical pixel; off-canvas reads are White.
func (c *Canvas) Pixel(x, y int) Color {
	px, py, ok := c.transform(x, y)
	if !ok {
		return White
	}
	index, mask := c.offset(px, py)
	if c.pix[index]&mask != 0 {
		return Black
	}
	return White
}

// Clear resets every pixel to White.
func (c *Canvas) Clear() {
	for i := range c.pix {
		c.pix[i] = 0
	}
}

// Bytes returns the live bitmap in physical order.
func (c *Canvas) Bytes() []byte {
	return c.pix
}

// Image returns a logical (rotated) snapshot of the canvas.
func (c *Canvas) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, c.Width(), c.Height()))
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			if c.Pixel(x, y) == Black {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return img
}
