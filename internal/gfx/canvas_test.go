package gfx

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNewCanvas(t *testing.T) {
	c := NewCanvas(264, 176, Rotation0)
	assert.Equal(t, 264, c.Width())
	assert.Equal(t, 176, c.Height())
	assert.Len(t, c.Bytes(), 264*176/8)

	assert.Panics(t, func() { NewCanvas(100, 10, Rotation0) })
	assert.Panics(t, func() { NewCanvas(0, 10, Rotation0) })
}

func TestCanvasLogicalSize(t *testing.T) {
	tests := []struct {
		rotation Rotation
		w, h     int
	}{
		{Rotation0, 200, 96},
		{Rotation90, 96, 200},
		{Rotation180, 200, 96},
		{Rotation270, 96, 200},
	}
	for _, tt := range tests {
		c := NewCanvas(200, 96, tt.rotation)
		assert.Equal(t, tt.w, c.Width(), "rotation %d", tt.rotation)
		assert.Equal(t, tt.h, c.Height(), "rotation %d", tt.rotation)
	}
}

func TestSetPixelPacking(t *testing.T) {
	c := NewCanvas(16, 2, Rotation0)

	c.SetPixel(0, 0, Black)
	c.SetPixel(9, 1, Black)
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x02}, c.Bytes())

	c.SetPixel(0, 0, White)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x02}, c.Bytes())
}

func TestSetPixelRotationMapping(t *testing.T) {
	tests := []struct {
		name     string
		rotation Rotation
		x, y     int
		px, py   int
	}{
		{"identity", Rotation0, 3, 5, 3, 5},
		{"90", Rotation90, 3, 5, 16 - 1 - 5, 3},
		{"180", Rotation180, 3, 5, 16 - 1 - 3, 8 - 1 - 5},
		{"270", Rotation270, 3, 5, 5, 8 - 1 - 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(16, 8, tt.rotation)
			c.SetPixel(tt.x, tt.y, Black)

			want := NewCanvas(16, 8, Rotation0)
			want.SetPixel(tt.px, tt.py, Black)
			assert.Equal(t, want.Bytes(), c.Bytes())
		})
	}
}

func TestSetPixelRoundTripIsBijection(t *testing.T) {
	for r := Rotation0; r <= Rotation270; r++ {
		c := NewCanvas(24, 16, r)
		seen := make(map[[2]int]bool)
		for y := 0; y < c.Height(); y++ {
			for x := 0; x < c.Width(); x++ {
				c.SetPixel(x, y, Black)
				require.Equal(t, Black, c.Pixel(x, y), "rotation %d (%d,%d)", r, x, y)

				px, py, ok := c.transform(x, y)
				require.True(t, ok)
				key := [2]int{px, py}
				require.False(t, seen[key], "rotation %d collides at (%d,%d)", r, x, y)
				seen[key] = true
			}
		}
		assert.Len(t, seen, 24*16)
		for _, b := range c.Bytes() {
			assert.Equal(t, byte(0xff), b)
		}
	}
}

func TestSetPixelOutOfBoundsIsNoop(t *testing.T) {
	for r := Rotation0; r <= Rotation270; r++ {
		c := NewCanvas(16, 8, r)
		before := append([]byte(nil), c.Bytes()...)

		points := [][2]int{
			{-1, 0}, {0, -1}, {c.Width(), 0}, {0, c.Height()},
			{c.Width(), c.Height()}, {-100, 100}, {1 << 20, 3},
		}
		for _, p := range points {
			c.SetPixel(p[0], p[1], Black)
			assert.Equal(t, White, c.Pixel(p[0], p[1]))
		}
		assert.True(t, bytes.Equal(before, c.Bytes()), "rotation %d", r)
	}
}

func TestCanvasClearAndImage(t *testing.T) {
	c := NewCanvas(8, 4, Rotation90)
	c.SetPixel(1, 2, Black)

	img := c.Image()
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
	assert.Equal(t, uint8(0), img.GrayAt(1, 2).Y)
	assert.Equal(t, uint8(0xff), img.GrayAt(0, 0).Y)

	c.Clear()
	assert.Equal(t, White, c.Pixel(1, 2))
}

func TestSetPixelClipsOnLogicalBounds(t *testing.T) {
	c := NewCanvas(200, 96, Rotation90)
	before := append([]byte(nil), c.Bytes()...)

	// inside the physical 200x96 rectangle, outside the logical 96x200 one
	c.SetPixel(150, 10, Black)
	assert.Equal(t, before, c.Bytes())

	// logical bottom right corner lands on physical (0,95)
	c.SetPixel(95, 199, Black)
	assert.Equal(t, byte(0x01), c.Bytes()[95*200/8])
}
