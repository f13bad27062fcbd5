package gfx

import (
	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"image"
)

var textFace = bitmapfont.Face

// LineHeight is the height in pixels of one line of text at size 1. Layouts
// stack their text rows with it.
func LineHeight() int {
	return textFace.Metrics().Height.Ceil()
}

// TextBounds returns the size in pixels of text drawn at the given size multiplier.
func TextBounds(text string, size int) (w, h int) {
	if size < 1 {
		size = 1
	}
	return font.MeasureString(textFace, text).Ceil() * size, LineHeight() * size
}

// DrawText draws text with its top left corner at (x,y). Each lit glyph pixel
// becomes a size x size block. Only foreground pixels are painted.
func DrawText(s Surface, x, y int, text string, size int, c Color) {
	if size < 1 {
		size = 1
	}
	w, h := TextBounds(text, 1)
	if w == 0 || h == 0 {
		return
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: textFace,
		Dot:  fixed.P(0, textFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	for gy := 0; gy < h; gy++ {
		for gx := 0; gx < w; gx++ {
			if mask.AlphaAt(gx, gy).A < 0x80 {
				continue
			}
			if size == 1 {
				s.SetPixel(x+gx, y+gy, c)
			} else {
				FillRect(s, x+gx*size, y+gy*size, size, size, c)
			}
		}
	}
}
