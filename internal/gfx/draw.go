package gfx

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DrawLine draws a line from (x0,y0) to (x1,y1) with Bresenham's algorithm.
func DrawLine(s Surface, x0, y0, x1, y1 int, c Color) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	err := dx / 2
	yStep := 1
	if y0 > y1 {
		yStep = -1
	}

	for ; x0 <= x1; x0++ {
		if steep {
			s.SetPixel(y0, x0, c)
		} else {
			s.SetPixel(x0, y0, c)
		}
		err -= dy
		if err < 0 {
			y0 += yStep
			err += dx
		}
	}
}

func DrawHLine(s Surface, x, y, w int, c Color) {
	for i := 0; i < w; i++ {
		s.SetPixel(x+i, y, c)
	}
}

func DrawVLine(s Surface, x, y, h int, c Color) {
	for i := 0; i < h; i++ {
		s.SetPixel(x, y+i, c)
	}
}

// DrawRect draws the outline of a w x h rectangle with its top left corner at (x,y).
func DrawRect(s Surface, x, y, w, h int, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	DrawHLine(s, x, y, w, c)
	DrawHLine(s, x, y+h-1, w, c)
	DrawVLine(s, x, y, h, c)
	DrawVLine(s, x+w-1, y, h, c)
}

// FillRect paints a w x h rectangle. Filling with White is how regions are erased.
func FillRect(s Surface, x, y, w, h int, c Color) {
	for j := 0; j < h; j++ {
		DrawHLine(s, x, y+j, w, c)
	}
}

// DrawCircle draws a circle outline with the midpoint algorithm.
func DrawCircle(s Surface, x0, y0, r int, c Color) {
	if r < 0 {
		return
	}
	f := 1 - r
	ddFx := 1
	ddFy := -2 * r
	x := 0
	y := r

	s.SetPixel(x0, y0+r, c)
	s.SetPixel(x0, y0-r, c)
	s.SetPixel(x0+r, y0, c)
	s.SetPixel(x0-r, y0, c)

	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}
		x++
		ddFx += 2
		f += ddFx

		s.SetPixel(x0+x, y0+y, c)
		s.SetPixel(x0-x, y0+y, c)
		s.SetPixel(x0+x, y0-y, c)
		s.SetPixel(x0-x, y0-y, c)
		s.SetPixel(x0+y, y0+x, c)
		s.SetPixel(x0-y, y0+x, c)
		s.SetPixel(x0+y, y0-x, c)
		s.SetPixel(x0-y, y0-x, c)
	}
}
