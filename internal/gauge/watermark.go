package gauge

import (
	"github.com/chewxy/math32"
)

// Watermark holds the extremes seen since process start.
type Watermark struct {
	Low  float32
	High float32
}

func NewWatermark() Watermark {
	return Watermark{
		Low:  math32.Inf(1),
		High: math32.Inf(-1),
	}
}

// Update widens the watermark to include v. A NaN reading compares false
// against both bounds and leaves them unchanged.
func (w *Watermark) Update(v float32) {
	if math32.IsNaN(v) {
		return
	}
	w.Low = math32.Min(w.Low, v)
	w.High = math32.Max(w.High, v)
}

// Seen reports whether at least one value was recorded.
func (w Watermark) Seen() bool {
	return w.Low <= w.High
}
