// Package epd drives a bistable e-paper panel: it owns the framebuffer and
// brackets every transfer between a panel power up and power down.
package epd

// Panel is the physical display seen by the Controller.
//
// Images are W*H/8 bytes, LSB first, a set bit being black. oldImage is nil
// when the panel does not do differential updates.
type Panel interface {
	Width() int
	Height() int
	Differential() bool

	PowerUp() error
	SetTemperature(celsius float32)
	Transfer(newImage, oldImage []byte) error
	Clear() error
	PowerDown() error
}

// Status is the panel diagnostic reported by the chip-on-glass driver.
type Status int

const (
	StatusOK Status = iota
	StatusUnsupportedCOG
	StatusPanelBroken
	StatusDCFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnsupportedCOG:
		return "unsupported COG"
	case StatusPanelBroken:
		return "panel broken"
	case StatusDCFailed:
		return "DC failed"
	}
	return "unknown"
}

func (s Status) Error() string {
	return "epd: " + s.String()
}
