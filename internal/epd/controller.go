package epd

import (
	"fmt"
	"github.com/jypelle/tphmonitor/internal/gfx"
	"github.com/sirupsen/logrus"
)

type State int

const (
	PoweredDown State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "powered down"
}

// Controller owns the framebuffer of one panel. When the panel supports
// differential refresh it also keeps the last committed image.
type Controller struct {
	panel  Panel
	canvas *gfx.Canvas
	old    []byte
	state  State
}

func NewController(panel Panel, rotation gfx.Rotation) *Controller {
	c := &Controller{
		panel:  panel,
		canvas: gfx.NewCanvas(panel.Width(), panel.Height(), rotation),
		state:  PoweredDown,
	}
	if panel.Differential() {
		c.old = make([]byte, len(c.canvas.Bytes()))
	}
	return c
}

func (c *Controller) Canvas() *gfx.Canvas {
	return c.canvas
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Differential() bool {
	return c.old != nil
}

// bracket powers the panel up, runs fn and always powers it down again,
// whatever path fn takes to return.
func (c *Controller) bracket(tempC float32, fn func() error) (err error) {
	c.state = Active
	defer func() {
		downErr := c.panel.PowerDown()
		c.state = PoweredDown
		if err == nil && downErr != nil {
			err = fmt.Errorf("power down: %w", downErr)
		}
	}()

	if err = c.panel.PowerUp(); err != nil {
		return fmt.Errorf("power up: %w", err)
	}
	c.panel.SetTemperature(tempC)
	return fn()
}

// Init erases the panel and resets both buffers to white.
func (c *Controller) Init(tempC float32) error {
	err := c.Clear(tempC)
	c.canvas.Clear()
	for i := range c.old {
		c.old[i] = 0
	}
	return err
}

// Clear erases the panel. The framebuffer is left untouched.
func (c *Controller) Clear(tempC float32) error {
	err := c.bracket(tempC, c.panel.Clear)
	if err != nil {
		logrus.Debugf("Panel clear failed: %v", err)
	}
	return err
}

// Display pushes the framebuffer to the panel.
func (c *Controller) Display(tempC float32) error {
	transferred := false
	err := c.bracket(tempC, func() error {
		if err := c.panel.Transfer(c.canvas.Bytes(), c.old); err != nil {
			return err
		}
		transferred = true
		return nil
	})
	if transferred && c.old != nil {
		copy(c.old, c.canvas.Bytes())
	}
	if err != nil {
		logrus.Debugf("Panel refresh failed: %v", err)
	}
	return err
}

// Committed returns the last image known to be on the panel, or nil when
// the panel does no differential refresh.
func (c *Controller) Committed() []byte {
	return c.old
}
