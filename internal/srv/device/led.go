package device

import (
	"github.com/jypelle/tphmonitor/internal/srv/config"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
	"sync"
	"time"
)

// Led is the status light: on while a reading is taken, blinking while
// waiting for the first sampling boundary.
type Led struct {
	lock       sync.RWMutex
	pinName    string
	simulation bool

	pin gpio.PinOut
	on  bool
}

func NewLed(param config.LedParam, simulation bool) *Led {
	return &Led{
		pinName:    param.Pin,
		simulation: simulation,
	}
}

func (d *Led) Start() {
	logrus.Infof("Start led device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.simulation || d.pinName == "" {
		return
	}

	if _, err := host.Init(); err != nil {
		logrus.Fatalf("Unable to initialize host drivers: %v", err)
	}
	p := gpioreg.ByName(d.pinName)
	if p == nil {
		logrus.Fatalf("Failed to find %s led pin", d.pinName)
	}
	if err := p.Out(gpio.Low); err != nil {
		logrus.Fatalf("Failed to setup %s led pin: %v", d.pinName, err)
	}
	d.pin = p
}

func (d *Led) Stop() {
	logrus.Infof("Stop led device")
	d.Off()
}

func (d *Led) set(on bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.on = on
	if d.pin == nil {
		return
	}
	l := gpio.Low
	if on {
		l = gpio.High
	}
	if err := d.pin.Out(l); err != nil {
		logrus.Debugf("Unable to drive led: %v", err)
	}
}

func (d *Led) On()  { d.set(true) }
func (d *Led) Off() { d.set(false) }

func (d *Led) IsOn() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.on
}

// Blink switches the led on then off, each for half of period.
func (d *Led) Blink(period time.Duration) {
	d.On()
	time.Sleep(period / 2)
	d.Off()
	time.Sleep(period / 2)
}
