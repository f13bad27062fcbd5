package device

import (
	"fmt"
	"github.com/jypelle/tphmonitor/internal/epd"
	"github.com/jypelle/tphmonitor/internal/gfx"
	"github.com/jypelle/tphmonitor/internal/srv/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"image"
	"image/png"
	"os"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const snapshotScale = 2

func NewDisplay(param config.DisplayParam, simulationMode bool, snapshotFilename string) *Display {
	return &Display{
		param:            param,
		simulationMode:   simulationMode,
		snapshotFilename: snapshotFilename,
	}
}

func (d *Display) Start() {
	logrus.Infof("Start display device")

	d.lock.Lock()
	defer d.lock.Unlock()

	w, h, err := epd.PanelSize(epd.Size(d.param.Size))
	if err != nil {
		logrus.Fatalf("Unable to initialize e-paper display: %v", err)
	}

	if d.simulationMode {
		d.panel = epd.NewMemoryPanel(w, h, d.param.Differential)
	} else {
		if _, err := host.Init(); err != nil {
			logrus.Fatalf("Unable to initialize host drivers: %v", err)
		}
		d.panel, err = d.openG2()
		if err != nil {
			logrus.Fatalf("Unable to initialize e-paper display: %v", err)
		}
	}

	d.controller = epd.NewController(d.panel, gfx.Rotation(d.param.Rotation))
	d.lastImg = d.controller.Canvas().Image()

	if d.simulationMode {
		d.startSimulation(w, h)
	}
}

func (d *Display) openG2() (epd.Panel, error) {
	var err error
	d.spiPort, err = spireg.Open(d.param.SpiPort)
	if err != nil {
		return nil, fmt.Errorf("unable to open spi port: %w", err)
	}

	pins := d.param.Pins
	opts := &epd.G2Opts{
		Size:         epd.Size(d.param.Size),
		Differential: d.param.Differential,
	}
	for _, p := range []struct {
		name string
		dst  *gpio.PinOut
	}{
		{pins.PanelOn, &opts.PanelOn},
		{pins.Border, &opts.Border},
		{pins.Discharge, &opts.Discharge},
		{pins.Reset, &opts.Reset},
	} {
		pin := gpioreg.ByName(p.name)
		if pin == nil {
			return nil, fmt.Errorf("failed to find pin %s", p.name)
		}
		*p.dst = pin
	}
	busy := gpioreg.ByName(pins.Busy)
	if busy == nil {
		return nil, fmt.Errorf("failed to find pin %s", pins.Busy)
	}
	if err := busy.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to setup busy pin: %w", err)
	}
	opts.Busy = busy

	return epd.NewG2(d.spiPort, opts)
}

func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	if d.simulationMode {
		d.closeSimulationWindow()
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	if d.spiPort != nil {
		d.spiPort.Close()
		d.spiPort = nil
	}
}

// Canvas is the framebuffer the dashboard draws on.
func (d *Display) Canvas() *gfx.Canvas {
	return d.controller.Canvas()
}

// Init erases the panel so the differential baseline matches it.
func (d *Display) Init(tempC float32) error {
	d.lock.Lock()
	err := d.controller.Init(tempC)
	d.lastImg = d.controller.Canvas().Image()
	d.lock.Unlock()

	d.showImage()
	return err
}

// Display pushes the framebuffer to the panel.
func (d *Display) Display(tempC float32) error {
	d.lock.Lock()
	err := d.controller.Display(tempC)
	d.lastImg = d.controller.Canvas().Image()
	d.lock.Unlock()

	d.showImage()
	return err
}

func (d *Display) Clear(tempC float32) error {
	d.lock.Lock()
	err := d.controller.Clear(tempC)
	blank := image.NewGray(d.lastImg.Bounds())
	draw.Draw(blank, blank.Bounds(), image.White, image.Point{}, draw.Src)
	d.lastImg = blank
	d.lock.Unlock()

	d.showImage()
	return err
}

func (d *Display) showImage() {
	if !d.simulationMode {
		return
	}
	d.invalidateSimulationWindow()
	if d.snapshotFilename != "" {
		if err := d.saveSnapshot(); err != nil {
			logrus.Warnf("Unable to save panel snapshot: %v", err)
		}
	}
}

// saveSnapshot writes the simulated panel as an upscaled PNG.
func (d *Display) saveSnapshot() error {
	d.lock.RLock()
	src := d.lastImg
	d.lock.RUnlock()

	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*snapshotScale, b.Dy()*snapshotScale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	f, err := os.Create(d.snapshotFilename)
	if err != nil {
		return err
	}
	if err = png.Encode(f, dst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Panel exposes the underlying panel, the in-memory one in simulation.
func (d *Display) Panel() epd.Panel {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.panel
}
