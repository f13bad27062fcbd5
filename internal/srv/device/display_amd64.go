package device

import (
	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/jypelle/tphmonitor/internal/epd"
	"github.com/jypelle/tphmonitor/internal/srv/config"
	"image"
	"log"
	"periph.io/x/conn/v3/spi"
	"sync"
)

type Display struct {
	lock             sync.RWMutex
	param            config.DisplayParam
	simulationMode   bool
	snapshotFilename string

	spiPort    spi.PortCloser
	panel      epd.Panel
	controller *epd.Controller
	lastImg    *image.Gray

	simulationWindow *app.Window
}

func (d *Display) startSimulation(w, h int) {
	d.simulationWindow = app.NewWindow(
		app.Title("tphmonitor"),
		app.Size(unit.Px(float32(w*snapshotScale)), unit.Px(float32(h*snapshotScale))),
		app.MinSize(unit.Px(float32(w)), unit.Px(float32(h))),
	)
	go func() {
		if err := d.gioloop(); err != nil {
			log.Fatal(err)
		}
	}()
	go app.Main()
}

func (d *Display) invalidateSimulationWindow() {
	if d.simulationWindow != nil {
		d.simulationWindow.Invalidate()
	}
}

func (d *Display) closeSimulationWindow() {
	if d.simulationWindow != nil {
		d.simulationWindow.Close()
	}
}

func (d *Display) gioloop() error {
	var ops op.Ops
	for {
		e := <-d.simulationWindow.Events()
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)

			d.lock.RLock()
			lastImg := d.lastImg
			d.lock.RUnlock()

			img := widget.Image{Src: paint.NewImageOp(lastImg), Fit: widget.Contain}
			img.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}
