//go:build !amd64

package device

import (
	"github.com/jypelle/tphmonitor/internal/epd"
	"github.com/jypelle/tphmonitor/internal/srv/config"
	"image"
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
}

// The board has no preview window: simulation only writes snapshots.
func (d *Display) startSimulation(w, h int) {
}

func (d *Display) invalidateSimulationWindow() {
}

func (d *Display) closeSimulationWindow() {
}
