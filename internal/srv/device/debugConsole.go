package device

import (
	"github.com/jypelle/tphmonitor/internal/srv/config"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"io"
	"os"
)

// DebugConsole mirrors the logs on a serial port, for a field laptop
// plugged into the board.
type DebugConsole struct {
	param config.DebugConsoleParam
	port  serial.Port
}

func NewDebugConsole(param config.DebugConsoleParam) *DebugConsole {
	return &DebugConsole{param: param}
}

func (d *DebugConsole) Start() {
	if d.param.Port == "" {
		return
	}
	logrus.Infof("Start debug console on %s", d.param.Port)

	port, err := serial.Open(d.param.Port, &serial.Mode{BaudRate: d.param.BaudRate})
	if err != nil {
		logrus.Warnf("Unable to open debug console: %v", err)
		return
	}
	d.port = port
	logrus.SetOutput(io.MultiWriter(os.Stderr, port))
}

func (d *DebugConsole) Stop() {
	if d.port == nil {
		return
	}
	logrus.Infof("Stop debug console")
	logrus.SetOutput(os.Stderr)
	d.port.Close()
	d.port = nil
}
