package srv

import (
	"github.com/jypelle/tphmonitor/internal/dashboard"
	"github.com/jypelle/tphmonitor/internal/papirus"
	"github.com/jypelle/tphmonitor/internal/srv/config"
	"github.com/jypelle/tphmonitor/internal/srv/device"
	"github.com/jypelle/tphmonitor/internal/version"
	"github.com/sirupsen/logrus"
	"os"
	"os/exec"
	"path/filepath"
)

const snapshotFilename = "panel.png"

type StationApp struct {
	*config.ServerConfig
	displayDevice      *device.Display
	sensorsDevice      *device.Sensors
	clockDevice        *device.Clock
	ledDevice          *device.Led
	logFileDevice      *device.LogFile
	debugConsoleDevice *device.DebugConsole

	papirus   *papirus.Papirus
	dashboard *dashboard.Dashboard
	sampler   *sampler
}

func NewStationApp(configDir string, debugMode bool, simulationMode bool) *StationApp {

	logrus.Debugf("Creation of %s station %s ...", version.AppName, version.AppVersion.String())

	app := &StationApp{
		ServerConfig: config.NewServerConfig(configDir, debugMode, simulationMode),
	}

	var snapshot string
	if app.SimulationMode {
		snapshot = filepath.Join(app.ConfigDir, snapshotFilename)
	}

	app.clockDevice = device.NewClock()
	app.debugConsoleDevice = device.NewDebugConsole(app.DebugConsole)
	app.displayDevice = device.NewDisplay(app.Display, app.SimulationMode, snapshot)
	app.sensorsDevice = device.NewSensors(app.Sensors, app.SimulationMode, app.clockDevice)
	app.ledDevice = device.NewLed(app.Led, app.SimulationMode)
	app.logFileDevice = device.NewLogFile(app.GetCompleteLogFolder(), app.Log.LongFileName)

	logrus.Debugln("Station created")

	return app
}

func (s *StationApp) Start() {
	logrus.Printf("Starting %s station ...", version.AppName)

	logrus.Printf("Starting devices ...")

	// Start debug console first so it gets every following log
	s.debugConsoleDevice.Start()

	s.ledDevice.Start()
	s.sensorsDevice.Start()
	s.displayDevice.Start()

	// First reading, also used for the panel temperature compensation
	first := s.sensorsDevice.CurrentReading()

	if err := s.displayDevice.Init(first.TemperatureC); err != nil {
		logrus.Warnf("Unable to clear the panel: %v", err)
	}

	gauges, err := s.DashboardGauges()
	if err != nil {
		logrus.Fatalf("Invalid gauges: %v", err)
	}
	s.papirus = papirus.New(s.displayDevice.Canvas(), s.displayDevice)
	s.dashboard, err = dashboard.New(s.papirus, gauges)
	if err != nil {
		logrus.Fatalf("Unable to lay out the dashboard: %v", err)
	}
	s.dashboard.Setup()

	s.sampler = newSampler(s.sensorsDevice, s.ledDevice, s.logFileDevice, s.dashboard, s.clockDevice.Now, s.GetSampleInterval())
	logrus.Infof("Sampling every %v", s.GetSampleInterval())

	// Start sample loop
	go s.sampler.loop(first)
}

func (s *StationApp) Stop(halt bool) {
	logrus.Printf("Stopping %s station ...", version.AppName)

	// Stop sample loop
	if s.sampler != nil {
		logrus.Infof("Stop sample loop")
		s.sampler.stop()
		s.refreshDisplayStopped()
	}

	s.logFileDevice.Close()
	s.ledDevice.Stop()
	s.displayDevice.Stop()
	s.sensorsDevice.Stop()
	s.debugConsoleDevice.Stop()

	logrus.Printf("Station stopped")

	if halt {
		logrus.Printf("System halt")
		haltCmd := exec.Command("sudo", "halt")
		err := haltCmd.Run()
		if err != nil {
			logrus.Panicf("Unable to halt the system: %v", err)
		}
	}
	os.Exit(0)
}
