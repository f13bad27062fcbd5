package main

import (
	"flag"
	"fmt"
	"github.com/jypelle/tphmonitor/internal/srv"
	"github.com/jypelle/tphmonitor/internal/srv/config"
	"github.com/jypelle/tphmonitor/internal/version"
	"github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

const configSuffix = version.AppName

// haltSignal stops the station then powers the board off, e.g. before a
// battery swap.
const haltSignal = syscall.SIGUSR1

func main() {

	// Logger
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	mainCommand := filepath.Base(os.Args[0])

	// region Flags and Commands definition

	// Debug Mode
	debugMode := flag.Bool("d", false, "Enable debug mode (debug logs, debug_sample_interval between readings)")

	// Simulation Mode
	simulationMode := flag.Bool("s", false, "Enable simulation mode (synthetic readings, panel rendered to panel.png)")

	// User config dir
	defaultConfigDir := "./." + configSuffix
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		defaultConfigDir = filepath.Join(userConfigDir, configSuffix)
	}
	configDir := flag.String("c", defaultConfigDir, "Location of the folder holding param.yaml and the reading logs")

	// Usage
	flag.Usage = func() {
		fmt.Printf("\nUsage: %s [OPTIONS] [COMMAND]\n", mainCommand)
		fmt.Printf("\nTemperature, pressure and humidity station with an e-paper dashboard\n")
		fmt.Printf("\nOptions:\n")
		flag.PrintDefaults()
		fmt.Printf("\nCommands:\n")
		fmt.Printf("  run       Sample, log and display until stopped\n")
		fmt.Printf("  config    Write the default param file if missing and show where it is\n")
		fmt.Printf("  version   Show the version number\n")
		fmt.Printf("\nRun '%s COMMAND --help' for more information on a command.\n", mainCommand)
	}

	// run command
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)

	runCmd.Usage = func() {
		fmt.Printf("\nUsage: %s run\n", mainCommand)
		fmt.Printf("\nTake a reading every sample_interval seconds, append it to the log folder\n")
		fmt.Printf("and refresh the e-paper dashboard.\n")
		fmt.Printf("\nSignals:\n")
		fmt.Printf("  INT, TERM, QUIT   Stop, leaving a \"Stopped\" header on the panel\n")
		fmt.Printf("  USR1              Stop, then halt the system\n")
		fmt.Printf("  HUP               Ignored, so a closed ssh session keeps the station running\n")
	}

	// config command
	configCmd := flag.NewFlagSet("config", flag.ExitOnError)

	configCmd.Usage = func() {
		fmt.Printf("\nUsage: %s config\n", mainCommand)
		fmt.Printf("\nCreate the config folder and the default param file when missing,\n")
		fmt.Printf("check the param file and print its location\n")
	}

	// version command
	versionCmd := flag.NewFlagSet("version", flag.ExitOnError)

	versionCmd.Usage = func() {
		fmt.Printf("\nUsage: %s version\n", mainCommand)
		fmt.Printf("\nShow the version information\n")
	}

	// endregion

	// region Flags and Commands Parsing
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	var cmd *flag.FlagSet
	switch flag.Arg(0) {
	case "run":
		cmd = runCmd
	case "config":
		cmd = configCmd
	case "version":
		cmd = versionCmd
	default:
		fmt.Printf("\n%s is not a %s command\n", flag.Args()[0], version.AppName)
		flag.Usage()
		os.Exit(1)
	}
	cmd.Parse(flag.Args()[1:])
	if cmd.NArg() > 0 {
		fmt.Printf("\n\"%s %s\" accepts no arguments\n", mainCommand, flag.Arg(0))
		cmd.Usage()
		os.Exit(1)
	}
	// endregion

	if *debugMode {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
		logrus.Printf("Debug mode activated")
	}

	switch cmd {
	case versionCmd:
		fmt.Println(version.AppVersion.Banner())
	case configCmd:
		// Fatal on an unreadable or invalid param file
		serverConfig := config.NewServerConfig(*configDir, *debugMode, *simulationMode)
		fmt.Printf("Param file: %s\n", serverConfig.GetCompleteParamFilename())
		fmt.Printf("Log folder: %s\n", serverConfig.GetCompleteLogFolder())
		fmt.Printf("Sample interval: %v\n", serverConfig.GetSampleInterval())
	case runCmd:
		run(*configDir, *debugMode, *simulationMode)
	}
}

func run(configDir string, debugMode bool, simulationMode bool) {
	stationApp := srv.NewStationApp(configDir, debugMode, simulationMode)

	// Listen stop signals before Start, which blocks until the sensors answer
	signal.Ignore(syscall.SIGHUP)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, haltSignal)

	stationApp.Start()

	sig := <-ch
	logrus.Infof("Received signal: %v", sig)
	stationApp.Stop(sig == haltSignal)
}
