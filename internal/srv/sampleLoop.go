package srv

import (
	"github.com/jypelle/tphmonitor/internal/datapoint"
	"github.com/jypelle/tphmonitor/internal/srv/device"
	"github.com/sirupsen/logrus"
	"time"
)

const waitBlinkPeriod = 100 * time.Millisecond

type sensorSource interface {
	CurrentReading() datapoint.DataPoint
}

type statusLed interface {
	On()
	Off()
	Blink(period time.Duration)
}

type rowSink interface {
	Append(dp datapoint.DataPoint)
}

type screen interface {
	Update(dp datapoint.DataPoint) error
}

// sampler is the single control loop of the station: read, log, display,
// then sleep until the next interval boundary.
type sampler struct {
	sensors  sensorSource
	led      statusLed
	logFile  rowSink
	screen   screen
	now      func() time.Time
	interval time.Duration

	lastTemperatureC float32

	askDone chan bool
	done    chan bool
}

func newSampler(sensors sensorSource, led statusLed, logFile rowSink, scr screen, now func() time.Time, interval time.Duration) *sampler {
	return &sampler{
		sensors:  sensors,
		led:      led,
		logFile:  logFile,
		screen:   scr,
		now:      now,
		interval: interval,
		askDone:  make(chan bool),
		done:     make(chan bool),
	}
}

func (s *sampler) record(dp datapoint.DataPoint) {
	logrus.Debugf("Reading: %s", dp)
	s.lastTemperatureC = dp.TemperatureC
	s.logFile.Append(dp)
	if err := s.screen.Update(dp); err != nil {
		logrus.Debugf("Display refresh failed: %v", err)
	}
}

// cycle takes one reading with the led lit.
func (s *sampler) cycle() {
	s.led.On()
	s.record(s.sensors.CurrentReading())
	s.led.Off()
}

func (s *sampler) askedToStop() bool {
	select {
	case <-s.askDone:
		return true
	default:
		return false
	}
}

// loop records first right away, blinks until the next boundary, then
// takes one reading per interval until stopped.
func (s *sampler) loop(first datapoint.DataPoint) {
	s.record(first)

	next := device.NextAligned(s.now(), s.interval)
	for s.now().Before(next) {
		if s.askedToStop() {
			s.done <- true
			return
		}
		s.led.Blink(waitBlinkPeriod)
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	for loop := true; loop; {
		select {
		case <-timer.C:
			s.cycle()
			timer.Reset(device.NextAligned(s.now(), s.interval).Sub(s.now()))
		case <-s.askDone:
			loop = false
		}
	}
	s.done <- true
}

// stop waits for the current cycle to end.
func (s *sampler) stop() {
	s.askDone <- true
	<-s.done
}
