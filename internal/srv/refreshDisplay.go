package srv

import (
	"github.com/jypelle/tphmonitor/internal/dashboard"
	"github.com/sirupsen/logrus"
	"time"
)

// refreshDisplayStopped replaces the header so that the frozen e-paper
// screen is not taken for live readings.
func (s *StationApp) refreshDisplayStopped() {
	now := s.clockDevice.Now()
	label := stoppedLabel(now, len(s.dashboard.HeaderLine(now, 0)))
	s.papirus.AddText(dashboard.HeaderX, dashboard.HeaderY, label, 1)
	if err := s.papirus.FullUpdate(s.sampler.lastTemperatureC); err != nil {
		logrus.Debugf("Unable to display end screen: %v", err)
	}
}

// stoppedLabel is centered on width characters so it covers the last header.
func stoppedLabel(t time.Time, width int) string {
	return CenteredLabel("Stopped "+t.UTC().Format("2006.01.02, 15:04")+" Z", width)
}
