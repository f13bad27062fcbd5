// Package dashboard lays out the header line and the three thermometers on
// the panel and refreshes it once per reading.
package dashboard

import (
	"fmt"
	"github.com/jypelle/tphmonitor/internal/datapoint"
	"github.com/jypelle/tphmonitor/internal/gauge"
	"github.com/jypelle/tphmonitor/internal/gfx"
	"github.com/jypelle/tphmonitor/internal/papirus"
	"github.com/sirupsen/logrus"
	"strings"
	"time"
)

const (
	HeaderX = 3
	HeaderY = 1
)

// TitleY is the row of the gauge titles, one text line under the header.
var TitleY = HeaderY + gfx.LineHeight()

var (
	defaultGaugeX = map[gauge.Position]int{gauge.Left: 60, gauge.Center: 126, gauge.Right: 192}
	defaultTitleX = map[gauge.Position]int{gauge.Left: 3, gauge.Center: 68, gauge.Right: 134}
)

type GaugeConfig struct {
	Position gauge.Position
	Title    string
	Channel  Channel
	Scale    gauge.Scale

	// Zero means the column of Position.
	X      int
	TitleX int
}

func DefaultGauges() []GaugeConfig {
	return []GaugeConfig{
		{Position: gauge.Left, Title: " Temp [F]", Channel: TemperatureF, Scale: gauge.Scale{Min: -10, Max: 150, Major: 10, Minor: 5}},
		{Position: gauge.Center, Title: "Pres [hPa]", Channel: PressureHPa, Scale: gauge.Scale{Min: 500, Max: 1200, Major: 200, Minor: 50}},
		{Position: gauge.Right, Title: "  Hum [%]", Channel: Humidity, Scale: gauge.Scale{Min: 0, Max: 100, Major: 10, Minor: 5}},
	}
}

type slot struct {
	gauge   *gauge.Gauge
	channel Channel
	x       int
	titleX  int
}

type Dashboard struct {
	papirus *papirus.Papirus
	slots   []*slot
}

func New(p *papirus.Papirus, configs []GaugeConfig) (*Dashboard, error) {
	d := &Dashboard{papirus: p}
	taken := make(map[gauge.Position]bool)
	for _, cfg := range configs {
		if _, ok := defaultGaugeX[cfg.Position]; !ok {
			return nil, fmt.Errorf("dashboard: invalid position %s", cfg.Position)
		}
		if taken[cfg.Position] {
			return nil, fmt.Errorf("dashboard: two gauges at position %s", cfg.Position)
		}
		if err := cfg.Channel.Validate(); err != nil {
			return nil, err
		}
		taken[cfg.Position] = true

		s := &slot{
			gauge:   gauge.New(cfg.Position, cfg.Title, cfg.Scale),
			channel: cfg.Channel,
			x:       cfg.X,
			titleX:  cfg.TitleX,
		}
		if s.x == 0 {
			s.x = defaultGaugeX[cfg.Position]
		}
		if s.titleX == 0 {
			s.titleX = defaultTitleX[cfg.Position]
		}
		if err := cfg.Scale.Validate(p.Surface().Height()); err != nil {
			logrus.Warnf("Gauge %s (%s) will not be drawn: %v", cfg.Position, cfg.Channel, err)
		}
		d.slots = append(d.slots, s)
	}
	return d, nil
}

// Gauge returns the gauge at position, or nil.
func (d *Dashboard) Gauge(position gauge.Position) *gauge.Gauge {
	for _, s := range d.slots {
		if s.gauge.Position() == position {
			return s.gauge
		}
	}
	return nil
}

// Setup draws the static parts of the screen.
func (d *Dashboard) Setup() {
	d.papirus.AddBorder(0, 0, 0, 0, 1)
}

// Header formats the top line, e.g. "2024.03.15, 14:07+09 Z || +3.870 V".
func Header(t time.Time, batteryVoltage float32) string {
	t = t.UTC()
	return fmt.Sprintf("%04d.%02d.%02d, %02d:%02d+%02d Z || %+.3f V",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), batteryVoltage)
}

// HeaderLine is the header as drawn: Header, or without the blanks around
// the separator when the full line would run over the right border.
func (d *Dashboard) HeaderLine(t time.Time, batteryVoltage float32) string {
	line := Header(t, batteryVoltage)
	if w, _ := gfx.TextBounds(line, 1); HeaderX+w <= d.papirus.Surface().Width()-1 {
		return line
	}
	return strings.Replace(line, " || ", "||", 1)
}

// Update draws dp and refreshes the panel once. A gauge with a bad scale is
// skipped; only the refresh error is returned.
func (d *Dashboard) Update(dp datapoint.DataPoint) error {
	for _, s := range d.slots {
		s.gauge.SetCurrentValue(s.channel.Value(dp))
	}

	d.papirus.AddText(HeaderX, HeaderY, d.HeaderLine(dp.Time, dp.BatteryVoltage), 1)
	for _, s := range d.slots {
		d.papirus.AddText(s.titleX, TitleY, s.gauge.Title(), 1)
	}
	for _, s := range d.slots {
		g := s.gauge
		if err := d.papirus.AddVertScale(s.x, g.Scale(), g.Current(), g.Low(), g.High()); err != nil {
			logrus.Debugf("Gauge %s: %v", g.Position(), err)
		}
	}

	return d.papirus.FullUpdate(dp.TemperatureC)
}
