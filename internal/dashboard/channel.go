package dashboard

import (
	"fmt"
	"github.com/jypelle/tphmonitor/internal/datapoint"
)

// Channel selects the reading a gauge shows.
type Channel string

const (
	TemperatureF Channel = "temperature_f"
	TemperatureC Channel = "temperature_c"
	PressureHPa  Channel = "pressure_hpa"
	Humidity     Channel = "humidity"
)

func (c Channel) Validate() error {
	switch c {
	case TemperatureF, TemperatureC, PressureHPa, Humidity:
		return nil
	}
	return fmt.Errorf("dashboard: unknown channel %q", string(c))
}

func (c Channel) Value(dp datapoint.DataPoint) float32 {
	switch c {
	case TemperatureF:
		return dp.TemperatureF
	case TemperatureC:
		return dp.TemperatureC
	case PressureHPa:
		return dp.PressureHPa
	case Humidity:
		return dp.HumidityPercent
	}
	return 0
}
