// Package datapoint holds one timestamped reading of the station sensors.
package datapoint

import (
	"fmt"
	"time"
)

const Header = "Date | Time | Battery Voltage [V] | Temperature [°C] | Temperature [°F] | Pressure [hPa] | Pressure Altitude [m] | Relative Humidity [%]"

type DataPoint struct {
	Time              time.Time
	BatteryVoltage    float32
	TemperatureC      float32
	TemperatureF      float32
	PressureHPa       float32
	PressureAltitudeM float32
	HumidityPercent   float32
}

func CelsiusToFahrenheit(c float32) float32 {
	return c*9/5 + 32
}

// Row formats the reading as one log file line, without the line feed.
func (dp DataPoint) Row() string {
	t := dp.Time.UTC()
	return fmt.Sprintf("%s | %s | %.3f | %.2f | %.2f | %.2f | %.1f | %.1f",
		t.Format("2006.01.02"),
		t.Format("15:04:05"),
		dp.BatteryVoltage,
		dp.TemperatureC,
		dp.TemperatureF,
		dp.PressureHPa,
		dp.PressureAltitudeM,
		dp.HumidityPercent,
	)
}

func (dp DataPoint) String() string {
	return fmt.Sprintf("%s %.3fV %.2f°C %.2f°F %.2fhPa %.1fm %.1f%%",
		dp.Time.UTC().Format(time.RFC3339),
		dp.BatteryVoltage,
		dp.TemperatureC,
		dp.TemperatureF,
		dp.PressureHPa,
		dp.PressureAltitudeM,
		dp.HumidityPercent,
	)
}
