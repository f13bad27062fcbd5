package device

import (
	"fmt"
	"github.com/chewxy/math32"
	"github.com/jypelle/tphmonitor/internal/datapoint"
	"github.com/jypelle/tphmonitor/internal/srv/config"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
	"sync"
	"time"
)

var batteryChannels = []ads1x15.Channel{ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3}

// Sensors reads the environment sensor, the battery voltage and the clock.
type Sensors struct {
	lock           sync.Mutex
	param          config.SensorsParam
	simulationMode bool
	clock          *Clock
	retryDelay     time.Duration

	bus     i2c.BusCloser
	env     *bmxx80.Dev
	adc     *ads1x15.Dev
	battery ads1x15.PinADC

	simulationStart time.Time
}

func NewSensors(param config.SensorsParam, simulationMode bool, clock *Clock) *Sensors {
	return &Sensors{
		param:          param,
		simulationMode: simulationMode,
		clock:          clock,
		retryDelay:     time.Second,
	}
}

// Start blocks until every sensor answers.
func (d *Sensors) Start() {
	logrus.Infof("Start sensors device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.simulationMode {
		d.simulationStart = d.clock.Now()
		return
	}

	if _, err := host.Init(); err != nil {
		logrus.Fatalf("Unable to initialize host drivers: %v", err)
	}

	for {
		err := d.open()
		if err == nil {
			return
		}
		logrus.Warnf("Sensors not ready, trying again: %v", err)
		d.close()
		time.Sleep(d.retryDelay)
	}
}

func (d *Sensors) open() error {
	var err error
	d.bus, err = i2creg.Open(d.param.I2cBus)
	if err != nil {
		return fmt.Errorf("unable to open i2c bus: %w", err)
	}

	d.env, err = bmxx80.NewI2C(d.bus, d.param.Bme280Address, &bmxx80.DefaultOpts)
	if err != nil {
		return fmt.Errorf("unable to initialize BME280: %w", err)
	}

	opts := ads1x15.DefaultOpts
	opts.I2cAddress = d.param.Ads1115Address
	d.adc, err = ads1x15.NewADS1115(d.bus, &opts)
	if err != nil {
		return fmt.Errorf("unable to initialize ADS1115: %w", err)
	}
	d.battery, err = d.adc.PinForChannel(batteryChannels[d.param.BatteryChannel], 5*physic.Volt, 1*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return fmt.Errorf("unable to open battery channel: %w", err)
	}
	return nil
}

func (d *Sensors) close() {
	if d.battery != nil {
		d.battery.Halt()
		d.battery = nil
	}
	if d.env != nil {
		d.env.Halt()
		d.env = nil
	}
	if d.bus != nil {
		d.bus.Close()
		d.bus = nil
	}
	d.adc = nil
}

func (d *Sensors) Stop() {
	logrus.Infof("Stop sensors device")

	d.lock.Lock()
	defer d.lock.Unlock()
	d.close()
}

// CurrentReading blocks until a complete reading is available.
func (d *Sensors) CurrentReading() datapoint.DataPoint {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.simulationMode {
		return d.simulatedReading()
	}

	for {
		dp, err := d.read()
		if err == nil {
			return dp
		}
		logrus.Warnf("Unable to read sensors, trying again: %v", err)
		time.Sleep(d.retryDelay)
	}
}

func (d *Sensors) read() (datapoint.DataPoint, error) {
	var e physic.Env
	if err := d.env.Sense(&e); err != nil {
		return datapoint.DataPoint{}, fmt.Errorf("BME280: %w", err)
	}
	sample, err := d.battery.Read()
	if err != nil {
		return datapoint.DataPoint{}, fmt.Errorf("ADS1115: %w", err)
	}

	tempC := float32(float64(e.Temperature-physic.ZeroCelsius) / float64(physic.Celsius))
	pressure := float32(float64(e.Pressure) / float64(100*physic.Pascal))
	return datapoint.DataPoint{
		Time:              d.clock.Now(),
		BatteryVoltage:    float32(float64(sample.V)/float64(physic.Volt)) * d.param.BatteryDivider,
		TemperatureC:      tempC,
		TemperatureF:      datapoint.CelsiusToFahrenheit(tempC),
		PressureHPa:       pressure,
		PressureAltitudeM: PressureAltitude(pressure, d.param.SeaLevelPressure),
		HumidityPercent:   float32(float64(e.Humidity) / float64(physic.PercentRH)),
	}, nil
}

// simulatedReading follows slow daily like cycles so the gauges move.
func (d *Sensors) simulatedReading() datapoint.DataPoint {
	now := d.clock.Now()
	phase := float32(now.Sub(d.simulationStart).Minutes()) / 60 * math32.Pi

	tempC := 18 + 6*math32.Sin(phase)
	pressure := 1013.25 + 8*math32.Cos(phase/3)
	return datapoint.DataPoint{
		Time:              now,
		BatteryVoltage:    4.1 - 0.2*(1+math32.Sin(phase/7))/2,
		TemperatureC:      tempC,
		TemperatureF:      datapoint.CelsiusToFahrenheit(tempC),
		PressureHPa:       pressure,
		PressureAltitudeM: PressureAltitude(pressure, d.param.SeaLevelPressure),
		HumidityPercent:   50 - 15*math32.Sin(phase),
	}
}

// PressureAltitude is the international standard atmosphere altitude in
// meters for pressure hPa, seaLevel being the reference pressure.
func PressureAltitude(pressure, seaLevel float32) float32 {
	return 44330 * (1 - math32.Pow(pressure/seaLevel, 0.1903))
}
