package config

import (
	_ "embed"
	"errors"
	"fmt"
	"github.com/jypelle/tphmonitor/internal/dashboard"
	"github.com/jypelle/tphmonitor/internal/epd"
	"github.com/jypelle/tphmonitor/internal/gauge"
	"gopkg.in/yaml.v3"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	SampleInterval      int64             `yaml:"sample_interval"`
	DebugSampleInterval int64             `yaml:"debug_sample_interval"`
	Log                 LogParam          `yaml:"log"`
	Display             DisplayParam      `yaml:"display"`
	Sensors             SensorsParam      `yaml:"sensors"`
	Led                 LedParam          `yaml:"led"`
	DebugConsole        DebugConsoleParam `yaml:"debug_console"`
	Gauges              []GaugeParam      `yaml:"gauges"`
}

type LogParam struct {
	Folder       string `yaml:"folder"`
	LongFileName bool   `yaml:"long_file_name"`
}

type DisplayParam struct {
	Size         int              `yaml:"size"`
	Rotation     int              `yaml:"rotation"`
	Differential bool             `yaml:"differential"`
	SpiPort      string           `yaml:"spi_port"`
	Pins         DisplayPinsParam `yaml:"pins"`
}

type DisplayPinsParam struct {
	PanelOn   string `yaml:"panel_on"`
	Border    string `yaml:"border"`
	Discharge string `yaml:"discharge"`
	Reset     string `yaml:"reset"`
	Busy      string `yaml:"busy"`
}

type SensorsParam struct {
	I2cBus           string  `yaml:"i2c_bus"`
	Bme280Address    uint16  `yaml:"bme280_address"`
	Ads1115Address   uint16  `yaml:"ads1115_address"`
	BatteryChannel   int     `yaml:"battery_channel"`
	BatteryDivider   float32 `yaml:"battery_divider"`
	SeaLevelPressure float32 `yaml:"sea_level_pressure"`
}

type LedParam struct {
	Pin string `yaml:"pin"`
}

type DebugConsoleParam struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

type GaugeParam struct {
	Position string      `yaml:"position"`
	Title    string      `yaml:"title"`
	Channel  string      `yaml:"channel"`
	Scale    gauge.Scale `yaml:",inline"`
	X        int         `yaml:"x,omitempty"`
	TitleX   int         `yaml:"title_x,omitempty"`
}

// LoadServerParam decodes a param file and checks it.
func LoadServerParam(raw []byte) (*ServerParam, error) {
	param := &ServerParam{}
	if err := yaml.Unmarshal(raw, param); err != nil {
		return nil, fmt.Errorf("unable to decode param: %w", err)
	}
	if err := param.Validate(); err != nil {
		return nil, err
	}
	return param, nil
}

func (p *ServerParam) Validate() error {
	if p.SampleInterval <= 0 || p.DebugSampleInterval <= 0 {
		return errors.New("sample intervals must be positive")
	}
	if _, _, err := epd.PanelSize(epd.Size(p.Display.Size)); err != nil {
		return err
	}
	if p.Display.Rotation < 0 || p.Display.Rotation > 3 {
		return fmt.Errorf("display rotation %d is not in 0..3", p.Display.Rotation)
	}
	if p.Sensors.BatteryChannel < 0 || p.Sensors.BatteryChannel > 3 {
		return fmt.Errorf("battery channel %d is not in 0..3", p.Sensors.BatteryChannel)
	}
	if p.Sensors.BatteryDivider <= 0 {
		return errors.New("battery divider must be positive")
	}
	if p.Sensors.SeaLevelPressure <= 0 {
		return errors.New("sea level pressure must be positive")
	}
	if _, err := p.DashboardGauges(); err != nil {
		return err
	}
	return nil
}

// DashboardGauges converts the gauge section for the dashboard.
func (p *ServerParam) DashboardGauges() ([]dashboard.GaugeConfig, error) {
	configs := make([]dashboard.GaugeConfig, 0, len(p.Gauges))
	for _, g := range p.Gauges {
		position, err := gauge.ParsePosition(g.Position)
		if err != nil {
			return nil, err
		}
		channel := dashboard.Channel(g.Channel)
		if err := channel.Validate(); err != nil {
			return nil, err
		}
		configs = append(configs, dashboard.GaugeConfig{
			Position: position,
			Title:    g.Title,
			Channel:  channel,
			Scale:    g.Scale,
			X:        g.X,
			TitleX:   g.TitleX,
		})
	}
	return configs, nil
}
