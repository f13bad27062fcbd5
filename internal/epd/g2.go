package epd

import (
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"time"
)

// Size is the panel diagonal in hundredths of an inch, as printed on the
// Pervasive Displays flex cable.
type Size int

const (
	Size144 Size = 144
	Size200 Size = 200
	Size270 Size = 270
)

type g2Geometry struct {
	dots, lines   int
	channelSelect []byte
	voltageLevel  byte
	stageTime     time.Duration
	borderByte    bool
}

var g2Geometries = map[Size]g2Geometry{
	Size144: {
		dots: 128, lines: 96,
		channelSelect: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x0f, 0xff, 0x00},
		voltageLevel:  0x03,
		stageTime:     480 * time.Millisecond,
	},
	Size200: {
		dots: 200, lines: 96,
		channelSelect: []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0xff, 0xe0, 0x00},
		voltageLevel:  0x03,
		stageTime:     480 * time.Millisecond,
	},
	Size270: {
		dots: 264, lines: 176,
		channelSelect: []byte{0x00, 0x00, 0x00, 0x7f, 0xff, 0xfe, 0x00, 0x00},
		voltageLevel:  0x00,
		stageTime:     630 * time.Millisecond,
		borderByte:    true,
	},
}

// PanelSize returns the pixel dimensions of a supported panel.
func PanelSize(size Size) (w, h int, err error) {
	g, ok := g2Geometries[size]
	if !ok {
		return 0, 0, fmt.Errorf("epd: unsupported panel size %d", size)
	}
	return g.dots, g.lines, nil
}

// G2Opts wires a V231 G2 chip-on-glass panel.
type G2Opts struct {
	Size         Size
	Differential bool

	PanelOn   gpio.PinOut
	Border    gpio.PinOut
	Discharge gpio.PinOut
	Reset     gpio.PinOut
	Busy      gpio.PinIn
}

// G2 drives a Pervasive Displays panel with a V231 G2 chip-on-glass over SPI.
type G2 struct {
	c conn.Conn

	panelOn   gpio.PinOut
	border    gpio.PinOut
	discharge gpio.PinOut
	reset     gpio.PinOut
	busy      gpio.PinIn

	geometry     g2Geometry
	differential bool
	factor10x    int
	status       Status
	on           bool
	line         []byte
}

var _ Panel = (*G2)(nil)

func NewG2(p spi.Port, opts *G2Opts) (*G2, error) {
	if opts == nil {
		return nil, errors.New("epd: missing G2 options")
	}
	g, ok := g2Geometries[opts.Size]
	if !ok {
		return nil, fmt.Errorf("epd: unsupported panel size %d", opts.Size)
	}
	if opts.PanelOn == nil || opts.Border == nil || opts.Discharge == nil || opts.Reset == nil || opts.Busy == nil {
		return nil, errors.New("epd: all G2 control pins are required")
	}

	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("epd: spi connect: %w", err)
	}

	d := &G2{
		c:            c,
		panelOn:      opts.PanelOn,
		border:       opts.Border,
		discharge:    opts.Discharge,
		reset:        opts.Reset,
		busy:         opts.Busy,
		geometry:     g,
		differential: opts.Differential,
		factor10x:    temperatureFactor10x(20),
	}
	if err := d.pinsLow(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *G2) Width() int         { return d.geometry.dots }
func (d *G2) Height() int        { return d.geometry.lines }
func (d *G2) Differential() bool { return d.differential }

// Status returns the diagnostic of the last power up.
func (d *G2) Status() Status {
	return d.status
}

func (d *G2) String() string {
	return fmt.Sprintf("epd.G2{%dx%d}", d.geometry.dots, d.geometry.lines)
}

// temperatureFactor10x scales the stage time: cold panels need longer refreshes.
func temperatureFactor10x(celsius float32) int {
	switch {
	case celsius <= -10:
		return 170
	case celsius <= -5:
		return 120
	case celsius <= 5:
		return 80
	case celsius <= 10:
		return 40
	case celsius <= 15:
		return 30
	case celsius <= 20:
		return 20
	case celsius <= 40:
		return 10
	}
	return 7
}

func (d *G2) SetTemperature(celsius float32) {
	d.factor10x = temperatureFactor10x(celsius)
}

func (d *G2) stageTime() time.Duration {
	return d.geometry.stageTime * time.Duration(d.factor10x) / 10
}

// pinsLow drives every control pin low, even when one of them fails.
func (d *G2) pinsLow() error {
	var errs []error
	for _, p := range []gpio.PinOut{d.reset, d.panelOn, d.discharge, d.border} {
		if err := p.Out(gpio.Low); err != nil {
			errs = append(errs, fmt.Errorf("epd: %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

func (d *G2) out(p gpio.PinOut, l gpio.Level, pause time.Duration) error {
	if err := p.Out(l); err != nil {
		return fmt.Errorf("epd: %s: %w", p, err)
	}
	time.Sleep(pause)
	return nil
}

// command selects a register; data follows in a separate chip select frame.
func (d *G2) command(register byte) error {
	return d.c.Tx([]byte{0x70, register}, nil)
}

func (d *G2) data(values ...byte) error {
	return d.c.Tx(append([]byte{0x72}, values...), nil)
}

func (d *G2) write(register byte, values ...byte) error {
	if err := d.command(register); err != nil {
		return err
	}
	return d.data(values...)
}

func (d *G2) read(register byte) (byte, error) {
	if err := d.command(register); err != nil {
		return 0, err
	}
	r := make([]byte, 2)
	if err := d.c.Tx([]byte{0x73, 0x00}, r); err != nil {
		return 0, err
	}
	return r[1], nil
}

func (d *G2) readID() (byte, error) {
	r := make([]byte, 2)
	if err := d.c.Tx([]byte{0x71, 0x00}, r); err != nil {
		return 0, err
	}
	return r[1], nil
}

func (d *G2) waitReady() {
	deadline := time.Now().Add(5 * time.Second)
	for d.busy.Read() == gpio.High {
		if time.Now().After(deadline) {
			logrus.Warnf("%s: busy line stuck high", d)
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func (d *G2) PowerUp() error {
	d.status = StatusOK
	d.on = true

	if err := d.pinsLow(); err != nil {
		return err
	}
	time.Sleep(5 * time.Millisecond)
	if err := d.out(d.panelOn, gpio.High, 10*time.Millisecond); err != nil {
		return err
	}
	if err := d.out(d.border, gpio.High, 0); err != nil {
		return err
	}
	for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := d.out(d.reset, l, 5*time.Millisecond); err != nil {
			return err
		}
	}
	d.waitReady()

	id, err := d.readID()
	if err != nil {
		return err
	}
	if id&0x0f != 0x02 {
		logrus.Debugf("%s: COG id 0x%02x", d, id)
		d.status = StatusUnsupportedCOG
		return d.status
	}

	// output disable
	if err := d.write(0x02, 0x40); err != nil {
		return err
	}

	breakage, err := d.read(0x0f)
	if err != nil {
		return err
	}
	if breakage&0x80 == 0 {
		d.status = StatusPanelBroken
		return d.status
	}

	setup := [][]byte{
		{0x0b, 0x02}, // power saving mode
		append([]byte{0x01}, d.geometry.channelSelect...),
		{0x07, 0xd1}, // high power mode oscillator
		{0x08, 0x02}, // power setting
		{0x09, 0xc2}, // Vcom level
		{0x04, 0x03}, // power setting
		{0x03, 0x01}, // driver latch on
		{0x03, 0x00}, // driver latch off
	}
	for _, s := range setup {
		if err := d.write(s[0], s[1:]...); err != nil {
			return err
		}
	}
	time.Sleep(5 * time.Millisecond)

	for attempt := 0; attempt < 4; attempt++ {
		steps := []struct {
			value byte
			pause time.Duration
		}{
			{0x01, 240 * time.Millisecond}, // positive voltage
			{0x03, 40 * time.Millisecond},  // negative voltage
			{0x0f, 40 * time.Millisecond},  // Vcom
		}
		for _, s := range steps {
			if err := d.write(0x05, s.value); err != nil {
				return err
			}
			time.Sleep(s.pause)
		}
		dc, err := d.read(0x0f)
		if err != nil {
			return err
		}
		if dc&0x40 != 0 {
			// output enable to disable
			return d.write(0x02, 0x04)
		}
	}

	d.status = StatusDCFailed
	return d.status
}

type stage int

const (
	stageCompensate stage = iota // B -> W, W -> B (current image)
	stageWhite                   // B -> N, W -> W (current image)
	stageInverse                 // B -> N, W -> B (new image)
	stageNormal                  // B -> B, W -> W (new image)
	stageNothing                 // everything N
)

const (
	pixelNothing byte = 0x01
	pixelWhite   byte = 0x02
	pixelBlack   byte = 0x03
)

func stagePixel(black bool, s stage) byte {
	switch s {
	case stageCompensate:
		if black {
			return pixelWhite
		}
		return pixelBlack
	case stageWhite:
		if black {
			return pixelNothing
		}
		return pixelWhite
	case stageInverse:
		if black {
			return pixelNothing
		}
		return pixelBlack
	case stageNormal:
		if black {
			return pixelBlack
		}
		return pixelWhite
	}
	return pixelNothing
}

// encodeLine builds the data of one gate line: optional border byte, odd
// pixels right to left, scan bytes, even pixels left to right. src holds
// the line's pixels, LSB first. A negative line selects no gate (dummy line).
func encodeLine(dst, src []byte, line, lines int, s stage, borderByte bool) []byte {
	dst = dst[:0]
	if borderByte {
		dst = append(dst, 0x00)
	}

	pixel := func(x int) bool {
		return src[x/8]&(1<<uint(x&7)) != 0
	}
	pack := func(xs ...int) byte {
		var b byte
		for _, x := range xs {
			b = b<<2 | stagePixel(pixel(x), s)
		}
		return b
	}

	for b := len(src) - 1; b >= 0; b-- {
		x := b * 8
		dst = append(dst, pack(x+7, x+5, x+3, x+1))
	}
	for k := lines/4 - 1; k >= 0; k-- {
		var scan byte
		if line >= 0 && line/4 == k {
			scan = 0x03 << uint(2*(line&3))
		}
		dst = append(dst, scan)
	}
	for b := 0; b < len(src); b++ {
		x := b * 8
		dst = append(dst, pack(x+6, x+4, x+2, x))
	}
	return dst
}

func (d *G2) frame(img []byte, s stage) error {
	bytesPerLine := d.geometry.dots / 8
	for line := 0; line < d.geometry.lines; line++ {
		d.line = encodeLine(d.line, img[line*bytesPerLine:(line+1)*bytesPerLine], line, d.geometry.lines, s, d.geometry.borderByte)
		if err := d.writeLine(); err != nil {
			return err
		}
	}
	return nil
}

func (d *G2) writeLine() error {
	if err := d.write(0x04, d.geometry.voltageLevel); err != nil {
		return err
	}
	if err := d.command(0x0a); err != nil {
		return err
	}
	if err := d.data(d.line...); err != nil {
		return err
	}
	// output data from the COG to the panel
	return d.write(0x02, 0x07)
}

// frameRepeat keeps writing the same stage until the temperature dependent
// stage time has elapsed.
func (d *G2) frameRepeat(img []byte, s stage) error {
	start := time.Now()
	for {
		if err := d.frame(img, s); err != nil {
			return err
		}
		if time.Since(start) >= d.stageTime() {
			return nil
		}
	}
}

func (d *G2) checkImage(img []byte) error {
	if len(img) != d.geometry.dots*d.geometry.lines/8 {
		return fmt.Errorf("epd: image is %d bytes, want %d", len(img), d.geometry.dots*d.geometry.lines/8)
	}
	return nil
}

func (d *G2) Transfer(newImage, oldImage []byte) error {
	if d.status != StatusOK {
		return d.status
	}
	if err := d.checkImage(newImage); err != nil {
		return err
	}
	if oldImage == nil {
		// full repaint: start from a white panel
		oldImage = make([]byte, len(newImage))
	} else if err := d.checkImage(oldImage); err != nil {
		return err
	}

	for _, s := range []struct {
		img []byte
		st  stage
	}{
		{oldImage, stageCompensate},
		{oldImage, stageWhite},
		{newImage, stageInverse},
		{newImage, stageNormal},
	} {
		if err := d.frameRepeat(s.img, s.st); err != nil {
			return err
		}
	}
	return nil
}

func (d *G2) Clear() error {
	if d.status != StatusOK {
		return d.status
	}
	size := d.geometry.dots * d.geometry.lines / 8
	black := make([]byte, size)
	for i := range black {
		black[i] = 0xff
	}
	return d.Transfer(make([]byte, size), black)
}

// PowerDown turns the COG off then cuts the panel supply. The supply is cut
// and the panel discharged whatever the COG answered.
func (d *G2) PowerDown() error {
	if !d.on {
		return nil
	}
	d.on = false

	var err error
	if d.status == StatusOK {
		if err = d.shutdownCOG(); err != nil {
			err = fmt.Errorf("epd: power down: %w", err)
		}
	}
	return errors.Join(err, d.railsOff())
}

func (d *G2) shutdownCOG() error {
	if err := d.frame(make([]byte, d.geometry.dots*d.geometry.lines/8), stageNothing); err != nil {
		return err
	}
	d.line = encodeLine(d.line, make([]byte, d.geometry.dots/8), -1, d.geometry.lines, stageNothing, d.geometry.borderByte)
	if err := d.writeLine(); err != nil {
		return err
	}
	if d.geometry.borderByte {
		time.Sleep(25 * time.Millisecond)
		if err := d.out(d.border, gpio.Low, 200*time.Millisecond); err != nil {
			return err
		}
		if err := d.out(d.border, gpio.High, 0); err != nil {
			return err
		}
	}

	shutdown := []struct {
		register, value byte
		pause           time.Duration
	}{
		{0x0b, 0x00, 0},                      // power saving off
		{0x03, 0x01, 0},                      // latch reset
		{0x02, 0x05, 0},                      // output enable off
		{0x05, 0x0e, 0},                      // Vcom off
		{0x05, 0x02, 0},                      // negative voltage off
		{0x04, 0x0c, 120 * time.Millisecond}, // discharge
		{0x05, 0x00, 0},                      // all charge pumps off
		{0x07, 0x0d, 0},                      // oscillator off
		{0x04, 0x50, 40 * time.Millisecond},
		{0x04, 0xa0, 40 * time.Millisecond},
		{0x04, 0x00, 0},
	}
	for _, s := range shutdown {
		if err := d.write(s.register, s.value); err != nil {
			return err
		}
		time.Sleep(s.pause)
	}
	return nil
}

// railsOff cuts the supply and pulses the discharge pin.
func (d *G2) railsOff() error {
	err := d.pinsLow()
	if pulseErr := d.out(d.discharge, gpio.High, 150*time.Millisecond); pulseErr != nil {
		return errors.Join(err, pulseErr)
	}
	return errors.Join(err, d.out(d.discharge, gpio.Low, 0))
}
