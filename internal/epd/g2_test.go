package epd

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"sync"
	"testing"
)

func TestTemperatureFactor(t *testing.T) {
	cases := []struct {
		celsius float32
		factor  int
	}{
		{-20, 170},
		{-10, 170},
		{-7, 120},
		{0, 80},
		{5, 80},
		{8, 40},
		{12, 30},
		{20, 20},
		{25, 10},
		{40, 10},
		{41, 7},
	}
	for _, c := range cases {
		assert.Equal(t, c.factor, temperatureFactor10x(c.celsius), "%v°C", c.celsius)
	}
}

func TestPanelSize(t *testing.T) {
	w, h, err := PanelSize(Size270)
	require.NoError(t, err)
	assert.Equal(t, 264, w)
	assert.Equal(t, 176, h)

	_, _, err = PanelSize(Size(190))
	assert.Error(t, err)
}

func TestEncodeLineLayout(t *testing.T) {
	// 16 pixels, 8 lines: x=0 and x=15 black
	src := []byte{0x01, 0x80}
	line := encodeLine(nil, src, 5, 8, stageNormal, false)

	require.Len(t, line, 2+2+2)

	// odd pixels, right to left: x=15 first
	assert.Equal(t, byte(pixelBlack<<6|pixelWhite<<4|pixelWhite<<2|pixelWhite), line[0])
	assert.Equal(t, byte(0xaa), line[1])

	// scan bytes, last gate group first
	assert.Equal(t, byte(0x03<<2), line[2])
	assert.Equal(t, byte(0x00), line[3])

	// even pixels, left to right: x=0 in the low bits
	assert.Equal(t, byte(0xaa), line[4])
	assert.Equal(t, byte(pixelWhite<<6|pixelWhite<<4|pixelWhite<<2|pixelBlack), line[5])
}

func TestEncodeLineStages(t *testing.T) {
	src := []byte{0xff}
	assert.Equal(t, byte(0xaa), encodeLine(nil, src, 0, 4, stageCompensate, false)[0])
	assert.Equal(t, byte(0x55), encodeLine(nil, src, 0, 4, stageWhite, false)[0])
	assert.Equal(t, byte(0x55), encodeLine(nil, src, 0, 4, stageInverse, false)[0])
	assert.Equal(t, byte(0xff), encodeLine(nil, src, 0, 4, stageNormal, false)[0])

	blank := []byte{0x00}
	assert.Equal(t, byte(0xff), encodeLine(nil, blank, 0, 4, stageCompensate, false)[0])
	assert.Equal(t, byte(0xaa), encodeLine(nil, blank, 0, 4, stageWhite, false)[0])
	assert.Equal(t, byte(0xff), encodeLine(nil, blank, 0, 4, stageInverse, false)[0])
	assert.Equal(t, byte(0x55), encodeLine(nil, blank, 0, 4, stageNothing, false)[0])
}

func TestEncodeLineBorderAndDummy(t *testing.T) {
	line := encodeLine(nil, make([]byte, 33), -1, 176, stageNothing, true)
	require.Len(t, line, 1+33+44+33)
	assert.Equal(t, byte(0x00), line[0])
	for _, b := range line[34 : 34+44] {
		assert.Equal(t, byte(0x00), b)
	}
}

// fakeCOG answers the G2 register protocol: 0x70 selects a register, 0x71
// reads the COG id, 0x72 writes data to the selected register and 0x73
// reads it back.
type fakeCOG struct {
	lock     sync.Mutex
	id       byte
	regs     map[byte]byte
	fail     error
	selected byte
	writes   []cogWrite
}

type cogWrite struct {
	register byte
	data     []byte
}

func newFakeCOG(status byte) *fakeCOG {
	return &fakeCOG{id: 0x12, regs: map[byte]byte{0x0f: status}}
}

func (f *fakeCOG) String() string                         { return "fakeCOG" }
func (f *fakeCOG) Duplex() conn.Duplex                    { return conn.Full }
func (f *fakeCOG) LimitSpeed(freq physic.Frequency) error { return nil }
func (f *fakeCOG) TxPackets(p []spi.Packet) error         { return errors.New("not supported") }

func (f *fakeCOG) Connect(freq physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	return f, nil
}

func (f *fakeCOG) Tx(w, r []byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.fail != nil {
		return f.fail
	}
	switch w[0] {
	case 0x70:
		f.selected = w[1]
	case 0x71:
		r[1] = f.id
	case 0x72:
		f.writes = append(f.writes, cogWrite{f.selected, append([]byte(nil), w[1:]...)})
	case 0x73:
		r[1] = f.regs[f.selected]
	}
	return nil
}

func (f *fakeCOG) setFail(err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.fail = err
}

// written returns the data frames sent to register.
func (f *fakeCOG) written(register byte) [][]byte {
	f.lock.Lock()
	defer f.lock.Unlock()
	var frames [][]byte
	for _, w := range f.writes {
		if w.register == register {
			frames = append(frames, w.data)
		}
	}
	return frames
}

type g2Pins struct {
	panelOn, border, discharge, reset, busy *gpiotest.Pin
}

func newTestG2(t *testing.T, cog *fakeCOG) (*G2, *g2Pins) {
	pins := &g2Pins{
		panelOn:   &gpiotest.Pin{N: "PANEL_ON"},
		border:    &gpiotest.Pin{N: "BORDER"},
		discharge: &gpiotest.Pin{N: "DISCHARGE"},
		reset:     &gpiotest.Pin{N: "RESET"},
		busy:      &gpiotest.Pin{N: "BUSY"},
	}
	d, err := NewG2(cog, &G2Opts{
		Size:         Size144,
		Differential: true,
		PanelOn:      pins.panelOn,
		Border:       pins.border,
		Discharge:    pins.discharge,
		Reset:        pins.reset,
		Busy:         pins.busy,
	})
	require.NoError(t, err)
	return d, pins
}

func (p *g2Pins) assertAllLow(t *testing.T) {
	for _, pin := range []*gpiotest.Pin{p.panelOn, p.border, p.discharge, p.reset} {
		assert.Equal(t, gpio.Low, pin.Read(), "%s", pin)
	}
}

func TestNewG2Validates(t *testing.T) {
	_, err := NewG2(newFakeCOG(0xc0), nil)
	assert.Error(t, err)
	_, err = NewG2(newFakeCOG(0xc0), &G2Opts{Size: Size(190)})
	assert.Error(t, err)
	_, err = NewG2(newFakeCOG(0xc0), &G2Opts{Size: Size200})
	assert.Error(t, err)
}

func TestG2PowerUpStatus(t *testing.T) {
	cases := []struct {
		name   string
		id     byte
		status byte
		want   Status
	}{
		{"ready", 0x12, 0xc0, StatusOK},
		{"other COG", 0x13, 0xc0, StatusUnsupportedCOG},
		{"broken panel", 0x12, 0x40, StatusPanelBroken},
		{"charge pump never ready", 0x12, 0x80, StatusDCFailed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cog := newFakeCOG(c.status)
			cog.id = c.id
			d, pins := newTestG2(t, cog)

			err := d.PowerUp()
			assert.Equal(t, c.want, d.Status())
			if c.want == StatusOK {
				require.NoError(t, err)
				assert.Equal(t, gpio.High, pins.panelOn.Read())
			} else {
				assert.ErrorIs(t, err, c.want)
				assert.ErrorIs(t, d.Transfer(make([]byte, 128*96/8), nil), c.want)
			}

			require.NoError(t, d.PowerDown())
			pins.assertAllLow(t)
			if c.want != StatusOK {
				// no shutdown sequence for a COG that never came up
				assert.NotContains(t, cog.written(0x0b), []byte{0x00})
			}
		})
	}
}

func TestG2PowerDownCutsSupplyOnBusFault(t *testing.T) {
	cog := newFakeCOG(0xc0)
	d, pins := newTestG2(t, cog)
	require.NoError(t, d.PowerUp())
	require.Equal(t, gpio.High, pins.panelOn.Read())

	fault := errors.New("spi bus fault")
	cog.setFail(fault)
	err := d.PowerDown()
	assert.ErrorIs(t, err, fault)
	pins.assertAllLow(t)

	// already off
	assert.NoError(t, d.PowerDown())
}

func TestG2PowerDownSequence(t *testing.T) {
	cog := newFakeCOG(0xc0)
	d, pins := newTestG2(t, cog)
	require.NoError(t, d.PowerUp())
	require.NoError(t, d.PowerDown())
	pins.assertAllLow(t)

	// power saving on at power up, off at power down
	assert.Equal(t, [][]byte{{0x02}, {0x00}}, cog.written(0x0b))
	assert.Equal(t, []byte{0x0d}, cog.written(0x07)[1])

	// the nothing frame plus the dummy line select no pixel
	lines := cog.written(0x0a)
	require.Len(t, lines, 96+1)
	dummy := lines[len(lines)-1]
	for _, b := range dummy[16 : 16+96/4] {
		assert.Equal(t, byte(0), b)
	}
}

func TestG2TransferStages(t *testing.T) {
	cog := newFakeCOG(0xc0)
	d, _ := newTestG2(t, cog)
	require.NoError(t, d.PowerUp())
	d.SetTemperature(50)

	assert.Error(t, d.Transfer(make([]byte, 10), nil))
	assert.Error(t, d.Transfer(make([]byte, 128*96/8), make([]byte, 10)))
	assert.Empty(t, cog.written(0x0a))

	require.NoError(t, d.Transfer(make([]byte, 128*96/8), nil))
	lines := cog.written(0x0a)
	require.GreaterOrEqual(t, len(lines), 4*96)
	assert.Equal(t, 0, len(lines)%96)

	// no old image: compensation inverts a white panel, so every pixel is black
	for _, b := range lines[0][:16] {
		assert.Equal(t, byte(0xff), b)
	}
	// last stage paints the new all white image
	for _, b := range lines[len(lines)-1][:16] {
		assert.Equal(t, byte(0xaa), b)
	}
	require.NoError(t, d.PowerDown())
}
