package epd

import (
	"github.com/jypelle/tphmonitor/internal/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDisplayBracketsTransfer(t *testing.T) {
	p := NewMemoryPanel(200, 96, true)
	c := NewController(p, gfx.Rotation0)

	gfx.FillRect(c.Canvas(), 0, 0, 16, 4, gfx.Black)
	require.NoError(t, c.Display(21.5))

	assert.Equal(t, []string{"PowerUp", "SetTemperature", "Transfer", "PowerDown"}, p.Calls())
	assert.Equal(t, float32(21.5), p.Temperature())
	assert.False(t, p.Powered())
	assert.Equal(t, PoweredDown, c.State())
	assert.Equal(t, c.Canvas().Bytes(), p.Frame())
	assert.Equal(t, c.Canvas().Bytes(), c.Committed())
}

func TestDisplayPowersDownOnPowerUpFailure(t *testing.T) {
	p := NewMemoryPanel(200, 96, true)
	p.PowerUpStatus = StatusUnsupportedCOG
	c := NewController(p, gfx.Rotation0)

	gfx.FillRect(c.Canvas(), 0, 0, 8, 8, gfx.Black)
	err := c.Display(20)

	require.Error(t, err)
	assert.ErrorIs(t, err, StatusUnsupportedCOG)
	assert.Equal(t, []string{"PowerUp", "PowerDown"}, p.Calls())
	assert.Equal(t, PoweredDown, c.State())
	assert.Equal(t, make([]byte, 200*96/8), c.Committed())
}

func TestDisplayKeepsOldImageOnTransferFailure(t *testing.T) {
	p := NewMemoryPanel(128, 96, true)
	c := NewController(p, gfx.Rotation0)

	gfx.FillRect(c.Canvas(), 0, 0, 8, 8, gfx.Black)
	require.NoError(t, c.Display(20))
	committed := append([]byte(nil), c.Committed()...)

	p.TransferStatus = StatusDCFailed
	gfx.FillRect(c.Canvas(), 40, 40, 8, 8, gfx.Black)
	err := c.Display(20)

	require.Error(t, err)
	assert.ErrorIs(t, err, StatusDCFailed)
	assert.Equal(t, committed, c.Committed())
	assert.NotEqual(t, c.Canvas().Bytes(), c.Committed())
	calls := p.Calls()
	assert.Equal(t, "PowerDown", calls[len(calls)-1])
	assert.False(t, p.Powered())
}

func TestNonDifferentialPanel(t *testing.T) {
	p := NewMemoryPanel(128, 96, false)
	c := NewController(p, gfx.Rotation180)

	assert.False(t, c.Differential())
	gfx.FillRect(c.Canvas(), 0, 0, 8, 8, gfx.Black)
	require.NoError(t, c.Display(20))
	assert.Nil(t, c.Committed())
	assert.Equal(t, 1, p.Transfers())
}

func TestInitClearsBuffers(t *testing.T) {
	p := NewMemoryPanel(200, 96, true)
	c := NewController(p, gfx.Rotation0)

	gfx.FillRect(c.Canvas(), 0, 0, 32, 32, gfx.Black)
	require.NoError(t, c.Display(20))

	require.NoError(t, c.Init(20))
	blank := make([]byte, 200*96/8)
	assert.Equal(t, blank, c.Canvas().Bytes())
	assert.Equal(t, blank, c.Committed())
	assert.Equal(t, blank, p.Frame())
	assert.Equal(t, PoweredDown, c.State())
}

func TestClearLeavesFramebuffer(t *testing.T) {
	p := NewMemoryPanel(200, 96, true)
	c := NewController(p, gfx.Rotation0)

	gfx.FillRect(c.Canvas(), 0, 0, 8, 8, gfx.Black)
	before := append([]byte(nil), c.Canvas().Bytes()...)
	require.NoError(t, c.Clear(20))

	assert.Equal(t, before, c.Canvas().Bytes())
	assert.Equal(t, []string{"PowerUp", "SetTemperature", "Clear", "PowerDown"}, p.Calls())
}
