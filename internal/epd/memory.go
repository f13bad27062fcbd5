package epd

import (
	"sync"
)

// MemoryPanel is a panel without hardware. It keeps the last committed frame
// and the sequence of calls it received. Simulation mode and tests use it.
type MemoryPanel struct {
	lock sync.RWMutex

	w, h         int
	differential bool

	// Injected failures, returned by the matching call when not StatusOK.
	PowerUpStatus  Status
	TransferStatus Status

	powered     bool
	temperature float32
	frame       []byte
	calls       []string
	transfers   int
}

var _ Panel = (*MemoryPanel)(nil)

func NewMemoryPanel(w, h int, differential bool) *MemoryPanel {
	return &MemoryPanel{
		w:            w,
		h:            h,
		differential: differential,
		frame:        make([]byte, w*h/8),
	}
}

func (p *MemoryPanel) Width() int         { return p.w }
func (p *MemoryPanel) Height() int        { return p.h }
func (p *MemoryPanel) Differential() bool { return p.differential }

func (p *MemoryPanel) record(call string) {
	p.calls = append(p.calls, call)
}

func (p *MemoryPanel) PowerUp() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.record("PowerUp")
	if p.PowerUpStatus != StatusOK {
		return p.PowerUpStatus
	}
	p.powered = true
	return nil
}

func (p *MemoryPanel) SetTemperature(celsius float32) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.record("SetTemperature")
	p.temperature = celsius
}

func (p *MemoryPanel) Transfer(newImage, oldImage []byte) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.record("Transfer")
	if !p.powered {
		return StatusDCFailed
	}
	if p.TransferStatus != StatusOK {
		return p.TransferStatus
	}
	copy(p.frame, newImage)
	p.transfers++
	return nil
}

func (p *MemoryPanel) Clear() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.record("Clear")
	if !p.powered {
		return StatusDCFailed
	}
	for i := range p.frame {
		p.frame[i] = 0
	}
	return nil
}

func (p *MemoryPanel) PowerDown() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.record("PowerDown")
	p.powered = false
	return nil
}

// Frame returns a copy of the image currently shown.
func (p *MemoryPanel) Frame() []byte {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return append([]byte(nil), p.frame...)
}

func (p *MemoryPanel) Calls() []string {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return append([]string(nil), p.calls...)
}

func (p *MemoryPanel) Transfers() int {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.transfers
}

func (p *MemoryPanel) Temperature() float32 {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.temperature
}

func (p *MemoryPanel) Powered() bool {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.powered
}
