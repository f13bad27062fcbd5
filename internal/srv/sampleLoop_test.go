package srv

import (
	"errors"
	"github.com/jypelle/tphmonitor/internal/datapoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	lock   sync.Mutex
	events []string
	rows   []datapoint.DataPoint
	shown  []datapoint.DataPoint
	fail   bool
}

func (r *recorder) add(e string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) CurrentReading() datapoint.DataPoint {
	r.add("read")
	return datapoint.DataPoint{Time: time.Now().UTC(), TemperatureC: 19.5}
}

func (r *recorder) On()  { r.add("on") }
func (r *recorder) Off() { r.add("off") }
func (r *recorder) Blink(period time.Duration) {
	r.add("blink")
	time.Sleep(time.Millisecond)
}

func (r *recorder) Append(dp datapoint.DataPoint) {
	r.add("log")
	r.lock.Lock()
	defer r.lock.Unlock()
	r.rows = append(r.rows, dp)
}

func (r *recorder) Update(dp datapoint.DataPoint) error {
	r.add("display")
	r.lock.Lock()
	defer r.lock.Unlock()
	r.shown = append(r.shown, dp)
	if r.fail {
		return errors.New("epd: DC failed")
	}
	return nil
}

func TestSamplerCycleOrder(t *testing.T) {
	r := &recorder{}
	s := newSampler(r, r, r, r, time.Now, time.Minute)
	s.cycle()

	assert.Equal(t, []string{"on", "read", "log", "display", "off"}, r.Events())
	assert.Equal(t, float32(19.5), s.lastTemperatureC)
}

func TestSamplerKeepsGoingWhenDisplayFails(t *testing.T) {
	r := &recorder{fail: true}
	s := newSampler(r, r, r, r, time.Now, time.Minute)
	s.cycle()
	s.cycle()
	assert.Len(t, r.rows, 2)
	assert.Len(t, r.shown, 2)
}

func TestSamplerLoop(t *testing.T) {
	r := &recorder{}
	s := newSampler(r, r, r, r, time.Now, 50*time.Millisecond)

	first := datapoint.DataPoint{Time: time.Now().UTC(), TemperatureC: 21}
	go s.loop(first)

	require.Eventually(t, func() bool {
		return strings.Count(strings.Join(r.Events(), ","), "read") >= 3
	}, 2*time.Second, 5*time.Millisecond)
	s.stop()

	events := r.Events()
	// first reading is recorded without touching the sensors again
	assert.Equal(t, []string{"log", "display"}, events[:2])
	joined := strings.Join(events, ",")
	assert.Contains(t, joined, "on,read,log,display,off")
	assert.Equal(t, "off", events[len(events)-1])

	r.lock.Lock()
	defer r.lock.Unlock()
	assert.Equal(t, first, r.rows[0])
	assert.Equal(t, len(r.rows), len(r.shown))
}

func TestSamplerStopWhileWaiting(t *testing.T) {
	r := &recorder{}
	s := newSampler(r, r, r, r, time.Now, time.Hour)
	go s.loop(datapoint.DataPoint{Time: time.Now().UTC()})

	require.Eventually(t, func() bool {
		return strings.Contains(strings.Join(r.Events(), ","), "blink")
	}, time.Second, time.Millisecond)
	s.stop()

	assert.NotContains(t, r.Events(), "read")
}

func TestCenteredLabel(t *testing.T) {
	assert.Equal(t, "  ab  ", CenteredLabel("ab", 6))
	assert.Equal(t, " ab  ", CenteredLabel("ab", 5))
	assert.Equal(t, "abcdef", CenteredLabel("abcdef", 3))

	ts := time.Date(2024, 3, 15, 14, 7, 9, 0, time.UTC)
	label := stoppedLabel(ts, 34)
	assert.Len(t, label, 34)
	assert.Contains(t, label, "Stopped 2024.03.15, 14:07 Z")
	assert.Len(t, stoppedLabel(ts, 32), 32)
}
