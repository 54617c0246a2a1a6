// Copyright (c) 2024 Neomantra Corp

// Package barclock provides the concrete barcore.Clock implementations: a
// wall-clock RealClock driven by the Go runtime timer wheel, and a
// ManualClock a test can step deterministically.
package barclock

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/neomantra/barcore"
)

// RealClock is a barcore.Clock backed by time.Now and time.AfterFunc. Each
// named timer re-arms itself on every fire until canceled, approximating a
// periodic timer on top of Go's one-shot AfterFunc primitive.
type RealClock struct {
	logger *slog.Logger

	mu     sync.Mutex
	timers map[string]*realTimer
}

type realTimer struct {
	intervalNs int64
	stopTimeNs *int64
	callback   barcore.TimerCallback
	timer      *time.Timer
	nextFireNs int64
	canceled   bool
}

// NewRealClock constructs a RealClock. A nil logger defaults to
// slog.Default().
func NewRealClock(logger *slog.Logger) *RealClock {
	if logger == nil {
		logger = slog.Default()
	}
	return &RealClock{
		logger: logger,
		timers: make(map[string]*realTimer),
	}
}

// UtcNowNs returns the current wall-clock time in Unix nanoseconds.
func (c *RealClock) UtcNowNs() int64 {
	return time.Now().UTC().UnixNano()
}

// SetTimerNs registers a periodic timer under name. Returns an error if name
// is already registered.
func (c *RealClock) SetTimerNs(name string, intervalNs int64, startTimeNs int64, stopTimeNs *int64, callback barcore.TimerCallback) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.timers[name]; exists {
		return fmt.Errorf("%w: timer %q already registered", barcore.ErrTimerRegistration, name)
	}

	rt := &realTimer{
		intervalNs: intervalNs,
		stopTimeNs: stopTimeNs,
		callback:   callback,
		nextFireNs: startTimeNs,
	}
	c.timers[name] = rt

	delay := time.Duration(startTimeNs - c.UtcNowNs())
	if delay < 0 {
		delay = 0
	}
	rt.timer = time.AfterFunc(delay, func() { c.fire(name) })

	c.logger.Debug("started timer", "name", name, "interval_ns", intervalNs)
	return nil
}

func (c *RealClock) fire(name string) {
	c.mu.Lock()
	rt, ok := c.timers[name]
	if !ok || rt.canceled {
		c.mu.Unlock()
		return
	}

	fireNs := rt.nextFireNs
	rt.nextFireNs = fireNs + rt.intervalNs

	stop := rt.stopTimeNs != nil && rt.nextFireNs > *rt.stopTimeNs
	if !stop {
		delay := time.Duration(rt.nextFireNs - c.UtcNowNs())
		if delay < 0 {
			delay = 0
		}
		rt.timer = time.AfterFunc(delay, func() { c.fire(name) })
	}
	callback := rt.callback
	c.mu.Unlock()

	callback(barcore.TimeEvent{Name: name, TsEvent: fireNs})
}

// CancelTimer cancels the named timer. A no-op if the name is unknown.
func (c *RealClock) CancelTimer(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rt, ok := c.timers[name]
	if !ok {
		return
	}
	rt.canceled = true
	rt.timer.Stop()
	delete(c.timers, name)
}

// NextTimeNs returns the next scheduled fire time for the named timer, or
// zero if unknown.
func (c *RealClock) NextTimeNs(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	rt, ok := c.timers[name]
	if !ok {
		return 0
	}
	return rt.nextFireNs
}

var _ barcore.Clock = (*RealClock)(nil)
