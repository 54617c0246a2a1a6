// Copyright (c) 2024 Neomantra Corp

package barclock

import (
	"fmt"
	"sort"

	"github.com/neomantra/barcore"
)

// ManualClock is a deterministic barcore.Clock for tests: time only advances
// when AdvanceTo is called, and timers fire synchronously on the calling
// goroutine at that point, in scheduled-time order.
type ManualClock struct {
	nowNs  int64
	timers map[string]*manualTimer
}

type manualTimer struct {
	intervalNs int64
	stopTimeNs *int64
	callback   barcore.TimerCallback
	nextFireNs int64
}

// NewManualClock constructs a ManualClock starting at startNs.
func NewManualClock(startNs int64) *ManualClock {
	return &ManualClock{
		nowNs:  startNs,
		timers: make(map[string]*manualTimer),
	}
}

// UtcNowNs returns the clock's current simulated time.
func (c *ManualClock) UtcNowNs() int64 { return c.nowNs }

// SetTimerNs registers a periodic timer under name. Returns an error if name
// is already registered.
func (c *ManualClock) SetTimerNs(name string, intervalNs int64, startTimeNs int64, stopTimeNs *int64, callback barcore.TimerCallback) error {
	if _, exists := c.timers[name]; exists {
		return fmt.Errorf("%w: timer %q already registered", barcore.ErrTimerRegistration, name)
	}
	c.timers[name] = &manualTimer{
		intervalNs: intervalNs,
		stopTimeNs: stopTimeNs,
		callback:   callback,
		nextFireNs: startTimeNs,
	}
	return nil
}

// CancelTimer cancels the named timer. A no-op if the name is unknown.
func (c *ManualClock) CancelTimer(name string) {
	delete(c.timers, name)
}

// NextTimeNs returns the next scheduled fire time for the named timer, or
// zero if unknown.
func (c *ManualClock) NextTimeNs(name string) int64 {
	t, ok := c.timers[name]
	if !ok {
		return 0
	}
	return t.nextFireNs
}

// AdvanceTo moves the clock forward to toNs, firing every due timer exactly
// once per elapsed interval, in chronological order across all registered
// timers (ties broken by timer name for determinism).
func (c *ManualClock) AdvanceTo(toNs int64) {
	for {
		name, due := c.nextDue(toNs)
		if name == "" {
			break
		}
		t := c.timers[name]
		fireNs := t.nextFireNs
		t.nextFireNs += t.intervalNs
		if t.stopTimeNs != nil && t.nextFireNs > *t.stopTimeNs {
			delete(c.timers, name)
		}
		c.nowNs = fireNs
		_ = due
		t.callback(barcore.TimeEvent{Name: name, TsEvent: fireNs})
	}
	if toNs > c.nowNs {
		c.nowNs = toNs
	}
}

// nextDue finds the earliest timer due at or before toNs.
func (c *ManualClock) nextDue(toNs int64) (string, int64) {
	var names []string
	for name, t := range c.timers {
		if t.nextFireNs <= toNs {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", 0
	}
	sort.Slice(names, func(i, j int) bool {
		ti, tj := c.timers[names[i]], c.timers[names[j]]
		if ti.nextFireNs != tj.nextFireNs {
			return ti.nextFireNs < tj.nextFireNs
		}
		return names[i] < names[j]
	})
	return names[0], c.timers[names[0]].nextFireNs
}

var _ barcore.Clock = (*ManualClock)(nil)
