// Package interval runs a callback on a fixed period only while its host surface is visible.
package interval

import (
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
)

// Interval owns one repeating timer. Each call site gets its own Interval.
type Interval struct {
	callback func()
	period   time.Duration
	name     string
	hidden   func() bool
	logger   hclog.Logger

	mu   sync.Mutex
	stop chan struct{}
}

// Schedule prepares an interval for callback. Nothing runs until Toggle is called,
// which must happen once at load and again on every visibility change.
func Schedule(callback func(), period time.Duration, name string, hidden func() bool, logger hclog.Logger) *Interval {
	return &Interval{
		callback: callback,
		period:   period,
		name:     name,
		hidden:   hidden,
		logger:   logger,
	}
}

// Toggle clears the active timer when hidden, otherwise (re)arms it.
func (i *Interval) Toggle() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stopLocked()
	if i.hidden() {
		i.logger.Debug("clearing interval", "interval", i.name)
		return
	}
	i.logger.Debug("setting interval", "interval", i.name, "period", i.period)
	i.stop = make(chan struct{})
	go i.run(i.stop)
}

// Active reports whether a timer is currently armed.
func (i *Interval) Active() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stop != nil
}

// Stop clears the timer for good. A callback already running finishes on its own goroutine.
func (i *Interval) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stopLocked()
}

func (i *Interval) stopLocked() {
	if i.stop == nil {
		return
	}
	close(i.stop)
	i.stop = nil
}

func (i *Interval) run(stop chan struct{}) {
	ticker := time.NewTicker(i.period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// select picks randomly when both are ready.
			select {
			case <-stop:
				return
			default:
			}
			i.callback()
		}
	}
}
