package domain

import "time"

// TimeTypingRecord is the practice total for one UTC calendar day.
type TimeTypingRecord struct {
	Date    time.Time `json:"date"`
	Minutes float64   `json:"minutes"`
}

// Merge is the outcome of folding one report into the current day.
// Archived is nil unless the report closed out the previous day.
type Merge struct {
	Previous TimeTypingRecord
	Today    TimeTypingRecord
	Archived *TimeTypingRecord
}

// MergeTypingTime folds incoming minutes reported at `at` into existing.
func MergeTypingTime(existing *TimeTypingRecord, incoming float64, at time.Time) Merge {
	at = at.UTC()
	if existing == nil {
		today := TimeTypingRecord{Date: at, Minutes: incoming}
		return Merge{Previous: today, Today: today}
	}
	old := *existing
	switch {
	case SameDay(old.Date, at):
		today := old
		today.Minutes += incoming
		return Merge{Previous: old, Today: today}
	case IsPreviousDay(old.Date, at):
		spillover := -(MinutesSinceStartOfDay(at) - incoming)
		if spillover > 0 {
			archived := TimeTypingRecord{Date: old.Date, Minutes: old.Minutes + spillover}
			return Merge{
				Previous: old,
				Today:    TimeTypingRecord{Date: at, Minutes: incoming - spillover},
				Archived: &archived,
			}
		}
		archived := old
		return Merge{
			Previous: old,
			Today:    TimeTypingRecord{Date: at, Minutes: incoming},
			Archived: &archived,
		}
	default:
		today := TimeTypingRecord{Date: at, Minutes: incoming}
		return Merge{Previous: today, Today: today}
	}
}

func MinutesSinceStartOfDay(t time.Time) float64 {
	t = t.UTC()
	return float64(t.Hour())*60 +
		float64(t.Minute()) +
		float64(t.Second())/60 +
		float64(t.Nanosecond()/int(time.Millisecond))/60000
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// IsPreviousDay reports whether a falls on the UTC calendar day right before b.
func IsPreviousDay(a, b time.Time) bool {
	y, m, d := b.UTC().Date()
	return SameDay(a, time.Date(y, m, d-1, 12, 0, 0, 0, time.UTC))
}
