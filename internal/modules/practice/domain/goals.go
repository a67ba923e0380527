package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	apperrors "typetrack/internal/platform/errors"
)

// WeekdayNames is the storage key for each weekday, indexed by time.Weekday.
var WeekdayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// ParseWeekday maps a lowercase weekday name to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for i, candidate := range WeekdayNames {
		if candidate == strings.ToLower(strings.TrimSpace(name)) {
			return time.Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", apperrors.ErrInvalidInput, name)
}

// DailyGoals holds the goal minutes per weekday. A zero goal means no goal.
type DailyGoals [7]float64

func (g DailyGoals) For(t time.Time) float64 {
	return g[t.UTC().Weekday()]
}

func (g DailyGoals) Validate() error {
	for i, minutes := range g {
		if minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
			return fmt.Errorf("%w: goal for %s must be a non-negative number", apperrors.ErrInvalidInput, WeekdayNames[i])
		}
	}
	return nil
}

func (g DailyGoals) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, len(WeekdayNames))
	for i, name := range WeekdayNames {
		out[name] = g[i]
	}
	return json.Marshal(out)
}

func (g *DailyGoals) UnmarshalJSON(raw []byte) error {
	var in map[string]float64
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("%w: daily goals: %v", apperrors.ErrMalformedData, err)
	}
	parsed, err := GoalsFromMap(in)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// GoalsFromMap builds a goal table from exactly seven weekday entries.
func GoalsFromMap(in map[string]float64) (DailyGoals, error) {
	var goals DailyGoals
	if len(in) != len(WeekdayNames) {
		return goals, fmt.Errorf("%w: daily goals need %d weekdays, got %d", apperrors.ErrMalformedData, len(WeekdayNames), len(in))
	}
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		day, err := ParseWeekday(name)
		if err != nil || WeekdayNames[day] != name {
			return goals, fmt.Errorf("%w: unknown weekday %q in daily goals", apperrors.ErrMalformedData, name)
		}
		minutes := in[name]
		if minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
			return goals, fmt.Errorf("%w: goal for %s is negative", apperrors.ErrMalformedData, name)
		}
		goals[day] = minutes
	}
	return goals, nil
}

// NotificationFrequency selects which milestones produce a notification.
type NotificationFrequency string

const (
	FrequencyNever   NotificationFrequency = "never"
	FrequencyQuarter NotificationFrequency = "quarterGoalCompletion"
	FrequencyHalf    NotificationFrequency = "halfGoalCompletion"
	FrequencyGoal    NotificationFrequency = "goalCompletion"
)

var Frequencies = []NotificationFrequency{FrequencyNever, FrequencyQuarter, FrequencyHalf, FrequencyGoal}

func ParseFrequency(raw string) (NotificationFrequency, error) {
	for _, f := range Frequencies {
		if string(f) == raw {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown notification frequency %q", apperrors.ErrInvalidInput, raw)
}

func (f *NotificationFrequency) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("%w: notification frequency: %v", apperrors.ErrMalformedData, err)
	}
	parsed, err := ParseFrequency(s)
	if err != nil {
		return fmt.Errorf("%w: unknown notification frequency %q", apperrors.ErrMalformedData, s)
	}
	*f = parsed
	return nil
}
