package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"typetrack/internal/modules/practice/domain"
	apperrors "typetrack/internal/platform/errors"
)

// 2026-01-05 is a Monday.
func mondayGoals(minutes float64) domain.DailyGoals {
	var goals domain.DailyGoals
	goals[time.Monday] = minutes
	return goals
}

func TestCrossedMilestonePriority(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		freq   domain.NotificationFrequency
		prev   float64
		curr   float64
		want   domain.Milestone
		wantOK bool
	}{
		{"never", domain.FrequencyNever, 0, 2, "", false},
		{"quarter crossing", domain.FrequencyQuarter, 0.2, 0.3, domain.MilestoneQuarter, true},
		{"quarter wins over complete", domain.FrequencyQuarter, 0, 1.2, domain.MilestoneQuarter, true},
		{"three quarters before half", domain.FrequencyQuarter, 0.3, 0.8, domain.MilestoneThreeQuarters, true},
		{"half under quarter freq", domain.FrequencyQuarter, 0.3, 0.6, domain.MilestoneHalf, true},
		{"half freq ignores quarter", domain.FrequencyHalf, 0.1, 0.3, "", false},
		{"half freq half", domain.FrequencyHalf, 0.4, 0.5, domain.MilestoneHalf, true},
		{"goal freq ignores half", domain.FrequencyGoal, 0.4, 0.9, "", false},
		{"goal freq complete", domain.FrequencyGoal, 0.9, 1.0, domain.MilestoneGoalComplete, true},
		{"already past", domain.FrequencyQuarter, 1.1, 1.5, "", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := domain.CrossedMilestone(tc.freq, tc.prev, tc.curr)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("expected %q/%v, got %q/%v", tc.want, tc.wantOK, got, ok)
			}
		})
	}
}

func TestEvaluateQuarterExample(t *testing.T) {
	t.Parallel()
	goals := mondayGoals(20)
	prev := domain.TimeTypingRecord{Date: time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC), Minutes: 4}
	curr := domain.TimeTypingRecord{Date: prev.Date, Minutes: 6}
	milestone, ok := domain.Evaluate(domain.FrequencyQuarter, goals, prev, curr)
	if !ok || milestone != domain.MilestoneQuarter {
		t.Fatalf("expected quarter, got %q/%v", milestone, ok)
	}
	if _, ok := domain.Evaluate(domain.FrequencyNever, goals, prev, curr); ok {
		t.Fatalf("never frequency must not notify")
	}
}

func TestEvaluateZeroGoalNeverNotifies(t *testing.T) {
	t.Parallel()
	prev := domain.TimeTypingRecord{Date: time.Date(2026, time.January, 6, 10, 0, 0, 0, time.UTC)}
	curr := domain.TimeTypingRecord{Date: prev.Date, Minutes: 500}
	if _, ok := domain.Evaluate(domain.FrequencyQuarter, mondayGoals(20), prev, curr); ok {
		t.Fatalf("tuesday has no goal and must not notify")
	}
}

func TestThresholdFiresOncePerCrossing(t *testing.T) {
	t.Parallel()
	goals := mondayGoals(20)
	day := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	record := domain.TimeTypingRecord{Date: day, Minutes: 4}
	fired := map[domain.Milestone]int{}
	for i := 0; i < 40; i++ {
		next := domain.MergeTypingTime(&record, 1, day)
		if m, ok := domain.Evaluate(domain.FrequencyQuarter, goals, next.Previous, next.Today); ok {
			fired[m]++
		}
		record = next.Today
	}
	for _, m := range []domain.Milestone{domain.MilestoneQuarter, domain.MilestoneHalf, domain.MilestoneThreeQuarters, domain.MilestoneGoalComplete} {
		if fired[m] != 1 {
			t.Fatalf("expected %s to fire once, fired %d times", m, fired[m])
		}
	}
}

func TestProgressRatioMonotoneAndPercentClamped(t *testing.T) {
	t.Parallel()
	goals := mondayGoals(30)
	day := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	last := -1.0
	for minutes := 0.0; minutes <= 60; minutes += 2.5 {
		ratio, ok := domain.ProgressRatio(domain.TimeTypingRecord{Date: day, Minutes: minutes}, goals)
		if !ok || ratio < last {
			t.Fatalf("ratio not monotone at %v: %v after %v", minutes, ratio, last)
		}
		last = ratio
	}
	if got := domain.ProgressPercent(domain.TimeTypingRecord{Date: day, Minutes: 90}, goals); got != 100 {
		t.Fatalf("expected clamp to 100, got %v", got)
	}
	if got := domain.ProgressPercent(domain.TimeTypingRecord{Date: day, Minutes: 15}, goals); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
	noGoal := domain.TimeTypingRecord{Date: day.AddDate(0, 0, 1), Minutes: 0}
	if got := domain.ProgressPercent(noGoal, goals); got != 100 {
		t.Fatalf("no goal renders complete, got %v", got)
	}
}

func TestDailyGoalsJSON(t *testing.T) {
	t.Parallel()
	goals := mondayGoals(25)
	raw, err := json.Marshal(goals)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]float64
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if len(decoded) != 7 || decoded["monday"] != 25 || decoded["sunday"] != 0 {
		t.Fatalf("unexpected goal object: %v", decoded)
	}

	bad := []string{
		`{"monday":1}`,
		`{"sunday":0,"monday":0,"tuesday":0,"wednesday":0,"thursday":0,"friday":0,"caturday":0}`,
		`{"sunday":0,"monday":-1,"tuesday":0,"wednesday":0,"thursday":0,"friday":0,"saturday":0}`,
		`[1,2,3]`,
	}
	for _, input := range bad {
		var g domain.DailyGoals
		if err := json.Unmarshal([]byte(input), &g); !errors.Is(err, apperrors.ErrMalformedData) {
			t.Fatalf("expected malformed data for %s, got %v", input, err)
		}
	}
}

func TestFrequencyJSONRejectsUnknown(t *testing.T) {
	t.Parallel()
	var f domain.NotificationFrequency
	if err := json.Unmarshal([]byte(`"halfGoalCompletion"`), &f); err != nil || f != domain.FrequencyHalf {
		t.Fatalf("expected half frequency, got %q %v", f, err)
	}
	if err := json.Unmarshal([]byte(`"hourly"`), &f); !errors.Is(err, apperrors.ErrMalformedData) {
		t.Fatalf("expected malformed data, got %v", err)
	}
}
