package domain

import "fmt"

type Milestone string

const (
	MilestoneQuarter       Milestone = "quarter"
	MilestoneHalf          Milestone = "half"
	MilestoneThreeQuarters Milestone = "threeQuarters"
	MilestoneGoalComplete  Milestone = "goalComplete"
)

type threshold struct {
	milestone Milestone
	ratio     float64
	applies   func(NotificationFrequency) bool
}

// thresholds are checked in order and the first crossing wins.
var thresholds = []threshold{
	{MilestoneQuarter, 0.25, func(f NotificationFrequency) bool { return f == FrequencyQuarter }},
	{MilestoneThreeQuarters, 0.75, func(f NotificationFrequency) bool { return f == FrequencyQuarter }},
	{MilestoneHalf, 0.5, func(f NotificationFrequency) bool { return f == FrequencyQuarter || f == FrequencyHalf }},
	{MilestoneGoalComplete, 1.0, func(f NotificationFrequency) bool { return f != FrequencyNever }},
}

// ProgressRatio divides the record's minutes by its weekday goal. ok is false when there is no goal.
func ProgressRatio(record TimeTypingRecord, goals DailyGoals) (float64, bool) {
	goal := goals.For(record.Date)
	if goal == 0 {
		return 0, false
	}
	return record.Minutes / goal, true
}

// ProgressPercent is the progress bar value. A day without a goal renders complete.
func ProgressPercent(record TimeTypingRecord, goals DailyGoals) float64 {
	ratio, ok := ProgressRatio(record, goals)
	if !ok {
		return 100
	}
	percent := ratio * 100
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

func CrossedMilestone(freq NotificationFrequency, prevRatio, currRatio float64) (Milestone, bool) {
	if freq == FrequencyNever {
		return "", false
	}
	for _, t := range thresholds {
		if t.applies(freq) && prevRatio < t.ratio && t.ratio <= currRatio {
			return t.milestone, true
		}
	}
	return "", false
}

// Evaluate decides the milestone crossed between previous and current. Both ratios use the
// goal of current's weekday.
func Evaluate(freq NotificationFrequency, goals DailyGoals, previous, current TimeTypingRecord) (Milestone, bool) {
	if freq == FrequencyNever {
		return "", false
	}
	goal := goals.For(current.Date)
	if goal == 0 {
		return "", false
	}
	return CrossedMilestone(freq, previous.Minutes/goal, current.Minutes/goal)
}

// Notification is a toast shown once and cleared right away.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Milestone Milestone
}

func NotificationFor(milestone Milestone, today TimeTypingRecord, goal float64) Notification {
	var message string
	switch milestone {
	case MilestoneQuarter:
		message = "a quarter of the way to today's goal"
	case MilestoneHalf:
		message = "halfway to today's goal"
	case MilestoneThreeQuarters:
		message = "three quarters of today's goal done"
	case MilestoneGoalComplete:
		message = "today's goal is complete"
	default:
		message = string(milestone)
	}
	return Notification{
		Title:     "typetrack",
		Message:   fmt.Sprintf("%s (%.0f of %.0f minutes)", message, today.Minutes, goal),
		Milestone: milestone,
	}
}
