package dto

import "time"

type Record struct {
	Date    time.Time `json:"date" yaml:"date"`
	Minutes float64   `json:"minutes" yaml:"minutes"`
}

type SaveInput struct {
	Minutes float64
	At      time.Time
}

type SaveOutput struct {
	Previous    Record
	Today       Record
	Archived    *Record
	Milestone   string
	NotifyError string
}

type InstallOutput struct {
	Installed   bool
	InstalledAt time.Time
}

type StatusOutput struct {
	Today       Record
	Weekday     string
	Goal        float64
	HasGoal     bool
	Ratio       float64
	Percent     float64
	Frequency   string
	HistoryDays int
}

type GoalsOutput struct {
	Goals    map[string]float64
	Weekdays []string
}

type SetGoalsInput struct {
	Goals map[string]float64
}

type SetGoalInput struct {
	Weekday string
	Minutes float64
}

type FrequencyOutput struct {
	Frequency string
	Options   []string
}

type HistoryOutput struct {
	Records []Record
	Today   *Record
}

type ChartInput struct {
	Path string
	Open bool
}

type ChartOutput struct {
	Path   string
	Days   int
	Opened bool
}

// Snapshot is the portable form of every persisted practice key.
type Snapshot struct {
	Version     int                `json:"version" yaml:"version"`
	ExportedAt  time.Time          `json:"exportedAt" yaml:"exportedAt"`
	InstalledAt time.Time          `json:"installedAt" yaml:"installedAt"`
	Today       Record             `json:"timeTypingToday" yaml:"timeTypingToday"`
	History     []Record           `json:"timeTypingHistory" yaml:"timeTypingHistory"`
	Goals       map[string]float64 `json:"dailyGoalsMinutes" yaml:"dailyGoalsMinutes"`
	Frequency   string             `json:"notificationFrequency" yaml:"notificationFrequency"`
}

type ImportOutput struct {
	HistoryDays int
}
