package dto

import "time"

// FlushOutput describes one saveTimeTyping report. Sent is false when there
// was nothing to report.
type FlushOutput struct {
	Sent    bool
	Minutes float64
	Success bool
	Message string
}

type ThemeOutput struct {
	Sent    bool
	Success bool
	Message string
}

type Stats struct {
	Pending        time.Duration
	ReportedTotal  float64
	Reports        int
	DroppedReports int
}
