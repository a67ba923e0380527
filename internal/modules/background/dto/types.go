package dto

import (
	"time"

	themedto "typetrack/internal/modules/theme/dto"
)

type Sender struct {
	TabID *int `json:"tabId,omitempty"`
}

// Envelope is the wire form of every message sent to the background.
type Envelope struct {
	Action            string          `json:"action"`
	Sender            Sender          `json:"sender"`
	Theme             *themedto.Theme `json:"theme,omitempty"`
	TimeTypingMinutes *float64        `json:"timeTypingMinutes,omitempty"`
	Date              string          `json:"date,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type DaemonStatus struct {
	Running    bool
	PID        int
	SocketPath string
	StartedAt  time.Time
	Handled    int64
	Failed     int64
	LastAction string
}

func UpdateTheme(tabID int, theme themedto.Theme) Envelope {
	return Envelope{Action: "updateTheme", Sender: Sender{TabID: &tabID}, Theme: &theme}
}

func SaveTimeTyping(minutes float64, at time.Time) Envelope {
	env := Envelope{Action: "saveTimeTyping", TimeTypingMinutes: &minutes}
	if !at.IsZero() {
		env.Date = at.UTC().Format(time.RFC3339Nano)
	}
	return env
}
