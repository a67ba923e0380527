package domain

import (
	"fmt"
	"time"

	themedto "typetrack/internal/modules/theme/dto"
)

const (
	ActionUpdateTheme    = "updateTheme"
	ActionSaveTimeTyping = "saveTimeTyping"
)

// Message is the closed set of requests the background accepts.
type Message interface {
	Action() string
	message()
}

// UpdateTheme carries the palette a tab is showing. TabID is nil when the sending tab is gone.
type UpdateTheme struct {
	TabID *int
	Theme themedto.Theme
}

func (UpdateTheme) Action() string { return ActionUpdateTheme }
func (UpdateTheme) message()       {}

// SaveTimeTyping reports minutes typed since the previous report. A zero At means now.
type SaveTimeTyping struct {
	Minutes float64
	At      time.Time
}

func (SaveTimeTyping) Action() string { return ActionSaveTimeTyping }
func (SaveTimeTyping) message()       {}

// Unknown stands for any action outside the set above.
type Unknown struct {
	Name string
}

func (u Unknown) Action() string { return u.Name }
func (Unknown) message()         {}

// Invalid is a known action whose fields could not be read.
type Invalid struct {
	Name   string
	Reason string
}

func (i Invalid) Action() string { return i.Name }
func (Invalid) message()         {}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Err carries the cause of a failure inside the daemon. It never crosses the wire.
	Err     error  `json:"-"`
}

func Succeeded(format string, args ...any) Response {
	return Response{Success: true, Message: fmt.Sprintf(format, args...)}
}

func Failed(format string, args ...any) Response {
	return Response{Success: false, Message: fmt.Sprintf(format, args...)}
}

// Rejected fails with message while keeping err for errors.Is checks.
func Rejected(err error, message string) Response {
	return Response{Success: false, Message: message, Err: err}
}
