package usecase

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"typetrack/internal/modules/background/domain"
	"typetrack/internal/modules/background/dto"
	backgroundin "typetrack/internal/modules/background/port/in"
	practicedto "typetrack/internal/modules/practice/dto"
	practicein "typetrack/internal/modules/practice/port/in"
	themedto "typetrack/internal/modules/theme/dto"
	themein "typetrack/internal/modules/theme/port/in"
	apperrors "typetrack/internal/platform/errors"
)

type Dispatcher struct {
	theme    themein.Usecase
	practice practicein.Usecase
	logger   hclog.Logger
}

var _ backgroundin.Dispatcher = (*Dispatcher)(nil)

func NewDispatcher(theme themein.Usecase, practice practicein.Usecase, logger hclog.Logger) *Dispatcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Dispatcher{theme: theme, practice: practice, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, envelope dto.Envelope) dto.Response {
	resp := d.Handle(ctx, Decode(envelope))
	return dto.Response{Success: resp.Success, Message: resp.Message}
}

// Handle runs one decoded message. Failures come back as responses, never as errors.
func (d *Dispatcher) Handle(ctx context.Context, msg domain.Message) domain.Response {
	d.logger.Debug("received message", "action", msg.Action())
	var resp domain.Response
	switch m := msg.(type) {
	case domain.UpdateTheme:
		resp = d.updateTheme(ctx, m)
	case domain.SaveTimeTyping:
		resp = d.saveTimeTyping(ctx, m)
	case domain.Invalid:
		resp = domain.Failed("invalid %s message, %s", m.Name, m.Reason)
	default:
		err := fmt.Errorf("%w: %s", apperrors.ErrUnhandledAction, msg.Action())
		resp = domain.Rejected(err, err.Error())
	}
	if !resp.Success {
		d.logger.Warn("message failed", "action", msg.Action(), "reason", resp.Message, "error", resp.Err)
	}
	return resp
}

func (d *Dispatcher) updateTheme(ctx context.Context, m domain.UpdateTheme) domain.Response {
	if m.TabID == nil {
		return domain.Rejected(apperrors.ErrMissingSender, "updateTheme from closed tab ignored")
	}
	if d.theme == nil {
		return domain.Failed("failed to update theme, theme mirror is not configured")
	}
	if _, err := d.theme.SetTheme(ctx, themedto.SetThemeInput{TabID: *m.TabID, Theme: m.Theme}); err != nil {
		return domain.Rejected(err, "failed to update theme, "+err.Error())
	}
	return domain.Succeeded("theme updated")
}

func (d *Dispatcher) saveTimeTyping(ctx context.Context, m domain.SaveTimeTyping) domain.Response {
	if d.practice == nil {
		return domain.Failed("failed to save timeTyping, practice tracker is not configured")
	}
	out, err := d.practice.SaveTimeTyping(ctx, practicedto.SaveInput{Minutes: m.Minutes, At: m.At})
	if err != nil {
		return domain.Rejected(err, "failed to save timeTyping, "+err.Error())
	}
	message := "saved " + formatMinutes(m.Minutes) + " minutes of timeTyping"
	if out.Archived != nil {
		message += ", archived " + out.Archived.Date.Format("2006-01-02")
	}
	if out.Milestone != "" {
		message += ", reached " + out.Milestone
	}
	if out.NotifyError != "" {
		message += ", notification failed: " + out.NotifyError
	}
	return domain.Succeeded("%s", message)
}

// Decode maps an envelope onto the closed message set.
func Decode(envelope dto.Envelope) domain.Message {
	switch envelope.Action {
	case domain.ActionUpdateTheme:
		if envelope.Theme == nil {
			return domain.Invalid{Name: envelope.Action, Reason: "theme is required"}
		}
		return domain.UpdateTheme{TabID: envelope.Sender.TabID, Theme: *envelope.Theme}
	case domain.ActionSaveTimeTyping:
		if envelope.TimeTypingMinutes == nil {
			return domain.Invalid{Name: envelope.Action, Reason: "timeTypingMinutes is required"}
		}
		minutes := *envelope.TimeTypingMinutes
		if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
			return domain.Invalid{Name: envelope.Action, Reason: "timeTypingMinutes must be finite"}
		}
		msg := domain.SaveTimeTyping{Minutes: minutes}
		if date := strings.TrimSpace(envelope.Date); date != "" {
			at, err := time.Parse(time.RFC3339Nano, date)
			if err != nil {
				return domain.Invalid{Name: envelope.Action, Reason: "date is not an RFC 3339 timestamp"}
			}
			msg.At = at.UTC()
		}
		return msg
	default:
		return domain.Unknown{Name: envelope.Action}
	}
}

func formatMinutes(minutes float64) string {
	return strconv.FormatFloat(minutes, 'f', -1, 64)
}
