package in

import (
	"context"
	"time"

	"typetrack/internal/modules/background/dto"
	backgroundin "typetrack/internal/modules/background/port/in"
	themedto "typetrack/internal/modules/theme/dto"
)

type CLIHandler struct {
	daemon    backgroundin.Daemon
	messenger backgroundin.Messenger
}

func NewCLIHandler(daemon backgroundin.Daemon, messenger backgroundin.Messenger) CLIHandler {
	return CLIHandler{daemon: daemon, messenger: messenger}
}

func (h CLIHandler) Run(ctx context.Context) error {
	return h.daemon.Run(ctx)
}

func (h CLIHandler) Start(ctx context.Context) error {
	return h.daemon.Start(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) error {
	return h.daemon.Stop(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (dto.DaemonStatus, error) {
	return h.daemon.Status(ctx)
}

func (h CLIHandler) Report(ctx context.Context, minutes float64, at time.Time) (dto.Response, error) {
	return h.messenger.Send(ctx, dto.SaveTimeTyping(minutes, at))
}

func (h CLIHandler) SetTheme(ctx context.Context, tabID int, theme themedto.Theme) (dto.Response, error) {
	return h.messenger.Send(ctx, dto.UpdateTheme(tabID, theme))
}

func (h CLIHandler) Logs(ctx context.Context, tail int) (string, error) {
	return h.daemon.Logs(ctx, tail)
}
