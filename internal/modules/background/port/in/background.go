package in

import (
	"context"

	"typetrack/internal/modules/background/dto"
)

// Dispatcher answers one envelope with exactly one response. It never returns an error;
// failures become unsuccessful responses.
type Dispatcher interface {
	Dispatch(ctx context.Context, envelope dto.Envelope) dto.Response
}

// Messenger sends envelopes to a running daemon.
type Messenger interface {
	Send(ctx context.Context, envelope dto.Envelope) (dto.Response, error)
}

type Daemon interface {
	Run(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) (dto.DaemonStatus, error)
	Logs(ctx context.Context, tail int) (string, error)
}
