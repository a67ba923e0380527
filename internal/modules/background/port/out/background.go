package out

import (
	"context"

	"typetrack/internal/modules/background/dto"
)

type DaemonStore interface {
	WritePID(ctx context.Context, pid int) error
	ReadPID(ctx context.Context) (int, error)
	ClearPID(ctx context.Context) error
	SocketPath() string
	LogPath() string
}

// IPCHandler is what the daemon exposes over the socket.
type IPCHandler interface {
	Dispatch(ctx context.Context, envelope dto.Envelope) dto.Response
	Status(ctx context.Context) (dto.DaemonStatus, error)
	Stop(ctx context.Context) error
}

type IPCServer interface {
	Serve(ctx context.Context, socketPath string, handler IPCHandler) error
}

type IPCClient interface {
	Send(ctx context.Context, socketPath string, envelope dto.Envelope) (dto.Response, error)
	Status(ctx context.Context, socketPath string) (dto.DaemonStatus, error)
	Stop(ctx context.Context, socketPath string) error
}
