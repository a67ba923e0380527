package usecase

import (
	"context"
	"fmt"

	"typetrack/internal/modules/background/dto"
	backgroundin "typetrack/internal/modules/background/port/in"
	backgroundout "typetrack/internal/modules/background/port/out"
	apperrors "typetrack/internal/platform/errors"
)

type Messenger struct {
	client backgroundout.IPCClient
	daemon backgroundout.DaemonStore
}

func NewMessenger(client backgroundout.IPCClient, daemon backgroundout.DaemonStore) backgroundin.Messenger {
	return &Messenger{client: client, daemon: daemon}
}

func (m *Messenger) Send(ctx context.Context, envelope dto.Envelope) (dto.Response, error) {
	resp, err := m.client.Send(ctx, m.daemon.SocketPath(), envelope)
	if err != nil {
		return dto.Response{}, fmt.Errorf("%w: send %s: %v", apperrors.ErrDaemonNotRunning, envelope.Action, err)
	}
	return resp, nil
}
