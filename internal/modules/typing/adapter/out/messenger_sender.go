package out

import (
	"context"

	backgrounddto "typetrack/internal/modules/background/dto"
	backgroundin "typetrack/internal/modules/background/port/in"
	typingout "typetrack/internal/modules/typing/port/out"
)

// MessengerSender delivers typing reports through the background messenger.
type MessengerSender struct {
	messenger backgroundin.Messenger
}

func NewMessengerSender(messenger backgroundin.Messenger) typingout.Sender {
	return &MessengerSender{messenger: messenger}
}

func (s *MessengerSender) Send(ctx context.Context, envelope backgrounddto.Envelope) (backgrounddto.Response, error) {
	return s.messenger.Send(ctx, envelope)
}
