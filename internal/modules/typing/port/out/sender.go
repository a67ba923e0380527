package out

import (
	"context"

	backgrounddto "typetrack/internal/modules/background/dto"
)

// Sender delivers one message to the background and waits for its response.
type Sender interface {
	Send(ctx context.Context, envelope backgrounddto.Envelope) (backgrounddto.Response, error)
}
