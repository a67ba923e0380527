package usecase

import (
	"context"

	themedto "typetrack/internal/modules/theme/dto"
	"typetrack/internal/modules/typing/dto"
	typingin "typetrack/internal/modules/typing/port/in"
	"typetrack/internal/modules/typing/service"
)

type Interactor struct {
	svc *service.TypingService
}

func NewInteractor(svc *service.TypingService) typingin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) RecordKeystroke(context.Context) {
	i.svc.RecordKeystroke()
}

func (i *Interactor) Flush(ctx context.Context) (dto.FlushOutput, error) {
	return i.svc.Flush(ctx)
}

func (i *Interactor) ObserveTheme(ctx context.Context, theme themedto.Theme) (dto.ThemeOutput, error) {
	return i.svc.ObserveTheme(ctx, theme)
}

func (i *Interactor) Stats() dto.Stats {
	return i.svc.Stats()
}
