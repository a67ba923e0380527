package in

import (
	"context"

	"typetrack/internal/modules/theme/dto"
	themein "typetrack/internal/modules/theme/port/in"
)

type CLIHandler struct {
	usecase themein.Usecase
}

func NewCLIHandler(usecase themein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, tabID int) (dto.LookupOutput, error) {
	return h.usecase.LookupTheme(ctx, tabID)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.TabTheme, error) {
	return h.usecase.ListThemes(ctx)
}

func (h CLIHandler) Default() dto.Theme {
	return h.usecase.DefaultTheme()
}

func (h CLIHandler) Forget(ctx context.Context, tabID int) error {
	return h.usecase.ForgetTab(ctx, tabID)
}
