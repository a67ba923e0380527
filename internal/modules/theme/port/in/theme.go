package in

import (
	"context"

	"typetrack/internal/modules/theme/dto"
)

type Usecase interface {
	SetTheme(ctx context.Context, input dto.SetThemeInput) (dto.SetThemeOutput, error)
	LookupTheme(ctx context.Context, tabID int) (dto.LookupOutput, error)
	ListThemes(ctx context.Context) ([]dto.TabTheme, error)
	ForgetTab(ctx context.Context, tabID int) error
	DefaultTheme() dto.Theme
}
