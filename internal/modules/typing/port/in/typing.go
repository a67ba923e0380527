package in

import (
	"context"

	themedto "typetrack/internal/modules/theme/dto"
	"typetrack/internal/modules/typing/dto"
)

type Usecase interface {
	RecordKeystroke(ctx context.Context)
	Flush(ctx context.Context) (dto.FlushOutput, error)
	ObserveTheme(ctx context.Context, theme themedto.Theme) (dto.ThemeOutput, error)
	Stats() dto.Stats
}
