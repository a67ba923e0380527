package usecase

import (
	"context"

	"typetrack/internal/modules/theme/domain"
	"typetrack/internal/modules/theme/dto"
	themein "typetrack/internal/modules/theme/port/in"
	"typetrack/internal/modules/theme/service"
)

type Interactor struct {
	svc *service.ThemeService
}

func NewInteractor(svc *service.ThemeService) themein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) SetTheme(ctx context.Context, input dto.SetThemeInput) (dto.SetThemeOutput, error) {
	uri, err := i.svc.Set(ctx, input.TabID, fromDTO(input.Theme))
	if err != nil {
		return dto.SetThemeOutput{TabID: input.TabID}, err
	}
	return dto.SetThemeOutput{TabID: input.TabID, IconURI: uri}, nil
}

func (i *Interactor) LookupTheme(ctx context.Context, tabID int) (dto.LookupOutput, error) {
	theme, found := i.svc.Lookup(ctx, tabID)
	return dto.LookupOutput{TabID: tabID, Theme: toDTO(theme), Default: !found}, nil
}

func (i *Interactor) ListThemes(ctx context.Context) ([]dto.TabTheme, error) {
	mapping, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TabTheme, 0, len(mapping))
	for _, entry := range mapping {
		out = append(out, dto.TabTheme{TabID: entry.TabID, Theme: toDTO(entry.Theme)})
	}
	return out, nil
}

func (i *Interactor) ForgetTab(ctx context.Context, tabID int) error {
	return i.svc.Forget(ctx, tabID)
}

func (i *Interactor) DefaultTheme() dto.Theme {
	return toDTO(domain.Default())
}

func toDTO(t domain.Theme) dto.Theme {
	return dto.Theme{
		MainColor:   t.MainColor,
		BgColor:     t.BgColor,
		SubColor:    t.SubColor,
		SubAltColor: t.SubAltColor,
		TextColor:   t.TextColor,
		ErrorColor:  t.ErrorColor,
	}
}

func fromDTO(t dto.Theme) domain.Theme {
	return domain.Theme{
		MainColor:   t.MainColor,
		BgColor:     t.BgColor,
		SubColor:    t.SubColor,
		SubAltColor: t.SubAltColor,
		TextColor:   t.TextColor,
		ErrorColor:  t.ErrorColor,
	}
}
