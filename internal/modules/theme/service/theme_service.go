package service

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"typetrack/internal/modules/theme/domain"
	themeout "typetrack/internal/modules/theme/port/out"
	apperrors "typetrack/internal/platform/errors"
	"typetrack/internal/platform/tx"
)

type ThemeService struct {
	store  themeout.MappingStore
	icons  themeout.IconRenderer
	txm    tx.Manager
	logger hclog.Logger
}

// NewThemeService runs every mapping update inside txm. Tabs report concurrently through the
// daemon, so callers sharing one store must share one manager.
func NewThemeService(store themeout.MappingStore, icons themeout.IconRenderer, txm tx.Manager, logger hclog.Logger) *ThemeService {
	if txm == nil {
		txm = tx.NewSerialManager()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ThemeService{store: store, icons: icons, txm: txm, logger: logger}
}

// Set records the tab's theme and then redraws its icon. The mapping write stays even when
// the icon cannot be drawn.
func (s *ThemeService) Set(ctx context.Context, tabID int, theme domain.Theme) (string, error) {
	if tabID < 0 {
		return "", fmt.Errorf("%w: tab id must not be negative", apperrors.ErrInvalidInput)
	}
	if err := theme.Validate(); err != nil {
		return "", err
	}
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		mapping, _, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		return s.store.Save(ctx, mapping.Set(tabID, theme))
	})
	if err != nil {
		return "", err
	}
	if s.icons == nil {
		return "", nil
	}
	uri, err := s.icons.Render(ctx, tabID, theme)
	if err != nil {
		return "", fmt.Errorf("render icon: %w", err)
	}
	return uri, nil
}

// Lookup never fails. Unknown tabs and unreadable session data yield the default palette.
func (s *ThemeService) Lookup(ctx context.Context, tabID int) (domain.Theme, bool) {
	mapping, found, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("theme lookup fell back to default", "tab", tabID, "error", err)
		return domain.Default(), false
	}
	if !found {
		return domain.Default(), false
	}
	theme, ok := mapping.Lookup(tabID)
	if !ok {
		return domain.Default(), false
	}
	return theme, true
}

func (s *ThemeService) List(ctx context.Context) (domain.Mapping, error) {
	mapping, _, err := s.store.Load(ctx)
	return mapping, err
}

func (s *ThemeService) Forget(ctx context.Context, tabID int) error {
	return s.txm.Within(ctx, func(ctx context.Context) error {
		mapping, found, err := s.store.Load(ctx)
		if err != nil || !found {
			return err
		}
		return s.store.Save(ctx, mapping.Remove(tabID))
	})
}
