package out

import (
	"context"

	"typetrack/internal/modules/theme/domain"
)

// MappingStore persists the tab to theme mapping for the current session.
type MappingStore interface {
	Load(ctx context.Context) (domain.Mapping, bool, error)
	Save(ctx context.Context, mapping domain.Mapping) error
}

// IconRenderer draws the tab's toolbar icon in the theme's colors and returns its data URI.
type IconRenderer interface {
	Render(ctx context.Context, tabID int, theme domain.Theme) (string, error)
}
