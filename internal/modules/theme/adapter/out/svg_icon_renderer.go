package out

import (
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"typetrack/internal/modules/theme/domain"
	themeout "typetrack/internal/modules/theme/port/out"
)

//go:embed assets/icon.svg
var iconSVG string

const dataURIPrefix = "data:image/svg+xml;base64,"

// SVGIconRenderer recolors the embedded icon and writes one file per tab.
type SVGIconRenderer struct {
	dir string
}

func NewSVGIconRenderer(dir string) themeout.IconRenderer {
	return &SVGIconRenderer{dir: dir}
}

func (r *SVGIconRenderer) Render(_ context.Context, tabID int, theme domain.Theme) (string, error) {
	svg := Recolor(theme)
	if r.dir != "" {
		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			return "", fmt.Errorf("create icon dir: %w", err)
		}
		path := filepath.Join(r.dir, fmt.Sprintf("tab-%d.svg", tabID))
		if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
			return "", fmt.Errorf("write icon: %w", err)
		}
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString([]byte(svg)), nil
}

// Recolor swaps the default main and background colors for the theme's.
func Recolor(theme domain.Theme) string {
	return strings.NewReplacer(
		"e2b714", theme.MainColor,
		"323437", theme.BgColor,
	).Replace(iconSVG)
}
