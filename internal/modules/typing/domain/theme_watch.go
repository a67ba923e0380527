package domain

import themedto "typetrack/internal/modules/theme/dto"

// ThemeWatch remembers the last theme sent so unchanged themes are not resent.
// Only the main and background colors drive the icon, so only they count.
type ThemeWatch struct {
	last *themedto.Theme
}

func (w *ThemeWatch) Changed(current themedto.Theme) bool {
	if w.last == nil {
		return true
	}
	return w.last.MainColor != current.MainColor || w.last.BgColor != current.BgColor
}

func (w *ThemeWatch) Remember(current themedto.Theme) {
	t := current
	w.last = &t
}

func (w *ThemeWatch) Forget() {
	w.last = nil
}
