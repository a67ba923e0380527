package theme

import (
	"github.com/charmbracelet/lipgloss"

	themedto "typetrack/internal/modules/theme/dto"
)

// Styles is the lipgloss rendition of one mirrored site theme.
type Styles struct {
	Main   lipgloss.Color
	Bg     lipgloss.Color
	Sub    lipgloss.Color
	SubAlt lipgloss.Color
	Text   lipgloss.Color
	Err    lipgloss.Color

	App        lipgloss.Style
	Pane       lipgloss.Style
	PaneActive lipgloss.Style
	Title      lipgloss.Style
	Muted      lipgloss.Style
	Hot        lipgloss.Style
	Correct    lipgloss.Style
	Wrong      lipgloss.Style
	Cursor     lipgloss.Style
	Bar        lipgloss.Style
}

func hex(v string) lipgloss.Color {
	return lipgloss.Color("#" + v)
}

// FromTheme derives every UI style from the six theme colors.
func FromTheme(t themedto.Theme) Styles {
	s := Styles{
		Main:   hex(t.MainColor),
		Bg:     hex(t.BgColor),
		Sub:    hex(t.SubColor),
		SubAlt: hex(t.SubAltColor),
		Text:   hex(t.TextColor),
		Err:    hex(t.ErrorColor),
	}
	s.App = lipgloss.NewStyle().
		Background(s.Bg).
		Foreground(s.Text).
		Padding(1, 2)
	s.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(s.Sub).
		Background(s.Bg).
		Foreground(s.Text).
		Padding(0, 1)
	s.PaneActive = s.Pane.BorderForeground(s.Main)
	s.Title = lipgloss.NewStyle().Foreground(s.Main).Bold(true)
	s.Muted = lipgloss.NewStyle().Foreground(s.Sub)
	s.Hot = lipgloss.NewStyle().Foreground(s.Main).Bold(true)
	s.Correct = lipgloss.NewStyle().Foreground(s.Text)
	s.Wrong = lipgloss.NewStyle().Foreground(s.Err).Underline(true)
	s.Cursor = lipgloss.NewStyle().Foreground(s.Bg).Background(s.Main)
	s.Bar = lipgloss.NewStyle().Background(s.SubAlt).Foreground(s.Text)
	return s
}

// Preset is a named site theme the practice view can switch to.
type Preset struct {
	Name  string
	Theme themedto.Theme
}

// Presets starts with the default palette.
var Presets = []Preset{
	{Name: "serika dark", Theme: themedto.Theme{MainColor: "e2b714", BgColor: "323437", SubColor: "646669", SubAltColor: "2c2e31", TextColor: "d1d0c5", ErrorColor: "ca4754"}},
	{Name: "carbon", Theme: themedto.Theme{MainColor: "f66e0d", BgColor: "313131", SubColor: "616161", SubAltColor: "2b2b2b", TextColor: "f5e6c8", ErrorColor: "e72d2d"}},
	{Name: "nord", Theme: themedto.Theme{MainColor: "88c0d0", BgColor: "242933", SubColor: "929aaa", SubAltColor: "1d2129", TextColor: "d8dee9", ErrorColor: "bf616a"}},
	{Name: "dracula", Theme: themedto.Theme{MainColor: "bd93f9", BgColor: "282a36", SubColor: "6272a4", SubAltColor: "20222c", TextColor: "f8f8f2", ErrorColor: "ff5555"}},
	{Name: "paper", Theme: themedto.Theme{MainColor: "444444", BgColor: "eeeeee", SubColor: "b2b2b2", SubAltColor: "dddddd", TextColor: "444444", ErrorColor: "d70000"}},
}
