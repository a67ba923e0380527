package dto

type Theme struct {
	MainColor   string `json:"mainColor"`
	BgColor     string `json:"bgColor"`
	SubColor    string `json:"subColor"`
	SubAltColor string `json:"subAltColor"`
	TextColor   string `json:"textColor"`
	ErrorColor  string `json:"errorColor"`
}

type SetThemeInput struct {
	TabID int
	Theme Theme
}

type SetThemeOutput struct {
	TabID   int
	IconURI string
}

type LookupOutput struct {
	TabID   int
	Theme   Theme
	Default bool
}

type TabTheme struct {
	TabID int
	Theme Theme
}
