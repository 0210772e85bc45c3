// historytutor/tutor/utils/types/preferences.go
package types

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
	LanguageHaitian Language = "ht"
)

// Languages lists the supported languages in display order.
var Languages = []Language{LanguageEnglish, LanguageSpanish, LanguageHaitian}

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageSpanish, LanguageHaitian:
		return true
	}
	return false
}

type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

func (f FontSize) Valid() bool {
	switch f {
	case FontSmall, FontMedium, FontLarge:
		return true
	}
	return false
}

type FontFamily string

const (
	FontGaramond FontFamily = "garamond"
	FontSans     FontFamily = "sans"
	FontDyslexic FontFamily = "dyslexic"
)

func (f FontFamily) Valid() bool {
	switch f {
	case FontGaramond, FontSans, FontDyslexic:
		return true
	}
	return false
}

type Preferences struct {
	Language   Language   `json:"language"`
	FontSize   FontSize   `json:"fontSize"`
	FontFamily FontFamily `json:"fontFamily"`
}

func DefaultPreferences() Preferences {
	return Preferences{Language: LanguageEnglish, FontSize: FontSmall, FontFamily: FontGaramond}
}

// Merge returns p with every invalid field replaced by the one from fallback.
func (p Preferences) Merge(fallback Preferences) Preferences {
	if !p.Language.Valid() {
		p.Language = fallback.Language
	}
	if !p.FontSize.Valid() {
		p.FontSize = fallback.FontSize
	}
	if !p.FontFamily.Valid() {
		p.FontFamily = fallback.FontFamily
	}
	return p
}
