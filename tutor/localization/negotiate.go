package localization

import (
	"historytutor/tutor/utils/types"

	"golang.org/x/text/language"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Spanish,
	language.MustParse("ht"),
})

// NegotiateLanguage picks the supported language best matching an
// Accept-Language header. Anything unparseable or unmatched is English.
func NegotiateLanguage(acceptLanguage string) types.Language {
	if acceptLanguage == "" {
		return types.LanguageEnglish
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return types.LanguageEnglish
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return types.LanguageEnglish
	}
	return types.Languages[idx]
}
