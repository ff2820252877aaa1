package models

// Language is the closed set of UI languages the assistant speaks.
type Language string

const (
	LangHindi   Language = "hi"
	LangEnglish Language = "en"
)

// ParseLanguage maps a client-supplied code onto a supported language,
// falling back to Hindi for anything unknown.
func ParseLanguage(code string) Language {
	switch code {
	case "en":
		return LangEnglish
	case "hi":
		return LangHindi
	default:
		return LangHindi
	}
}

// BhashiniCode returns the source-language code the Bhashini pipeline expects.
func (l Language) BhashiniCode() string {
	switch l {
	case LangEnglish:
		return "en"
	default:
		return "hi"
	}
}

func (l Language) String() string {
	return string(l)
}
