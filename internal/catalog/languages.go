package catalog

import (
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageCodes are the choices offered for Book.Language, in display order.
var languageCodes = []string{
	"af", "sq", "am", "ar", "hy", "az", "eu", "be", "bn", "bs", "bg", "ca", "ceb",
	"zh-Hans", "zh-Hant", "hr", "cs", "da", "nl", "en", "eo", "et", "fi", "fr", "gl",
	"ka", "de", "el", "gu", "ht", "ha", "haw", "he", "hi", "hu", "is", "id", "ga",
	"it", "ja", "jv", "kn", "kk", "km", "ko", "ku", "ky", "lo", "la", "lv", "lt",
	"lb", "mk", "mg", "ms", "ml", "mt", "mi", "mr", "mn", "ne", "no", "ny", "fa",
	"pl", "pt", "pa", "ro", "ru", "sm", "gd", "sr", "st", "sn", "sd", "si", "sk",
	"sl", "so", "es", "su", "sw", "sv", "tl", "tg", "ta", "te", "th", "tr", "uk",
	"ur", "uz", "vi", "cy", "xh", "yi", "yo", "zu",
}

// Language is one entry of the language picker. The stored book field stays
// free text; this list only feeds clients.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var languages = sync.OnceValue(func() []Language {
	names := display.Spanish.Languages()
	out := make([]Language, 0, len(languageCodes))
	for _, code := range languageCodes {
		name := names.Name(language.MustParse(code))
		if name == "" {
			name = code
		}
		out = append(out, Language{Code: code, Name: capitalize(name)})
	}
	return out
})

// Languages returns the language choices with Spanish names.
func Languages() []Language {
	return append([]Language(nil), languages()...)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
