// Package lang picks the sign-in widget language that best fits a user's
// locale, out of the fixed set of languages the Engage widget is localized in.
package lang

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// DefaultLanguage is returned when nothing in the locale is supported.
const DefaultLanguage = "en"

// supportedLanguages lists the widget localizations. Matching is case-sensitive.
var supportedLanguages = []string{
	"ar", "bg", "cs", "da", "de", "el", "en", "es", "fi", "fr", "he", "hr",
	"hu", "id", "it", "ja", "lt", "nb-NO", "nl", "nl-BE", "nl-NL", "no", "pl",
	"pt", "pt-BR", "pt-PT", "ro", "ru", "sk", "sl", "sv", "sv-SE", "th", "zh",
}

// BestSupportedLanguage returns the supported language closest to locale.
// Underscores are read as hyphens ("nl_BE" -> "nl-BE"). The full locale is
// tried first, then its first two characters. If neither is supported,
// defaultLanguage is returned as given.
func BestSupportedLanguage(locale, defaultLanguage string) string {
	candidate := strings.ReplaceAll(locale, "_", "-")
	if IsSupported(candidate) {
		return candidate
	}

	if len(candidate) > 2 {
		candidate = candidate[:2]
	}
	if IsSupported(candidate) {
		return candidate
	}

	return defaultLanguage
}

// Match is BestSupportedLanguage with DefaultLanguage as the fallback.
func Match(locale string) string {
	return BestSupportedLanguage(locale, DefaultLanguage)
}

// FromTag matches a parsed BCP 47 tag.
func FromTag(tag language.Tag, defaultLanguage string) string {
	return BestSupportedLanguage(tag.String(), defaultLanguage)
}

// IsSupported reports whether code is one of the supported languages.
func IsSupported(code string) bool {
	return slices.Contains(supportedLanguages, code)
}

// Supported returns the supported language codes.
func Supported() []string {
	return slices.Clone(supportedLanguages)
}

// SystemLocale returns the user's locale as reported by the operating system.
func SystemLocale() (string, error) {
	loc, err := locale.GetLocale()
	if err != nil {
		return "", fmt.Errorf("failed to detect system locale: %w", err)
	}
	if loc == "" {
		return "", ErrNoLocale
	}
	return loc, nil
}
