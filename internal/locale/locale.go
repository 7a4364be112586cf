// Package locale derives a caption language from the process locale.
package locale

import (
	"errors"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// ErrNoLocale is returned when no usable locale is set in the environment.
var ErrNoLocale = errors.New("no locale set in the environment")

// envVars are consulted in POSIX precedence order.
var envVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// Detect returns the primary language subtag of the process locale, e.g. "en"
// for LANG=en_US.UTF-8.
func Detect() (string, error) {
	return detect(os.Getenv)
}

func detect(getenv func(string) string) (string, error) {
	for _, key := range envVars {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			continue
		}
		if lang, ok := PrimarySubtag(v); ok {
			return lang, nil
		}
	}
	return "", ErrNoLocale
}

// PrimarySubtag reduces a POSIX or BCP 47 locale to its language subtag.
// It reports false for the C and POSIX locales and for unparsable values.
func PrimarySubtag(locale string) (string, bool) {
	s := strings.TrimSpace(locale)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || strings.EqualFold(s, "C") || strings.EqualFold(s, "POSIX") {
		return "", false
	}

	// Raw keeps deprecated codes such as "iw" as written.
	tag, err := language.Raw.Parse(s)
	if err != nil {
		primary, _, _ := strings.Cut(s, "-")
		if primary == "" {
			return "", false
		}
		return strings.ToLower(primary), true
	}
	base, _, _ := tag.Raw()
	return base.String(), true
}
