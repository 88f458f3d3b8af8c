// Package i18n holds the Persian and English UI catalogs and picks the
// language of a request.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	Persian = language.Persian
	English = language.English

	supported = []language.Tag{Persian, English}
	matcher   = language.NewMatcher(supported)
)

func init() {
	for _, m := range messages {
		en := m.en
		if en == "" {
			en = m.key
		}
		_ = message.SetString(English, m.key, en)
		_ = message.SetString(Persian, m.key, m.fa)
	}
}

// Supported returns the supported language tags, default first.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Parse maps a raw language value onto a supported tag.
func Parse(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	return match(tag)
}

func match(tags ...language.Tag) (language.Tag, bool) {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// Resolve picks the language from, in order: an explicit choice (query
// parameter), a stored preference (cookie), the Accept-Language header and
// finally fallback.
func Resolve(choice, stored, acceptLanguage string, fallback language.Tag) language.Tag {
	for _, value := range []string{choice, stored} {
		if tag, ok := Parse(value); ok {
			return tag
		}
	}
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			if tag, ok := match(tags...); ok {
				return tag
			}
		}
	}
	return fallback
}

// Locale translates UI strings for one language.
type Locale struct {
	Tag     language.Tag
	printer *message.Printer
}

func NewLocale(tag language.Tag) Locale {
	return Locale{Tag: tag, printer: message.NewPrinter(tag)}
}

// T translates key and formats args into it.
func (l Locale) T(key string, args ...interface{}) string {
	return l.printer.Sprintf(key, args...)
}

// Lang is the base language code, e.g. "fa".
func (l Locale) Lang() string {
	base, _ := l.Tag.Base()
	return base.String()
}

func (l Locale) RTL() bool {
	return l.Lang() == "fa"
}

// Dir is the value of the HTML dir attribute.
func (l Locale) Dir() string {
	if l.RTL() {
		return "rtl"
	}
	return "ltr"
}

// Role translates a user role; unknown roles are returned as they are.
func (l Locale) Role(role string) string {
	for _, m := range roleNames {
		if m.key == role {
			return l.T(m.key)
		}
	}
	return role
}
