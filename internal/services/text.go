package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// normalizeText trims whitespace and collapses inner runs to one space.
func normalizeText(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// clip truncates s to max runes. max <= 0 disables clipping.
func clip(s string, max int) string {
	if max > 0 && utf8.RuneCountInString(s) > max {
		return string([]rune(s)[:max])
	}
	return s
}

// displayName builds a person's name from parts, title-cased when every part
// was entered in lower case (as Telegram clients often send them).
func displayName(tag language.Tag, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = normalizeText(p); p != "" {
			kept = append(kept, p)
		}
	}
	name := strings.Join(kept, " ")
	if name != "" && name == strings.ToLower(name) {
		name = cases.Title(tag).String(name)
	}
	return name
}

// optionalText normalizes an optional field; blank becomes nil.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := normalizeText(*s)
	if v == "" {
		return nil
	}
	return &v
}

func requiredText(field, s string, max int) (string, error) {
	s = normalizeText(s)
	if s == "" {
		return "", invalid(field, "is required")
	}
	if max > 0 && utf8.RuneCountInString(s) > max {
		return "", invalid(field, "is too long")
	}
	return s, nil
}
