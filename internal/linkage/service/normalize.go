package service

import (
	"sort"
	"strings"
	"unicode"
)

// Normalize keeps ASCII letters, ASCII digits and whitespace and deletes
// everything else. Deleted runes are not replaced, so "Acme-Widget" becomes
// "AcmeWidget". Case is preserved.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return r
		default:
			return -1
		}
	}, s)
}

// normalizeFor applies Normalize plus the optional case folding.
func normalizeFor(s string, lowercase bool) string {
	out := Normalize(s)
	if lowercase {
		out = strings.ToLower(out)
	}
	return out
}

// Лексикографическая сортировка токенов
func tokenSort(s string) string {
	f := strings.Fields(s)
	if len(f) < 2 {
		return strings.Join(f, " ")
	}
	sort.Strings(f)
	return strings.Join(f, " ")
}
