// Package normalize holds the canonical forms used for lead matching and
// search: RUC (tax id), business name, phone and email lists.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Ruc strips everything but letters and digits and uppercases the rest.
// Returns "" when nothing remains; callers store that as NULL.
func Ruc(value string) string {
	cleaned := nonAlphanumeric.ReplaceAllString(value, "")
	return strings.ToUpper(cleaned)
}

// LeadName produces the search form of a business name: diacritics
// stripped, lowercased, whitespace collapsed.
func LeadName(value string) string {
	decomposed := norm.NFD.String(value)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	lowered := strings.ToLower(strings.TrimSpace(b.String()))
	return whitespaceRun.ReplaceAllString(lowered, " ")
}

// Phone trims and collapses inner whitespace.
func Phone(value string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(value), " ")
}

// Email lowercases a trimmed address.
func Email(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Phones normalizes each entry and drops duplicates, preserving order.
func Phones(values []string) []string {
	return dedupe(values, Phone)
}

// Emails normalizes each entry and drops duplicates, preserving order.
func Emails(values []string) []string {
	return dedupe(values, Email)
}

func dedupe(values []string, fn func(string) string) []string {
	if len(values) == 0 {
		return []string{}
	}
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, raw := range values {
		normalized := fn(raw)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	return result
}

// IsValidSlug reports whether s is a lowercase, hyphen-delimited URL slug.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
