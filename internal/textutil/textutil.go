// Package textutil provides pure text-cleaning helpers used when building
// search queries and normalizing ingested content.
package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Corporate-suffix tokens that hurt search precision against discussion
// forum indexes. Whole-word, case-insensitive.
var suffixRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bSE\b`),      // Societas Europaea
	regexp.MustCompile(`(?i)\bNV\b`),      // Naamloze vennootschap
	regexp.MustCompile(`(?i)\bGROUPE\b`),  // French for Group
	regexp.MustCompile(`(?i)\bSA\b`),      // Société Anonyme
	regexp.MustCompile(`(?i)\bSCIENT\.`),  // Scientific abbreviation
	regexp.MustCompile(`(?i)\bINTL\b`),    // International
	regexp.MustCompile(`(?i)\bACT\.A\b`),  // Action A shares
}

// CleanText collapses consecutive whitespace (including newlines and tabs)
// into single spaces and trims. Empty input yields the empty string.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// CleanCompanyName strips corporate-suffix tokens from a company name and
// re-collapses whitespace. Callers must fall back to the original name when
// cleaning yields an empty string.
func CleanCompanyName(name string) string {
	if name == "" {
		return ""
	}
	cleaned := name
	for _, re := range suffixRes {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	return CleanText(cleaned)
}
