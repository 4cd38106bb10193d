// Package sanitize provides text sanitization for user-provided free text.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// tagPattern catches markup that only appears after entity decoding.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// entityPattern matches semicolon-terminated references only. Legacy
// references such as "&copy" inside a query string stay literal.
var entityPattern = regexp.MustCompile(`&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[A-Za-z][A-Za-z0-9]{1,31});`)

// StripHTML returns only the text content of s. Entities are decoded once and
// markup never survives, including tags smuggled in through entities.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Raw())
		}
	}
	decoded := entityPattern.ReplaceAllStringFunc(b.String(), html.UnescapeString)
	return strings.TrimSpace(tagPattern.ReplaceAllString(decoded, ""))
}

// Text sanitizes a string for storage: HTML removed, surrounding space trimmed.
func Text(s string) string {
	return StripHTML(s)
}

// TextPtr is Text for optional values. Blank results become nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	if result == "" {
		return nil
	}
	return &result
}
