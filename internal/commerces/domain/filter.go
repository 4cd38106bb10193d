package domain

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filter is the set of list predicates. Active predicates combine with AND;
// Search matches name OR address OR email.
type Filter struct {
	Status       *Status
	Type         *string
	Priority     *Priority
	CommercialID *uuid.UUID
	Search       string
}

// Matches applies the filter in memory. A nil optional field never matches
// the predicate that reads it.
func (f Filter) Matches(c Commerce) bool {
	if f.Status != nil && c.Status != *f.Status {
		return false
	}
	if f.Type != nil && (c.Type == nil || !strings.EqualFold(*c.Type, *f.Type)) {
		return false
	}
	if f.Priority != nil && c.Priority != *f.Priority {
		return false
	}
	if f.CommercialID != nil && (c.CommercialID == nil || *c.CommercialID != *f.CommercialID) {
		return false
	}
	return f.matchesSearch(c)
}

func (f Filter) matchesSearch(c Commerce) bool {
	needle := Fold(f.Search)
	if needle == "" {
		return true
	}
	if strings.Contains(Fold(c.Name), needle) {
		return true
	}
	for _, field := range []*string{c.Address, c.Email} {
		if field != nil && strings.Contains(Fold(*field), needle) {
			return true
		}
	}
	return false
}

// Fold lowercases s and strips diacritics so "Église" matches "eglise".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
