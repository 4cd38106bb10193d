// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when the caller has no configured region.
const DefaultRegion = "FR"

// Normalizer formats numbers for one default region.
type Normalizer struct {
	region string
}

// NewNormalizer creates a normalizer; an empty region falls back to DefaultRegion.
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	return &Normalizer{region: region}
}

// E164 formats a phone number to E.164. If parsing fails or the number is not
// valid for the region, it returns the trimmed input so nothing is lost.
func (n *Normalizer) E164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, n.region)
	if err != nil {
		return trimmed
	}
	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// E164Ptr is E164 for optional values. Blank input becomes nil.
func (n *Normalizer) E164Ptr(input *string) *string {
	if input == nil {
		return nil
	}
	out := n.E164(*input)
	if out == "" {
		return nil
	}
	return &out
}
