package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// SanitizeString removes control characters and surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(s, ""))
}

// RequireText fails when s is blank after sanitizing
func RequireText(field, s string) error {
	if SanitizeString(s) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// ValidateLimit rejects negative monetary limits
func ValidateLimit(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s must not be negative: %s", field, amount.StringFixed(2))
	}
	return nil
}

// ValidatePeriod checks an optional year and month filter. Zero means unset.
func ValidatePeriod(year, month int) error {
	if year != 0 && (year < 2000 || year > 9999) {
		return fmt.Errorf("year out of range: %d", year)
	}
	if month < 0 || month > 12 {
		return fmt.Errorf("month out of range: %d", month)
	}
	return nil
}
