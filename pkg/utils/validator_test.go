package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Wellness  ", "Wellness"},
		{"gym\x00 pass\n", "gym pass"},
		{"\t", ""},
	}

	for _, tt := range tests {
		if got := SanitizeString(tt.in); got != tt.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequireText(t *testing.T) {
	if err := RequireText("name", " \x07 "); err == nil {
		t.Error("expected error for blank name")
	}
	if err := RequireText("name", "Education"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit("annual_limit", decimal.Zero); err != nil {
		t.Errorf("zero limit should be valid: %v", err)
	}
	if err := ValidateLimit("annual_limit", decimal.NewFromFloat(-0.01)); err == nil {
		t.Error("negative limit should be rejected")
	}
}

func TestValidatePeriod(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		wantErr bool
	}{
		{"unset", 0, 0, false},
		{"valid", 2024, 3, false},
		{"year only", 2024, 0, false},
		{"month 13", 2024, 13, true},
		{"negative month", 0, -1, true},
		{"ancient year", 1999, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriod(tt.year, tt.month)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePeriod(%d, %d) error = %v, wantErr %v", tt.year, tt.month, err, tt.wantErr)
			}
		})
	}
}
