package entity

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// OptionalDecimal distinguishes a field that was absent from the payload,
// present but null, and present with a value.
type OptionalDecimal struct {
	Present bool
	Value   *decimal.Decimal
}

// DecimalValue builds a present, non-null OptionalDecimal.
func DecimalValue(d decimal.Decimal) OptionalDecimal {
	return OptionalDecimal{Present: true, Value: &d}
}

// NullDecimal builds a present but null OptionalDecimal.
func NullDecimal() OptionalDecimal {
	return OptionalDecimal{Present: true}
}

// IsNull reports whether the field was sent as null.
func (o OptionalDecimal) IsNull() bool {
	return o.Present && o.Value == nil
}

// UnmarshalJSON is only invoked when the key exists in the payload.
func (o *OptionalDecimal) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	o.Value = &d
	return nil
}
