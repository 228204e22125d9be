package presenter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/number"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

// Money formats amount in the given ISO 4217 currency using the presenter's
// locale, e.g. "$1,234.50". Fraction digits follow the currency's standard
// rounding. Unknown codes fall back to "CODE 1,234.50".
func (p *Presenter) Money(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = entity.DefaultCurrency
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", code, p.number(amount, 2))
	}

	scale, _ := currency.Standard.Rounding(unit)
	rounded := amount.Round(int32(scale))

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	symbol := p.printer.Sprint(currency.Symbol(unit))
	return sign + symbol + p.number(rounded.Abs(), scale)
}

func (p *Presenter) optionalMoney(amount *decimal.Decimal, code string) string {
	if amount == nil {
		return NotAvailable
	}
	return p.Money(*amount, code)
}

func (p *Presenter) number(amount decimal.Decimal, scale int) string {
	f, _ := amount.Float64()
	return p.printer.Sprint(number.Decimal(f, number.Scale(scale)))
}
