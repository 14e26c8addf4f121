package money

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Currency is an ISO 4217 code with an entry in the scale table.
type Currency string

const (
	IDR Currency = "IDR"
	USD Currency = "USD"
)

// scales maps a currency to its number of minor-unit digits. Adding a
// currency is a new row here.
var scales = map[Currency]int32{
	IDR: 0,
	USD: 2,
}

// ParseCurrency accepts a case-insensitive ISO 4217 code that has a scale.
func ParseCurrency(code string) (Currency, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	c := Currency(unit.String())
	if _, ok := scales[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return c, nil
}

// Scale returns the number of minor-unit digits, 0 for unknown codes.
func (c Currency) Scale() int32 {
	return scales[c]
}

func (c Currency) String() string {
	return string(c)
}

func (c Currency) unit() (currency.Unit, bool) {
	unit, err := currency.ParseISO(string(c))
	return unit, err == nil
}
