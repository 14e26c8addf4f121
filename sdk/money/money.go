// Package money implements exact currency amounts on top of an
// arbitrary-precision decimal. Values are immutable; every operation returns
// a new Money and never rounds. Rounding to the currency's minor unit happens
// only in ToMinor and Format.
package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nandanugg/canvass/sdk/numeric"
)

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrOverflow         = errors.New("amount does not fit in int64 minor units")
)

type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// FromMinor builds Money from an integer count of minor units, e.g. cents.
func FromMinor(minor int64, c Currency) Money {
	return Money{amount: decimal.New(minor, -c.Scale()), currency: c}
}

// FromMinorString is FromMinor for minor units held as a decimal string.
func FromMinorString(minor string, c Currency) (Money, error) {
	d, err := decimal.NewFromString(minor)
	if err != nil {
		return Money{}, fmt.Errorf("parse minor amount %q: %w", minor, err)
	}
	return Money{amount: d.Shift(-c.Scale()), currency: c}, nil
}

// FromMajor stores major as-is. The float is read through its shortest
// decimal representation, so FromMajor(10.555, USD) holds exactly 10.555.
func FromMajor(major float64, c Currency) Money {
	return Money{amount: decimal.NewFromFloat(major), currency: c}
}

// ParseMajor is FromMajor for user-entered decimal strings.
func ParseMajor(major string, c Currency) (Money, error) {
	d, err := decimal.NewFromString(major)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", major, err)
	}
	return Money{amount: d, currency: c}, nil
}

func FromDecimal(d decimal.Decimal, c Currency) Money {
	return Money{amount: d, currency: c}
}

func Rupiah(major float64) Money {
	return FromMajor(major, IDR)
}

func RupiahMinor(minor int64) Money {
	return FromMinor(minor, IDR)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() Currency {
	return m.currency
}

// ToMinor converts to minor units, rounding half away from zero:
// 10.555 USD is 1056 and -10.555 USD is -1056. The result wraps when the
// amount is outside int64; use MinorUnits where that can happen.
func (m Money) ToMinor() int64 {
	return m.minor().IntPart()
}

// MinorUnits is ToMinor that returns ErrOverflow instead of wrapping.
func (m Money) MinorUnits() (int64, error) {
	if !m.FitsMinor() {
		return 0, fmt.Errorf("%w: %s", ErrOverflow, m)
	}
	return m.ToMinor(), nil
}

// FitsMinor reports whether the rounded minor-unit amount is within int64.
func (m Money) FitsMinor() bool {
	return m.minor().BigInt().IsInt64()
}

func (m Money) minor() decimal.Decimal {
	return numeric.RoundHalfAwayFromZero(m.amount.Shift(m.currency.Scale()), 0)
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Mul scales m by a dimensionless factor such as a quantity, tax rate or
// discount rate.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

func (m Money) MulInt(factor int64) Money {
	return m.Mul(decimal.NewFromInt(factor))
}

func (m Money) MulFloat(factor float64) Money {
	return m.Mul(decimal.NewFromFloat(factor))
}

func (m Money) MulString(factor string) (Money, error) {
	d, err := decimal.NewFromString(factor)
	if err != nil {
		return Money{}, fmt.Errorf("parse factor %q: %w", factor, err)
	}
	return m.Mul(d), nil
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Cmp returns -1, 0 or +1 as m is less than, equal to or greater than other.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

func (m Money) GreaterThan(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c > 0, err
}

func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c < 0, err
}

// Equal reports whether m and other have the same currency and amount.
// 1.5 and 1.50 are equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.String() + " " + string(m.currency)
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c, err := ParseCurrency(string(raw.Currency))
	if err != nil {
		return err
	}
	*m = Money{amount: raw.Amount, currency: c}
	return nil
}
