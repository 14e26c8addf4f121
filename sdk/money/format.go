package money

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/nandanugg/canvass/sdk/numeric"
)

// DefaultLocale is used when Format is given a tag it cannot parse.
const DefaultLocale = "id-ID"

// Format renders m for display in locale with the currency's symbol, the
// locale's grouping and exactly Scale() fraction digits:
//
//	Rupiah(1500000).Format("id-ID")          // "Rp\u00a01.500.000"
//	FromMajor(15.50, USD).Format("en-US")    // "$15.50"
//
// The amount is rounded half away from zero first. Digits beyond float64
// precision are not preserved; use ToMinor for anything that is stored.
func (m Money) Format(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	p := message.NewPrinter(tag)

	scale := m.currency.Scale()
	rounded := numeric.RoundHalfAwayFromZero(m.amount.Abs(), scale)
	digits := p.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(int(scale))))

	symbol := string(m.currency)
	if unit, ok := m.currency.unit(); ok {
		symbol = p.Sprint(currency.Symbol(unit))
	}

	out := symbol + symbolSpacing(symbol) + digits
	if m.IsNegative() && !rounded.IsZero() {
		out = "-" + out
	}
	return out
}

// symbolSpacing follows the CLDR currency spacing rule: a symbol ending in a
// letter ("Rp", "US$" does not) is separated from the digits by a no-break
// space.
func symbolSpacing(symbol string) string {
	r, _ := utf8.DecodeLastRuneInString(symbol)
	if unicode.IsLetter(r) {
		return "\u00a0"
	}
	return ""
}
