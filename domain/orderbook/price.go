package orderbook

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// Price is a fixed-point price in ticks of 1e-5.
type Price int64

const (
	// PriceScale is the number of fractional digits a Price carries.
	PriceScale = 5
	// MaxPrice is 9999999.99999.
	MaxPrice Price = 999_999_999_999

	priceWidth = 13
)

var ErrPriceFormat = errors.New("malformed price")

// maxPriceLen bounds the text of a price, leading zeros included.
const maxPriceLen = 32

// plainDecimal accepts [-]digits[.digits] and nothing else. Exponents are
// refused before decimal ever sees them.
func plainDecimal(s string) bool {
	if len(s) == 0 || len(s) > maxPriceLen {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
	}
	intPart, frac, hasPoint := strings.Cut(s, ".")
	if !allDigits(intPart) {
		return false
	}
	return !hasPoint || allDigits(frac)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParsePrice reads a plain decimal price with at most PriceScale fractional
// digits. Range checks are left to the caller.
func ParsePrice(s string) (Price, error) {
	if !plainDecimal(s) {
		return 0, errors.Wrapf(ErrPriceFormat, "%q", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(ErrPriceFormat, "%q", s)
	}
	ticks := d.Shift(PriceScale)
	if !ticks.IsInteger() {
		return 0, errors.Wrapf(ErrPriceFormat, "%q has more than %d decimals", s, PriceScale)
	}
	if ticks.GreaterThan(decimal.NewFromInt(int64(MaxPrice))) ||
		ticks.LessThan(decimal.NewFromInt(-int64(MaxPrice))) {
		return 0, errors.Wrapf(ErrPriceFormat, "%q out of range", s)
	}
	return Price(ticks.IntPart()), nil
}

// MustParsePrice is ParsePrice for constants and tests.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PriceFromInt converts a whole number of currency units.
func PriceFromInt(units int64) Price {
	return Price(units * 100_000)
}

func (p Price) Decimal() decimal.Decimal {
	return decimal.New(int64(p), -PriceScale)
}

func (p Price) Valid() bool {
	return p > 0 && p <= MaxPrice
}

// String prints 7.5 fixed-point, zero padded to 13 characters.
func (p Price) String() string {
	s := p.Decimal().StringFixed(PriceScale)
	if p < 0 {
		return "-" + pad(s[1:], priceWidth-1)
	}
	return pad(s, priceWidth)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
