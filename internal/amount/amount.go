// Package amount provides the arbitrary-precision decimal type used for every
// economic quantity in the game: resources, prices, rates and counts.
package amount

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// DivisionPrecision is the number of fractional digits kept by Div.
const DivisionPrecision int32 = 32

// Amount is an immutable base-10 decimal with no practical magnitude bound.
// The zero value is 0.
type Amount struct {
	d decimal.Decimal
}

var (
	Zero = Amount{}
	One  = FromInt(1)
)

// FromInt returns the Amount for an integer.
func FromInt(v int64) Amount {
	return Amount{d: decimal.NewFromInt(v)}
}

// FromBigInt returns the Amount for an arbitrary integer.
func FromBigInt(v *big.Int) Amount {
	return Amount{d: decimal.NewFromBigInt(v, 0)}
}

// Parse reads a decimal string such as "12", "1.2" or "3.5e40".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }
func (a Amount) Mul(b Amount) Amount { return Amount{d: a.d.Mul(b.d)} }

// Div divides with DivisionPrecision fractional digits. Division by zero panics.
func (a Amount) Div(b Amount) Amount {
	return a.DivPrec(b, DivisionPrecision)
}

// DivPrec divides keeping the given number of fractional digits.
func (a Amount) DivPrec(b Amount, precision int32) Amount {
	return Amount{d: a.d.DivRound(b.d, precision)}
}

// Pow raises a to a non-negative integer power by repeated squaring, so the
// result is exact.
func (a Amount) Pow(n int64) Amount {
	if n < 0 {
		panic(fmt.Sprintf("amount: negative exponent %d", n))
	}
	result := decimal.NewFromInt(1)
	base := a.d
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base)
		}
	}
	return Amount{d: result}
}

// Floor rounds toward negative infinity.
func (a Amount) Floor() Amount { return Amount{d: a.d.Floor()} }

// Cmp returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

func (a Amount) Equal(b Amount) bool       { return a.d.Equal(b.d) }
func (a Amount) GreaterThan(b Amount) bool { return a.d.GreaterThan(b.d) }
func (a Amount) LessThan(b Amount) bool    { return a.d.LessThan(b.d) }
func (a Amount) IsZero() bool              { return a.d.IsZero() }
func (a Amount) IsNegative() bool          { return a.d.IsNegative() }
func (a Amount) IsPositive() bool          { return a.d.IsPositive() }

// Max returns the larger of a and b.
func (a Amount) Max(b Amount) Amount {
	if a.LessThan(b) {
		return b
	}
	return a
}

// Min returns the smaller of a and b.
func (a Amount) Min(b Amount) Amount {
	if a.GreaterThan(b) {
		return b
	}
	return a
}

// Scale is the number of digits after the decimal point in a's
// representation. Integers have scale 0.
func (a Amount) Scale() int32 {
	if exp := a.d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}

// Exponent is the power of ten the coefficient is scaled by.
func (a Amount) Exponent() int32 { return a.d.Exponent() }

// BigInt returns the integer part of a.
func (a Amount) BigInt() *big.Int { return a.d.BigInt() }

// Float64 converts for display only; it may lose precision.
func (a Amount) Float64() float64 { return a.d.InexactFloat64() }

// String renders the exact value without exponent notation.
func (a Amount) String() string { return a.d.String() }

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.d.String()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
