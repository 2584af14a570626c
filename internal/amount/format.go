package amount

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ExponentialThreshold is the magnitude above which Format switches to
// exponent notation.
var ExponentialThreshold = FromInt(10000)

// Format renders a for display. Values above ExponentialThreshold use three
// fractional mantissa digits ("1.234e+5"); smaller values are written in full
// with the integer part grouped by thousands.
func Format(a Amount) string {
	if a.d.Abs().GreaterThan(ExponentialThreshold.d) {
		return exponential(a.d, 3)
	}
	sign := ""
	d := a.d
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	out := sign + humanize.BigComma(whole.BigInt())
	if frac := d.Sub(whole); !frac.IsZero() {
		// "0.25" -> ".25"
		out += strings.TrimPrefix(frac.String(), "0")
	}
	return out
}

// FormatRound floors a before formatting, for totals that are shown as whole
// units.
func FormatRound(a Amount) string {
	return Format(a.Floor())
}

func exponential(d decimal.Decimal, digits int32) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	exp := int64(len(d.Truncate(0).BigInt().String()) - 1)
	mantissa := d.Shift(int32(-exp)).Round(digits)
	if mantissa.GreaterThanOrEqual(decimal.NewFromInt(10)) {
		exp++
		mantissa = d.Shift(int32(-exp)).Round(digits)
	}
	return fmt.Sprintf("%s%se+%d", sign, mantissa.StringFixed(digits), exp)
}
