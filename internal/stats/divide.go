package stats

import (
	"bytes"

	"github.com/shopspring/decimal"

	"gigtrack/internal/core"
)

// Rate is a per-unit money figure, e.g. dollars per trip. OK is false
// when the denominator was zero; such rates serialize as JSON null
// instead of propagating Inf or NaN.
type Rate struct {
	Value decimal.Decimal
	OK    bool
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.OK {
		return []byte("null"), nil
	}
	return r.Value.MarshalJSON()
}

// UnmarshalJSON mirrors MarshalJSON: null decodes to an undefined rate,
// any quoted or bare decimal to a defined one.
func (r *Rate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Rate{}
		return nil
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = Rate{Value: v, OK: true}
	return nil
}

// SafeDivide divides num by den, rounding to two decimal places.
// A zero denominator yields a Rate with OK false.
func SafeDivide(num, den decimal.Decimal) Rate {
	if den.IsZero() {
		return Rate{}
	}
	return Rate{Value: num.DivRound(den, 2), OK: true}
}

// PerTripRate returns dollars earned per trip.
func PerTripRate(amount core.Money, trips int64) Rate {
	return SafeDivide(dollars(amount), decimal.NewFromInt(trips))
}

// PerHourRate returns dollars earned per hour given tracked minutes.
func PerHourRate(amount core.Money, minutes int64) Rate {
	if minutes == 0 {
		return Rate{}
	}
	hours := decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60))
	return SafeDivide(dollars(amount), hours)
}

func dollars(m core.Money) decimal.Decimal {
	return decimal.New(m.Cents, -2)
}
